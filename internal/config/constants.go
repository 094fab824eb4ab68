// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "ToonVocab"
	AppVersion = "1.1.0"
)

// デフォルト設定値
const (
	DefaultServerPort     = ":3001"
	DefaultRequestTimeout = 120 * time.Second
	DefaultMaxBodyBytes   = 50 << 20 // 50 MiB (base64画像を含むため大きめ)
	DefaultLogLevel       = "info"

	DefaultStorageRoot = "./data"
	DefaultDataFile    = "data.json"
	DefaultImagesDir   = "images"
	DefaultImagePrefix = "/images"

	DefaultMinWords = 10
)

// 画像の保持ポリシー
const (
	RetentionReplace  = "replace"  // 置き換え・削除時に古いファイルを消す
	RetentionPreserve = "preserve" // すべて残す (アーカイブ用途)
)
