//go:generate mockery --name ImageVault --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"strings"
	"sync"
	"time"

	"go_toon_vocab/internal/config"
	"go_toon_vocab/internal/middleware"
	"go_toon_vocab/internal/model"

	"github.com/spf13/afero"
)

// ImageVault は data URI をファイルに変換し、ブラウザから参照できるURLを返します
type ImageVault interface {
	Save(ctx context.Context, key, dataURI string) (string, error)
	Remove(ctx context.Context, url string) error
	IsDataURI(s string) bool
	IsVaultURL(s string) bool
}

var dataURIPattern = regexp.MustCompile(`^data:image/(\w+);base64,(.+)$`)

// ParseDataURI は "data:image/<subtype>;base64,<payload>" を拡張子とバイト列に分解します
func ParseDataURI(dataURI string) (ext string, data []byte, err error) {
	m := dataURIPattern.FindStringSubmatch(dataURI)
	if m == nil {
		return "", nil, model.ErrInvalidImageEncoding
	}
	ext = strings.ToLower(m[1])
	if ext == "jpeg" {
		ext = "jpg"
	}
	data, err = base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		// パディング無しのペイロードも受け付ける
		var rawErr error
		data, rawErr = base64.RawStdEncoding.DecodeString(strings.TrimRight(m[2], "="))
		if rawErr != nil {
			return "", nil, fmt.Errorf("%w: %v", model.ErrInvalidImageEncoding, err)
		}
	}
	return ext, data, nil
}

type fileImageVault struct {
	fs        afero.Fs
	dir       string
	prefix    string // 例: "/images"
	retention string
	now       func() time.Time
	logger    *slog.Logger

	mu     sync.Mutex
	lastMs int64
}

// VaultOption は fileImageVault の設定を変更します
type VaultOption func(*fileImageVault)

// WithClock はファイル名に使う時刻の取得元を差し替えます (テスト用)
func WithClock(now func() time.Time) VaultOption {
	return func(v *fileImageVault) { v.now = now }
}

func NewFileImageVault(fsys afero.Fs, dir, prefix, retention string, logger *slog.Logger, opts ...VaultOption) (ImageVault, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("NewFileImageVault: create %s: %w", dir, err)
	}
	v := &fileImageVault{
		fs:        fsys,
		dir:       dir,
		prefix:    strings.TrimRight(prefix, "/"),
		retention: retention,
		now:       time.Now,
		logger:    logger.With(slog.String("repository", "ImageVault")),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

func (v *fileImageVault) IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:image/")
}

func (v *fileImageVault) IsVaultURL(s string) bool {
	return strings.HasPrefix(s, v.prefix+"/")
}

// Save はデコードした画像を <dir>/<key>_<epochMs>.<ext> に書き込み、
// "/<prefix>/<key>_<epochMs>.<ext>" を返します。
func (v *fileImageVault) Save(ctx context.Context, key, dataURI string) (string, error) {
	logger := middleware.GetLogger(ctx).With(slog.String("repository", "ImageVault"))

	ext, data, err := ParseDataURI(dataURI)
	if err != nil {
		logger.Warn("Rejected data URI", slog.String("key", key), slog.Any("error", err))
		return "", err
	}
	if key == "" || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("ImageVault.Save: %w: bad key %q", model.ErrInvalidInput, key)
	}

	name := fmt.Sprintf("%s_%d.%s", key, v.nextMillis(), ext)
	filePath := path.Join(v.dir, name)
	if err := afero.WriteFile(v.fs, filePath, data, 0o644); err != nil {
		logger.Error("Error writing image file", slog.String("path", filePath), slog.Any("error", err))
		return "", fmt.Errorf("ImageVault.Save: %w: %v", model.ErrIOFailure, err)
	}

	url := v.prefix + "/" + name
	logger.Info("Image stored", slog.String("url", url), slog.Int("bytes", len(data)))
	return url, nil
}

// Remove は保持ポリシーが replace の場合だけファイルを消します。
// vault 外のURL や既に無いファイルは無視する。
func (v *fileImageVault) Remove(ctx context.Context, url string) error {
	logger := middleware.GetLogger(ctx).With(slog.String("repository", "ImageVault"))

	name, ok := v.fileName(url)
	if !ok {
		return nil
	}
	if v.retention == config.RetentionPreserve {
		logger.Info("[Preserved] Skipped deletion of image", slog.String("url", url))
		return nil
	}

	filePath := path.Join(v.dir, name)
	if err := v.fs.Remove(filePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Image already gone", slog.String("url", url))
			return nil
		}
		logger.Error("Error deleting image file", slog.String("path", filePath), slog.Any("error", err))
		return fmt.Errorf("ImageVault.Remove: %w: %v", model.ErrIOFailure, err)
	}
	logger.Info("Image deleted", slog.String("url", url))
	return nil
}

// fileName は vault URL からファイル名を取り出します。ディレクトリ移動を含むものは拒否。
func (v *fileImageVault) fileName(url string) (string, bool) {
	if !v.IsVaultURL(url) {
		return "", false
	}
	name := strings.TrimPrefix(url, v.prefix+"/")
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	return name, true
}

// nextMillis は単調増加するミリ秒を返す。同じミリ秒内の連続保存でも名前が衝突しない。
func (v *fileImageVault) nextMillis() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	ms := v.now().UnixMilli()
	if ms <= v.lastMs {
		ms = v.lastMs + 1
	}
	v.lastMs = ms
	return ms
}
