// internal/model/error.go
package model

import "errors"

// アプリケーション固有のエラー
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidImageEncoding = errors.New("invalid base64 image format")
	ErrStorageUnavailable   = errors.New("storage unavailable")
	ErrIOFailure            = errors.New("io failure")
	ErrPayloadTooLarge      = errors.New("payload too large")
	ErrInternalServer       = errors.New("internal server error")
)

// AppError はクライアントに返すメッセージと原因となるエラーを保持します
type AppError struct {
	Code    string // 例: "GROUP_NOT_FOUND"
	Message string // レスポンスの error フィールドにそのまま入る
	Field   string
	Err     error
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{Code: code, Message: message, Field: field, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// APIError はAPIエラーレスポンスの構造体
type APIError struct {
	Error string `json:"error"`
}
