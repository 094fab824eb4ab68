package webutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go_toon_vocab/internal/model"
)

// DecodeJSONBody はリクエストボディをデコードします。
// 未知のフィールドは無視する (クライアントはGroup全体を送ってくる)。
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return model.ErrInvalidInput
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return model.NewAppError("PAYLOAD_TOO_LARGE", "Request body too large", "",
				fmt.Errorf("%w: body exceeds %d bytes", model.ErrPayloadTooLarge, maxErr.Limit))
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: empty body", model.ErrInvalidInput)
		default:
			return fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
		}
	}
	return nil
}
