package middleware

import "net/http"

// MaxBodyBytes はリクエストボディの上限を設定します。
// 画像を含むJSONは大きくなるため、上限は設定で調整する。
func MaxBodyBytes(limit int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
