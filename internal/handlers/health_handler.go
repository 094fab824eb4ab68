package handlers

import (
	"context"
	"log/slog"
	"net/http"
)

// Pinger はドキュメントが読めるかを確認します
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler はドキュメントストアが読めれば 200 OK を返します
func HealthHandler(p Pinger, logger *slog.Logger) http.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if err := p.Ping(r.Context()); err != nil {
			logger.ErrorContext(r.Context(), "Health check failed: could not read document", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
