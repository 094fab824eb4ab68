package handlers

import (
	"log/slog"
	"net/http"

	"go_toon_vocab/internal/config"
	"go_toon_vocab/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/spf13/afero"
)

// RouterDeps はルーターの組み立てに必要な依存関係です
type RouterDeps struct {
	Config       *config.Config
	Logger       *slog.Logger
	GroupHandler *GroupHandler
	Health       Pinger
	ImagesFs     afero.Fs // 画像ディレクトリを含むファイルシステム
}

func NewRouter(deps RouterDeps) http.Handler {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewStructuredLogger(logger))

	// 単一ユーザーのローカルツールなので基本は全オリジン許可
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: cfg.CORS.AllowedMethods,
		AllowedHeaders: cfg.CORS.AllowedHeaders,
		MaxAge:         cfg.CORS.MaxAge,
		Debug:          false,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	if cfg.Server.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.MaxBodyBytes(cfg.Server.MaxBodyBytes))
		r.Route("/groups", deps.GroupHandler.Routes)
	})

	images := NewImageFileServer(deps.ImagesFs, cfg.Storage.ImagesDir, cfg.Storage.ImagePrefix)
	r.Handle(cfg.Storage.ImagePrefix+"/*", images)

	if deps.Health != nil {
		r.Get("/health", HealthHandler(deps.Health, logger))
	}

	return r
}
