// cmd/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/afero"

	"go_toon_vocab/internal/config"
	"go_toon_vocab/internal/furigana"
	"go_toon_vocab/internal/handlers"
	"go_toon_vocab/internal/repository"
	"go_toon_vocab/internal/service"
)

func main() {
	// 設定ファイル読み込み用の一時的なロガー設定
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	if err := config.LoadConfig("configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := &config.Cfg

	logger := newLogger(cfg.Log.Level, tempLogger)
	slog.SetDefault(logger)
	slog.Info("Application starting...", slog.String("app", config.AppName), slog.String("version", config.AppVersion))

	// 1. ストレージ (data.json と images/ は storage.root 以下)
	root, err := filepath.Abs(cfg.Storage.Root)
	if err != nil {
		slog.Error("Error resolving storage root", slog.Any("error", err))
		os.Exit(1)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		slog.Error("Error creating storage root", slog.String("root", root), slog.Any("error", err))
		os.Exit(1)
	}
	rootFs := afero.NewBasePathFs(afero.NewOsFs(), root)

	groupRepo := repository.NewFileGroupRepository(rootFs, cfg.Storage.DataFile)
	vault, err := repository.NewFileImageVault(rootFs, cfg.Storage.ImagesDir, cfg.Storage.ImagePrefix, cfg.Storage.Retention, logger)
	if err != nil {
		slog.Error("Error initializing image vault", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Storage ready",
		slog.String("data", filepath.Join(root, cfg.Storage.DataFile)),
		slog.String("images", filepath.Join(root, cfg.Storage.ImagesDir)),
		slog.String("retention", cfg.Storage.Retention))

	// 2. 初回起動時のみシードデータを書き込む
	if _, err := repository.Seed(context.Background(), groupRepo, time.Now(), logger); err != nil {
		slog.Error("Error seeding data", slog.Any("error", err))
		os.Exit(1)
	}

	// 3. Dependency Injection
	opts := []service.Option{service.WithMinWords(cfg.App.MinWords)}
	if cfg.App.AutoReading {
		opts = append(opts, service.WithReadingFiller(furigana.NewKagomeReader()))
	}
	groupService := service.NewGroupService(groupRepo, vault, logger, opts...)
	groupHandler := handlers.NewGroupHandler(groupService, logger)

	// 4. Setup Router
	router := handlers.NewRouter(handlers.RouterDeps{
		Config:       cfg,
		Logger:       logger,
		GroupHandler: groupHandler,
		Health:       groupRepo,
		ImagesFs:     rootFs,
	})

	// 5. Start Server
	// base64 のデコードを含む大きなリクエストがあるのでタイムアウトは長め
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.RequestTimeout,
		WriteTimeout: cfg.Server.RequestTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}

// newLogger は APP_ENV=dev なら tint、それ以外は JSON のハンドラでロガーを作ります
func newLogger(level string, tempLogger *slog.Logger) *slog.Logger {
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		tempLogger.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	return slog.New(handler)
}
