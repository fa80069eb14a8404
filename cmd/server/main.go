package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/imrajeevnayan/GeminiClone/internal/ai"
	"github.com/imrajeevnayan/GeminiClone/internal/auth"
	"github.com/imrajeevnayan/GeminiClone/internal/blob"
	"github.com/imrajeevnayan/GeminiClone/internal/chat"
	"github.com/imrajeevnayan/GeminiClone/internal/config"
	"github.com/imrajeevnayan/GeminiClone/internal/conversation"
	"github.com/imrajeevnayan/GeminiClone/internal/httpapi"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := log.With().Str("service", "geminiclone").Logger()

	cfg := config.Load()

	blobs, err := openBlobStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.StorageBackend).Msg("failed to open storage")
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	authStore := auth.NewStore(startupCtx, blobs, logger, auth.WithLatency(cfg.AuthLatency))
	convs := conversation.NewStore(startupCtx, blobs, logger)
	cancel()

	reg := ai.NewRegistry()
	reg.Register("gemini", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		if model == "" {
			model = cfg.GeminiModel
		}
		return ai.NewGeminiProvider(cfg.GeminiBaseURL, model, cfg.GeminiAPIKey), nil
	})

	provider, err := reg.Get(context.Background(), "gemini", cfg.GeminiModel)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build provider")
	}

	keyConfigured := cfg.GeminiAPIKey != ""
	if !keyConfigured {
		logger.Warn().Msg("GEMINI_API_KEY not set; send requests will produce an explanatory message")
	}

	chatSvc := chat.NewService(convs, provider, keyConfigured, logger)
	router := httpapi.NewRouter(cfg, authStore, convs, chatSvc)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("storage", cfg.StorageBackend).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown failed")
	}
}

func openBlobStore(cfg config.Config) (blob.Store, error) {
	switch cfg.StorageBackend {
	case "file":
		return blob.NewFileStore(cfg.DataDir)
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, err
		}
		return blob.NewSQLiteStore(cfg.SQLitePath)
	case "redis":
		return blob.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), nil
	default:
		return nil, errors.New("unsupported STORAGE_BACKEND: " + cfg.StorageBackend)
	}
}
