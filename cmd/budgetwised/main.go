package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ajibade-k/budgetwise/internal/auth"
	"github.com/ajibade-k/budgetwise/internal/common"
	"github.com/ajibade-k/budgetwise/internal/core"
	"github.com/ajibade-k/budgetwise/internal/core/async"
	"github.com/ajibade-k/budgetwise/internal/extract"
	"github.com/ajibade-k/budgetwise/internal/llm"
	"github.com/ajibade-k/budgetwise/internal/llm/huggingface"
	"github.com/ajibade-k/budgetwise/internal/llm/ollama"
	"github.com/ajibade-k/budgetwise/internal/mailer"
	"github.com/ajibade-k/budgetwise/internal/repository"
	"github.com/ajibade-k/budgetwise/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("creating DB pool", "error", err)
		os.Exit(1)
	}
	defer repository.Close(pool, logger)

	if err := repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout, logger); err != nil {
		logger.Error("DB health failed", "error", err)
		os.Exit(1)
	}

	users := repository.NewUserRepository(pool, logger)
	analyses := repository.NewAnalysisRepository(pool, logger)

	verificationMailer := mailer.New(mailer.Config{
		APIKey:      cfg.Mail.APIKey,
		FromEmail:   cfg.Mail.FromEmail,
		FromName:    cfg.Mail.FromName,
		FrontendURL: cfg.Mail.FrontendURL,
	}, logger)

	authSvc := auth.NewService(users, verificationMailer, cfg.JWT.Secret, cfg.JWT.ExpiresIn, logger)

	completer := buildCompleter(cfg, logger)
	extractor := extract.NewExtractor(logger)
	processor := core.NewProcessor(logger, extractor, completer, analyses)

	queue := async.NewProcessorQueue(processor, logger,
		async.WithWorkers(cfg.Worker.Workers),
		async.WithQueueSize(cfg.Worker.QueueSize),
		async.WithProcessTimeout(cfg.Worker.ProcessTimeout),
	)

	srv := server.New(logger, users, analyses, authSvc, queue, cfg.Uploads, pool)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr, "ai_service", cfg.AI.Service)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	queue.Shutdown(shutdownCtx)
	logger.Info("stopped")
}

func buildCompleter(cfg *common.Config, logger *slog.Logger) llm.Completer {
	switch cfg.AI.Service {
	case "huggingface":
		return huggingface.NewClient(huggingface.Config{
			BaseURL:     cfg.AI.BaseURL,
			Model:       cfg.AI.Model,
			AccessToken: cfg.AI.AccessToken,
			Timeout:     cfg.AI.Timeout,
		}, logger)
	default:
		return ollama.NewClient(ollama.Config{
			BaseURL:     cfg.AI.BaseURL,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			Timeout:     cfg.AI.Timeout,
		}, logger)
	}
}
