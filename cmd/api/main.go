package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // postgres driver

	"github.com/nyashahama/interview-report-backend/internal/ai"
	"github.com/nyashahama/interview-report-backend/internal/api"
	"github.com/nyashahama/interview-report-backend/internal/config"
	"github.com/nyashahama/interview-report-backend/internal/db"
	"github.com/nyashahama/interview-report-backend/internal/email"
	"github.com/nyashahama/interview-report-backend/internal/report"
	"github.com/nyashahama/interview-report-backend/internal/store"
)

func main() {
	// ── Config ────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		slog.Error("fatal", "error", fmt.Errorf("config: %w", err))
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

// newLogger returns JSON in production, pretty text everywhere else.
func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func run(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("config loaded", "env", cfg.Env, "port", cfg.Port,
		"ai_provider", cfg.AIProvider, "email_provider", cfg.EmailProvider)

	// Root context cancelled by OS signal.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Database ──────────────────────────────────────────────────────────────
	pool, err := openDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()
	logger.Info("database connected")

	st := store.New(pool, db.New(pool))
	if cfg.DBAutoMigrate {
		if err := st.Migrate(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
		logger.Info("database migrated")
	}
	if err := st.Prepare(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	// ── AI ────────────────────────────────────────────────────────────────────
	generator, err := newGenerator(ctx, cfg)
	if err != nil {
		return fmt.Errorf("ai: %w", err)
	}
	logger.Info("ai: provider ready", "provider", cfg.AIProvider, "model", generator.Model())

	// ── Email ─────────────────────────────────────────────────────────────────
	mailer := newMailer(cfg)

	// ── Pipeline ──────────────────────────────────────────────────────────────
	pipeline := report.NewPipeline(
		generator,
		st,
		mailer,
		email.NewIDGenerator(cfg.MessageIDDomain, nil, nil),
		report.Config{
			From:   cfg.EmailUser,
			To:     cfg.EmailHR,
			Prompt: report.PromptTemplate{ReviewURL: cfg.ReviewURL},
		},
		logger,
	)

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.NewServer(pipeline, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       120 * time.Second,
		// No WriteTimeout: a report response waits on the model, SMTP and
		// the database in turn.
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until either a signal arrives or the server dies unexpectedly.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	// Give in-flight requests up to 60 seconds to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// newGenerator builds the single text backend named by AI_PROVIDER. There is
// no fallback: a failed call fails the request.
func newGenerator(ctx context.Context, cfg *config.Config) (ai.Generator, error) {
	switch cfg.AIProvider {
	case config.ProviderGemini:
		return ai.NewGeminiClient(ai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			Timeout: cfg.AITimeout,
		}), nil
	case config.ProviderAnthropic:
		return ai.NewAnthropicClient(ai.ClientConfig{
			APIKey:  cfg.AnthropicAPIKey,
			Model:   cfg.AnthropicModel,
			Timeout: cfg.AITimeout,
		}), nil
	case config.ProviderDeepSeek:
		return ai.NewDeepSeekClient(ai.ClientConfig{
			APIKey:  cfg.DeepSeekAPIKey,
			Model:   cfg.DeepSeekModel,
			Timeout: cfg.AITimeout,
		}), nil
	case config.ProviderArk:
		return ai.NewArkClient(ctx, ai.ClientConfig{
			APIKey:  cfg.ArkAPIKey,
			Model:   cfg.ArkModel,
			BaseURL: cfg.ArkBaseURL,
			Timeout: cfg.AITimeout,
		})
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.AIProvider)
	}
}

func newMailer(cfg *config.Config) email.Sender {
	if cfg.EmailProvider == config.EmailResend {
		return email.NewResendClient(cfg.ResendAPIKey, "")
	}
	return email.NewSMTPClient(email.SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.EmailUser,
		Password:    cfg.EmailPass,
		ImplicitTLS: cfg.SMTPImplicitTLS,
	})
}

// openDB opens the connection pool and verifies it is reachable.
func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	pool, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	// Tune the connection pool.
	pool.SetMaxOpenConns(25)
	pool.SetMaxIdleConns(10)
	pool.SetConnMaxLifetime(5 * time.Minute)
	pool.SetConnMaxIdleTime(2 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return pool, nil
}
