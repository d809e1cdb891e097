package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"ai-banker/server/llm"
	"ai-banker/server/session"
	"ai-banker/server/store"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      logLevel(cfg.LogLevel),
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *store.DB
	if cfg.DatabaseURL != "" {
		db, err = store.Open(cfg.DatabaseURL)
		if err != nil {
			log.Error("db open", "err", err)
			os.Exit(1)
		}
		defer db.Close(ctx)
		if cfg.AutoMigrate {
			if err := store.Migrate(ctx, db); err != nil {
				log.Error("migrate", "err", err)
				os.Exit(1)
			}
			log.Info("migrated")
		}
	} else {
		log.Info("no DATABASE_URL, archive disabled")
	}

	sessions := session.New(buildNarrator(cfg, log), archiver(db), cfg.SessionRetention, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      Router(sessions, db),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server", "err", err)
		os.Exit(1)
	}
	log.Info("bye")
}

// buildNarrator prefers the configured model when an API key is around;
// otherwise the banker speaks in fixed templates and the numbers still hold.
func buildNarrator(cfg Config, log *slog.Logger) llm.Narrator {
	hasKey := os.Getenv("OPENAI_API_KEY") != "" || os.Getenv("OPENROUTER_API_KEY") != ""
	if cfg.NarrationModel == "" || !hasKey {
		log.Info("narration: template fallback only")
		return llm.TemplateNarrator{}
	}
	log.Info("narration model", "model", cfg.NarrationModel)
	return llm.NewOpenAINarrator(cfg.NarrationModel, cfg.NarrationTimeout)
}

// archiver keeps the nil-interface-with-nil-pointer trap out of session.New.
func archiver(db *store.DB) session.Archiver {
	if db == nil {
		return nil
	}
	return db
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
