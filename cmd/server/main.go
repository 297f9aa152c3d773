// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unclebandit/influencer-outreach/internal/app"
	"github.com/unclebandit/influencer-outreach/internal/config"
	"github.com/unclebandit/influencer-outreach/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.AppEnv, cfg.LogFile)

	// Runs are cancelled on shutdown; the contact in flight still finishes.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise")
	}
	defer a.Close()

	if cfg.InlineWorker {
		if err := a.SubscribeRuns(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to start outreach subscriber")
		}
	}

	srv := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           newRouter(a),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.AppAddr).
			Str("mail_provider", a.Settings.MailProvider).
			Str("queue", a.Settings.Queue).
			Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	log.Info().Msg("server stopped")
}
