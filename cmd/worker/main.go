package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/unclebandit/influencer-outreach/internal/app"
	"github.com/unclebandit/influencer-outreach/internal/config"
	appErrors "github.com/unclebandit/influencer-outreach/internal/errors"
	"github.com/unclebandit/influencer-outreach/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.AppEnv, cfg.LogFile).With().Str("process", "worker").Logger()

	if err := checkConfig(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("worker cannot start")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise")
	}
	defer a.Close()

	if err := a.SubscribeRuns(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to register consumer")
	}

	log.Info().Str("queue", cfg.QueueName).Msg("worker running, waiting for outreach runs")
	<-ctx.Done()
	log.Info().Msg("worker stopped")
}

// checkConfig requires a broker. Without a shared redis the worker still
// sends, but the API cannot show progress or cancel its runs.
func checkConfig(cfg config.Config, log zerolog.Logger) error {
	if cfg.AMQPURL == "" {
		return appErrors.NewConfigurationError("AMQP_URL")
	}
	if cfg.RedisAddr == "" {
		log.Warn().Msg("REDIS_ADDR is not configured, run progress will not be visible to the API")
	}
	return nil
}
