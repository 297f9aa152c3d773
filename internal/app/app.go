// Package app wires configuration into the services shared by the API
// server and the outreach worker.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/unclebandit/influencer-outreach/internal/config"
	"github.com/unclebandit/influencer-outreach/internal/db"
	appErrors "github.com/unclebandit/influencer-outreach/internal/errors"
	"github.com/unclebandit/influencer-outreach/internal/handler"
	"github.com/unclebandit/influencer-outreach/internal/mailer"
	"github.com/unclebandit/influencer-outreach/internal/queue"
	"github.com/unclebandit/influencer-outreach/internal/repository"
	"github.com/unclebandit/influencer-outreach/internal/service"
	"github.com/unclebandit/influencer-outreach/internal/tracker"
)

type App struct {
	Config   config.Config
	Log      zerolog.Logger
	DB       *sql.DB
	Mailer   *mailer.Dispatcher
	Queue    queue.Queue
	Tracker  *tracker.Tracker
	Runner   *service.OutreachRunner
	Template *service.TemplateService
	Outreach *service.OutreachService
	Settings handler.Settings

	closers []func() error
}

// Build connects the configured backends. A missing database is not fatal:
// store operations then fail with a ConfigurationError. A configured but
// unreachable backend is.
func Build(ctx context.Context, cfg config.Config, log zerolog.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	conn, err := db.Open(ctx, cfg.DSN(), log)
	var cerr *appErrors.ConfigurationError
	switch {
	case errors.As(err, &cerr):
		log.Warn().Msg("DATABASE_URL is not configured, contact and template operations will fail")
	case err != nil:
		return nil, err
	default:
		a.DB = conn
		a.closers = append(a.closers, conn.Close)
		if cfg.DBAutoMigrate {
			if err := db.Migrate(conn, "up"); err != nil {
				a.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
	}

	store, storeName, err := a.runStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Tracker = tracker.New(store, log)

	q, queueName, err := a.queue()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Queue = q

	contacts := &repository.ContactRepository{DB: a.DB}
	templates := &repository.TemplateRepository{DB: a.DB}
	a.Mailer = mailer.NewGateway(cfg, log)
	a.Runner = service.NewOutreachRunner(templates, contacts, a.Mailer, a.Tracker, cfg.SendDelay, log)

	a.Template = &service.TemplateService{
		TemplateRepo: templates,
		Mailer:       a.Mailer,
		Log:          log.With().Str("component", "templates").Logger(),
	}
	a.Outreach = &service.OutreachService{
		ContactRepo:  contacts,
		TemplateRepo: templates,
		Tracker:      a.Tracker,
		Queue:        a.Queue,
		Runner:       a.Runner,
		Topic:        cfg.QueueName,
		Log:          log.With().Str("component", "outreach").Logger(),
	}

	a.Settings = handler.Settings{
		Environment:    cfg.AppEnv,
		Database:       a.DB != nil,
		MailProvider:   a.Mailer.ProviderName(),
		MailConfigured: a.Mailer.Configured(),
		MailMissing:    a.Mailer.MissingSetting(),
		MailFrom:       cfg.MailFrom,
		Queue:          queueName,
		ProgressStore:  storeName,
		SendDelayMS:    cfg.SendDelay.Milliseconds(),
	}
	return a, nil
}

func (a *App) runStore(ctx context.Context) (tracker.Store, string, error) {
	if a.Config.RedisAddr == "" {
		return tracker.NewMemoryStore(), "memory", nil
	}
	client := redis.NewClient(&redis.Options{
		Addr: a.Config.RedisAddr,
		DB:   a.Config.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, "", fmt.Errorf("connect to redis: %w", err)
	}
	a.closers = append(a.closers, client.Close)
	a.Log.Info().Str("addr", a.Config.RedisAddr).Msg("run progress stored in redis")
	return tracker.NewRedisStore(client, a.Config.RunTTL), "redis", nil
}

func (a *App) queue() (queue.Queue, string, error) {
	if a.Config.AMQPURL == "" {
		return queue.NewInMemoryQueue(a.Log), "memory", nil
	}
	q, err := queue.DialAMQP(a.Config.AMQPURL, a.Log)
	if err != nil {
		return nil, "", err
	}
	a.closers = append(a.closers, q.Close)
	return q, "amqp", nil
}

// SubscribeRuns attaches the outreach pipeline to the run queue.
func (a *App) SubscribeRuns(ctx context.Context) error {
	return queue.StartSubscriber(a.Queue, a.Config.QueueName, func(payload []byte) error {
		return a.Outreach.HandleRunJob(ctx, payload)
	}, a.Log)
}

// Close releases connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Log.Warn().Err(err).Msg("close failed")
		}
	}
	a.closers = nil
}
