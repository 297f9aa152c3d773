// internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config is read from the environment after an optional .env file.
type Config struct {
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppAddr string `env:"APP_ADDR" envDefault:":8080"`
	LogFile string `env:"LOG_FILE"`

	DatabaseURL   string `env:"DATABASE_URL"`
	DBHost        string `env:"DB_HOST"`
	DBPort        string `env:"DB_PORT" envDefault:"5432"`
	DBUser        string `env:"DB_USER"`
	DBPassword    string `env:"DB_PASSWORD"`
	DBName        string `env:"DB_NAME"`
	DBSSLMode     string `env:"DB_SSLMODE" envDefault:"disable"`
	DBAutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"false"`

	EmailProvider string        `env:"EMAIL_PROVIDER" envDefault:"resend"` // resend | smtp
	ResendAPIKey  string        `env:"RESEND_API_KEY"`
	MailFrom      string        `env:"MAIL_FROM" envDefault:"InfluencerReach <noreply@influencerreach.com>"`
	MailTimeout   time.Duration `env:"MAIL_TIMEOUT" envDefault:"10s"`
	SMTPHost      string        `env:"SMTP_HOST"`
	SMTPPort      int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername  string        `env:"SMTP_USERNAME"`
	SMTPPassword  string        `env:"SMTP_PASSWORD"`

	SendDelay    time.Duration `env:"SEND_DELAY" envDefault:"1s"`
	AMQPURL      string        `env:"AMQP_URL"`
	QueueName    string        `env:"OUTREACH_QUEUE" envDefault:"outreach_runs"`
	InlineWorker bool          `env:"INLINE_WORKER" envDefault:"true"`

	RedisAddr string        `env:"REDIS_ADDR"`
	RedisDB   int           `env:"REDIS_DB" envDefault:"0"`
	RunTTL    time.Duration `env:"RUN_TTL" envDefault:"24h"`
}

// Load reads .env (if present) and the process environment.
// A missing .env file is not an error.
func Load(files ...string) (Config, error) {
	_ = godotenv.Load(files...)

	var c Config
	if err := env.Parse(&c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	c.EmailProvider = strings.ToLower(strings.TrimSpace(c.EmailProvider))
	return c, nil
}

// DSN returns the database connection string, or "" when no database is configured.
// DATABASE_URL wins over the individual DB_* settings.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.DBHost == "" || c.DBName == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.DBSSLMode,
	}
	if c.DBUser != "" {
		u.User = url.UserPassword(c.DBUser, c.DBPassword)
	}
	return u.String()
}

func (c Config) IsDevelopment() bool {
	env := strings.ToLower(strings.TrimSpace(c.AppEnv))
	return env == "development" || env == "dev"
}
