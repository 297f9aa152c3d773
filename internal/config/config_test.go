package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("RESEND_API_KEY", "")
	t.Setenv("EMAIL_PROVIDER", "")

	cfg, err := Load("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, time.Second, cfg.SendDelay)
	assert.Equal(t, 10*time.Second, cfg.MailTimeout)
	assert.Equal(t, "outreach_runs", cfg.QueueName)
	assert.True(t, cfg.InlineWorker)
	assert.Equal(t, "", cfg.DSN())
}

func TestLoadNormalisesProvider(t *testing.T) {
	t.Setenv("EMAIL_PROVIDER", " SMTP ")
	cfg, err := Load("testdata/does-not-exist.env")
	require.NoError(t, err)
	assert.Equal(t, "smtp", cfg.EmailProvider)
}

func TestDSN(t *testing.T) {
	c := Config{DatabaseURL: "postgres://a@b/c"}
	assert.Equal(t, "postgres://a@b/c", c.DSN())

	c = Config{DBHost: "db", DBPort: "5432", DBUser: "user", DBPassword: "p@ss", DBName: "outreach", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://user:p%40ss@db:5432/outreach?sslmode=disable", c.DSN())

	c = Config{DBHost: "db"}
	assert.Equal(t, "", c.DSN(), "a host without a database name is not a usable configuration")
}
