package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/influencer-outreach/internal/config"
	"github.com/unclebandit/influencer-outreach/internal/logger"
)

func TestBuild_WithoutBackends(t *testing.T) {
	a, err := Build(context.Background(), config.Config{
		EmailProvider: "smtp",
		QueueName:     "outreach_runs",
	}, logger.Nop())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.DB)
	assert.False(t, a.Mailer.Configured())
	assert.Equal(t, "SMTP_HOST", a.Settings.MailMissing)
	assert.Equal(t, "memory", a.Settings.Queue)
	assert.Equal(t, "memory", a.Settings.ProgressStore)
	assert.NoError(t, a.SubscribeRuns(context.Background()))
}

func TestBuild_UnreachableRedisFails(t *testing.T) {
	_, err := Build(context.Background(), config.Config{RedisAddr: "127.0.0.1:1"}, logger.Nop())
	assert.Error(t, err)
}
