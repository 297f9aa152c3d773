package mailer

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/influencer-outreach/internal/config"
	appErrors "github.com/unclebandit/influencer-outreach/internal/errors"
	"github.com/unclebandit/influencer-outreach/internal/logger"
)

type captureProvider struct {
	calls int
	last  Message
	err   error
	panic bool
}

func (c *captureProvider) Name() string { return "capture" }

func (c *captureProvider) Deliver(ctx context.Context, msg Message) (string, any, error) {
	c.calls++
	c.last = msg
	if c.panic {
		panic("boom")
	}
	if c.err != nil {
		return "", nil, c.err
	}
	return "msg_1", map[string]string{"id": "msg_1"}, nil
}

func TestDispatcher_Success(t *testing.T) {
	p := &captureProvider{}
	d := NewDispatcher(p, time.Second, logger.Nop())

	res := d.Send(context.Background(), Message{To: "ava@example.com", Subject: "Hi", HTML: "<p>Hi</p>"})

	require.True(t, res.OK)
	assert.Equal(t, "capture", res.Provider)
	assert.Equal(t, "msg_1", res.MessageID)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, "ava@example.com", p.last.To)
}

func TestDispatcher_ProviderErrorIsDispatchError(t *testing.T) {
	p := &captureProvider{err: errors.New("domain not verified")}
	d := NewDispatcher(p, time.Second, logger.Nop())

	res := d.Send(context.Background(), Message{To: "ava@example.com"})

	require.False(t, res.OK)
	assert.Equal(t, "domain not verified", res.Reason)
	var derr *appErrors.DispatchError
	require.True(t, errors.As(res.Err, &derr))
	assert.Equal(t, "ava@example.com", derr.Recipient)
}

func TestDispatcher_ProviderPanicIsContained(t *testing.T) {
	d := NewDispatcher(&captureProvider{panic: true}, time.Second, logger.Nop())

	var res Result
	assert.NotPanics(t, func() {
		res = d.Send(context.Background(), Message{To: "ava@example.com"})
	})
	assert.False(t, res.OK)
	assert.Contains(t, res.Reason, "boom")
}

func TestUnconfigured_FailsWithoutNetwork(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	cfg := config.Config{EmailProvider: "resend", MailTimeout: time.Second}
	gw := NewGateway(cfg, logger.Nop())
	require.False(t, gw.Configured())

	for _, to := range []string{"", "ava@example.com", "not-an-address"} {
		res := gw.Send(context.Background(), Message{To: to, Subject: "s", HTML: "b"})
		assert.False(t, res.OK)
		var cfgErr *appErrors.ConfigurationError
		require.True(t, errors.As(res.Err, &cfgErr))
		assert.Equal(t, "RESEND_API_KEY", cfgErr.Setting)
	}
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestNewGateway_SMTPWithoutHost(t *testing.T) {
	gw := NewGateway(config.Config{EmailProvider: "smtp"}, logger.Nop())
	assert.False(t, gw.Configured())
	assert.Equal(t, "SMTP_HOST", gw.MissingSetting())
	assert.Equal(t, "none", gw.ProviderName())
}

func TestNewGateway_ResendConfigured(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	httpmock.RegisterResponder(http.MethodPost, "https://api.resend.com/emails",
		httpmock.NewStringResponder(200, `{"id":"re_123"}`))

	cfg := config.Config{EmailProvider: "resend", ResendAPIKey: "re_test", MailFrom: "Team <team@example.com>", MailTimeout: time.Second}
	gw := NewGateway(cfg, logger.Nop())
	require.True(t, gw.Configured())
	assert.Equal(t, "resend", gw.ProviderName())

	res := gw.Send(context.Background(), Message{To: "ava@example.com", Subject: "Hi", HTML: "<p>Hi</p>"})
	require.True(t, res.OK, res.Reason)
	assert.Equal(t, "re_123", res.MessageID)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}
