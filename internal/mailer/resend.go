package mailer

import (
	"context"
	"net/http"

	"github.com/resend/resend-go/v2"
)

// Ensure Resend implements Provider
var _ Provider = (*Resend)(nil)

type Resend struct {
	client *resend.Client
	from   string
}

func NewResend(apiKey, from string, httpClient *http.Client) *Resend {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Resend{client: resend.NewCustomClient(httpClient, apiKey), from: from}
}

func (r *Resend) Name() string { return "resend" }

func (r *Resend) Deliver(ctx context.Context, msg Message) (string, any, error) {
	params := &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	sent, err := r.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", nil, err
	}
	return sent.Id, sent, nil
}
