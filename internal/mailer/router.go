package mailer

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/unclebandit/influencer-outreach/internal/config"
)

// NewGateway picks the provider named by EMAIL_PROVIDER. A provider whose
// credential is missing yields an unconfigured Dispatcher rather than an error.
func NewGateway(cfg config.Config, log zerolog.Logger) *Dispatcher {
	log = log.With().Str("component", "mailer").Logger()

	switch cfg.EmailProvider {
	case "smtp":
		if cfg.SMTPHost == "" {
			log.Warn().Msg("SMTP_HOST is not configured, email sending disabled")
			return Unconfigured("SMTP_HOST", log)
		}
		return NewDispatcher(NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom), cfg.MailTimeout, log)
	default:
		if cfg.ResendAPIKey == "" {
			log.Warn().Msg("RESEND_API_KEY is not configured, email sending disabled")
			return Unconfigured("RESEND_API_KEY", log)
		}
		client := &http.Client{Timeout: cfg.MailTimeout}
		return NewDispatcher(NewResend(cfg.ResendAPIKey, cfg.MailFrom, client), cfg.MailTimeout, log)
	}
}
