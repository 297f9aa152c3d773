// Package mailer is the boundary to the transactional email provider.
//
// Gateway.Send never returns an error value and never panics: every outcome,
// including a missing credential, comes back as a Result so callers can update
// contact status without guarding against faults.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	appErrors "github.com/unclebandit/influencer-outreach/internal/errors"
	"github.com/unclebandit/influencer-outreach/internal/metrics"
)

// Message is one rendered email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Result is either a success carrying the provider response, or a failure
// carrying the reason. Err is a *ConfigurationError or a *DispatchError.
type Result struct {
	OK        bool
	Provider  string
	MessageID string
	Response  any
	Reason    string
	Err       error
}

type Gateway interface {
	Send(ctx context.Context, msg Message) Result
}

// Provider performs the actual delivery. Implementations may return errors
// or even panic; Dispatcher contains both.
type Provider interface {
	Name() string
	Deliver(ctx context.Context, msg Message) (messageID string, response any, err error)
}

// Ensure Dispatcher implements Gateway
var _ Gateway = (*Dispatcher)(nil)

type Dispatcher struct {
	provider Provider
	missing  string
	timeout  time.Duration
	log      zerolog.Logger
}

func NewDispatcher(p Provider, timeout time.Duration, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{provider: p, timeout: timeout, log: log}
}

// Unconfigured returns a Dispatcher that fails every send with a
// ConfigurationError naming setting.
func Unconfigured(setting string, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{missing: setting, log: log}
}

func (d *Dispatcher) Configured() bool { return d.provider != nil }

func (d *Dispatcher) ProviderName() string {
	if d.provider == nil {
		return "none"
	}
	return d.provider.Name()
}

// MissingSetting names the absent credential of an unconfigured Dispatcher.
func (d *Dispatcher) MissingSetting() string { return d.missing }

func (d *Dispatcher) Send(ctx context.Context, msg Message) (res Result) {
	if d.provider == nil {
		err := appErrors.NewConfigurationError(d.missing)
		metrics.ObserveDispatch("none", false, 0)
		return Result{Provider: "none", Reason: err.Error(), Err: err}
	}

	name := d.provider.Name()
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Str("to", msg.To).Msg("mail provider panicked")
			res = failure(name, msg.To, fmt.Errorf("provider panic: %v", r))
		}
		metrics.ObserveDispatch(name, res.OK, time.Since(start))
	}()

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	id, resp, err := d.provider.Deliver(ctx, msg)
	if err != nil {
		d.log.Warn().Err(err).Str("provider", name).Str("to", msg.To).Msg("email dispatch failed")
		return failure(name, msg.To, err)
	}

	d.log.Debug().Str("provider", name).Str("to", msg.To).Str("message_id", id).Msg("email dispatched")
	return Result{OK: true, Provider: name, MessageID: id, Response: resp}
}

func failure(provider, to string, err error) Result {
	derr := &appErrors.DispatchError{Recipient: to, Reason: err.Error(), Err: err}
	return Result{Provider: provider, Reason: err.Error(), Err: derr}
}
