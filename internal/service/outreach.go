package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appErrors "github.com/unclebandit/influencer-outreach/internal/errors"
	"github.com/unclebandit/influencer-outreach/internal/mailer"
	"github.com/unclebandit/influencer-outreach/internal/metrics"
	"github.com/unclebandit/influencer-outreach/internal/model"
)

// DefaultSendDelay is the pause between two contacts of a run.
const DefaultSendDelay = time.Second

// TemplateLookup resolves the template selected for a run.
type TemplateLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Template, error)
}

// StatusWriter persists a contact's terminal status.
type StatusWriter interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ContactStatus) error
}

// Progress receives the observable state changes of a run.
type Progress interface {
	Started(ctx context.Context, runID uuid.UUID)
	Sending(ctx context.Context, runID, contactID uuid.UUID)
	Finished(ctx context.Context, runID, contactID uuid.UUID, status model.ContactStatus)
	Completed(ctx context.Context, runID uuid.UUID, cancelled bool)
	CancelRequested(ctx context.Context, runID uuid.UUID) bool
}

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunRequest is one ordered batch of contacts sent with one template.
type RunRequest struct {
	ID         uuid.UUID
	TemplateID uuid.UUID
	Contacts   []model.Contact
}

// OutreachRunner sends a run's contacts one at a time:
// render, dispatch, persist status, publish status, pause.
type OutreachRunner struct {
	Templates TemplateLookup
	Contacts  StatusWriter
	Mailer    mailer.Gateway
	Progress  Progress
	Delay     time.Duration
	Sleep     SleepFunc
	Log       zerolog.Logger

	// one run at a time; dispatches never overlap
	mu sync.Mutex
}

func NewOutreachRunner(templates TemplateLookup, contacts StatusWriter, gw mailer.Gateway, progress Progress, delay time.Duration, log zerolog.Logger) *OutreachRunner {
	return &OutreachRunner{
		Templates: templates,
		Contacts:  contacts,
		Mailer:    gw,
		Progress:  progress,
		Delay:     delay,
		Sleep:     sleepContext,
		Log:       log.With().Str("component", "outreach").Logger(),
	}
}

// Run processes req.Contacts strictly in order. Cancellation (ctx or a
// cancel request on the run) is honoured only between contacts, so a contact
// that has started always reaches Sent or Failed.
func (r *OutreachRunner) Run(ctx context.Context, req RunRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()

	log := r.Log.With().Str("run_id", req.ID.String()).Str("template_id", req.TemplateID.String()).Logger()
	progress := r.progress()
	sleep := r.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	// in-flight work must finish even if the caller gives up
	detached := context.WithoutCancel(ctx)

	progress.Started(detached, req.ID)
	log.Info().Int("contacts", len(req.Contacts)).Msg("outreach run started")

	cancelled := false
	for i, contact := range req.Contacts {
		if ctx.Err() != nil || progress.CancelRequested(detached, req.ID) {
			cancelled = true
			log.Info().Int("remaining", len(req.Contacts)-i).Msg("outreach run cancelled")
			break
		}

		tpl, err := r.Templates.GetByID(detached, req.TemplateID)
		if appErrors.IsNotFound(err) || (err == nil && tpl == nil) {
			log.Warn().Str("contact_id", contact.ID.String()).Msg("template not found, skipping contact")
			continue
		}

		progress.Sending(detached, req.ID, contact.ID)
		var attempt model.SendAttempt
		if err != nil {
			// the template may exist; this contact fails and the run goes on
			log.Error().Err(err).Str("contact_id", contact.ID.String()).Msg("failed to load template")
			attempt = model.SendAttempt{
				ContactID: contact.ID,
				Recipient: contact.Email,
				Outcome:   model.StatusFailed,
				Reason:    err.Error(),
			}
		} else {
			attempt = r.attempt(detached, contact, tpl)
		}

		if err := r.persist(detached, contact.ID, attempt.Outcome); err != nil {
			metrics.IncStatusWriteFailure()
			log.Error().Err(err).Str("contact_id", contact.ID.String()).
				Str("status", attempt.Outcome.Wire()).
				Msg("failed to persist contact status")
		}
		progress.Finished(detached, req.ID, contact.ID, attempt.Outcome)
		metrics.IncContactProcessed(attempt.Outcome.Wire())

		if attempt.Outcome == model.StatusFailed {
			log.Warn().Str("contact_id", contact.ID.String()).Str("email", contact.Email).Str("reason", attempt.Reason).Msg("send failed")
		} else {
			log.Info().Str("contact_id", contact.ID.String()).Str("email", contact.Email).Msg("sent")
		}

		if i < len(req.Contacts)-1 && r.Delay > 0 {
			// an interrupted pause is picked up by the check at the top of the loop
			_ = sleep(ctx, r.Delay)
		}
	}

	progress.Completed(detached, req.ID, cancelled)
	log.Info().Bool("cancelled", cancelled).Msg("outreach run finished")
}

// attempt renders and dispatches one contact. Any panic in here counts as a
// failed send.
func (r *OutreachRunner) attempt(ctx context.Context, c model.Contact, tpl *model.Template) (a model.SendAttempt) {
	a = model.SendAttempt{ContactID: c.ID, Recipient: c.Email, Outcome: model.StatusFailed}
	defer func() {
		if rec := recover(); rec != nil {
			a.Outcome = model.StatusFailed
			a.Reason = fmt.Sprintf("panic: %v", rec)
		}
	}()

	vars := ContactVariables(c)
	a.Subject = ReplaceVariables(tpl.Subject, vars)
	a.Body = ReplaceVariables(tpl.Body, vars)

	res := r.Mailer.Send(ctx, mailer.Message{To: c.Email, Subject: a.Subject, HTML: a.Body})
	if res.OK {
		a.Outcome = model.StatusSent
		return a
	}
	a.Reason = res.Reason
	return a
}

// persist writes the status once; the email may already be out, so a
// failure here is reported and never retried.
func (r *OutreachRunner) persist(ctx context.Context, id uuid.UUID, status model.ContactStatus) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("status write panic: %v", rec)
		}
	}()
	return r.Contacts.UpdateStatus(ctx, id, status)
}

func (r *OutreachRunner) progress() Progress {
	if r.Progress == nil {
		return noProgress{}
	}
	return r.Progress
}

type noProgress struct{}

func (noProgress) Started(context.Context, uuid.UUID) {}
func (noProgress) Sending(context.Context, uuid.UUID, uuid.UUID) {}
func (noProgress) Finished(context.Context, uuid.UUID, uuid.UUID, model.ContactStatus) {}
func (noProgress) Completed(context.Context, uuid.UUID, bool) {}
func (noProgress) CancelRequested(context.Context, uuid.UUID) bool { return false }
