package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appErrors "github.com/unclebandit/influencer-outreach/internal/errors"
	"github.com/unclebandit/influencer-outreach/internal/model"
)

// Tracker applies pipeline events to runs held in a Store. Event methods
// never fail the caller; store problems are logged.
type Tracker struct {
	mu    sync.Mutex
	store Store
	log   zerolog.Logger
	now   func() time.Time
}

func New(store Store, log zerolog.Logger) *Tracker {
	return &Tracker{store: store, log: log.With().Str("component", "tracker").Logger(), now: time.Now}
}

// Create registers a queued run with one row per contact, carrying its current status.
func (t *Tracker) Create(ctx context.Context, templateID uuid.UUID, contacts []model.Contact) (*Run, error) {
	run := &Run{
		ID:         uuid.New(),
		TemplateID: templateID,
		State:      RunQueued,
		CreatedAt:  t.now(),
		Rows:       make([]Row, 0, len(contacts)),
	}
	for _, c := range contacts {
		run.Rows = append(run.Rows, Row{
			ContactID: c.ID,
			Name:      c.Name,
			Email:     c.Email,
			Platform:  c.Platform,
			Status:    c.Status,
		})
	}
	if err := t.store.Save(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (t *Tracker) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	return t.store.Get(ctx, id)
}

// Cancel flags the run; the pipeline stops before its next contact.
// Cancelling a finished run is a no-op.
func (t *Tracker) Cancel(ctx context.Context, id uuid.UUID) (*Run, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	run, err := t.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if run.Finished() {
		return run, nil
	}
	run.CancelRequested = true
	if err := t.store.Save(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (t *Tracker) CancelRequested(ctx context.Context, runID uuid.UUID) bool {
	run, err := t.store.Get(ctx, runID)
	if err != nil {
		return false
	}
	return run.CancelRequested
}

func (t *Tracker) Started(ctx context.Context, runID uuid.UUID) {
	t.update(ctx, runID, func(run *Run) {
		now := t.now()
		run.State = RunRunning
		run.StartedAt = &now
	})
}

func (t *Tracker) Sending(ctx context.Context, runID, contactID uuid.UUID) {
	t.update(ctx, runID, func(run *Run) {
		if row := run.row(contactID); row != nil {
			row.InProgress = true
		}
	})
}

func (t *Tracker) Finished(ctx context.Context, runID, contactID uuid.UUID, status model.ContactStatus) {
	t.update(ctx, runID, func(run *Run) {
		if row := run.row(contactID); row != nil {
			row.InProgress = false
			row.Status = status
		}
	})
}

func (t *Tracker) Completed(ctx context.Context, runID uuid.UUID, cancelled bool) {
	t.update(ctx, runID, func(run *Run) {
		now := t.now()
		run.FinishedAt = &now
		run.State = RunCompleted
		if cancelled {
			run.State = RunCancelled
		}
	})
}

// Abort closes a run that could not be handed to a worker.
func (t *Tracker) Abort(ctx context.Context, runID uuid.UUID, reason string) {
	t.update(ctx, runID, func(run *Run) {
		now := t.now()
		run.FinishedAt = &now
		run.State = RunFailed
		run.Error = reason
	})
}

// update is a read-modify-write. Within one process mu orders it against
// Cancel; across processes sharing Redis a cancel can be lost if it lands
// between the read and the write.
func (t *Tracker) update(ctx context.Context, runID uuid.UUID, fn func(*Run)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	run, err := t.store.Get(ctx, runID)
	if err != nil {
		if appErrors.IsNotFound(err) {
			t.log.Debug().Str("run_id", runID.String()).Msg("run not tracked here, skipping progress update")
			return
		}
		t.log.Error().Err(err).Str("run_id", runID.String()).Msg("failed to load run")
		return
	}
	fn(run)
	if err := t.store.Save(ctx, run); err != nil {
		t.log.Error().Err(err).Str("run_id", runID.String()).Msg("failed to save run")
	}
}
