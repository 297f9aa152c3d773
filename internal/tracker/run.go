// Package tracker keeps the observable state of outreach runs: one row per
// contact with its persisted status and an ephemeral in-progress flag.
package tracker

import (
	"time"

	"github.com/google/uuid"

	"github.com/unclebandit/influencer-outreach/internal/model"
)

type RunState string

const (
	RunQueued    RunState = "queued"
	RunRunning   RunState = "running"
	RunCompleted RunState = "completed"
	RunCancelled RunState = "cancelled"
	// RunFailed runs never started; Error says why.
	RunFailed RunState = "failed"
)

type Row struct {
	ContactID  uuid.UUID           `json:"contact_id"`
	Name       string              `json:"name"`
	Email      string              `json:"email"`
	Platform   string              `json:"platform"`
	Status     model.ContactStatus `json:"status"`
	InProgress bool                `json:"in_progress"`
}

// DisplayStatus is what a contact list shows for the row.
func (r Row) DisplayStatus() model.ContactStatus {
	if r.InProgress {
		return model.StatusSending
	}
	return r.Status
}

type Run struct {
	ID              uuid.UUID  `json:"id"`
	TemplateID      uuid.UUID  `json:"template_id"`
	State           RunState   `json:"state"`
	CancelRequested bool       `json:"cancel_requested"`
	Rows            []Row      `json:"rows"`
	CreatedAt       time.Time  `json:"created_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
	Error           string     `json:"error,omitempty"`
}

func (r *Run) Finished() bool {
	return r.State == RunCompleted || r.State == RunCancelled || r.State == RunFailed
}

// Counts tallies rows by display status.
func (r *Run) Counts() map[model.ContactStatus]int {
	counts := map[model.ContactStatus]int{}
	for _, row := range r.Rows {
		counts[row.DisplayStatus()]++
	}
	return counts
}

func (r *Run) clone() *Run {
	cp := *r
	cp.Rows = append([]Row(nil), r.Rows...)
	return &cp
}

func (r *Run) row(contactID uuid.UUID) *Row {
	for i := range r.Rows {
		if r.Rows[i].ContactID == contactID {
			return &r.Rows[i]
		}
	}
	return nil
}
