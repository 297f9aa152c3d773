// internal/service/outreach_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appErrors "github.com/unclebandit/influencer-outreach/internal/errors"
	"github.com/unclebandit/influencer-outreach/internal/metrics"
	"github.com/unclebandit/influencer-outreach/internal/model"
	"github.com/unclebandit/influencer-outreach/internal/queue"
	"github.com/unclebandit/influencer-outreach/internal/repository"
	"github.com/unclebandit/influencer-outreach/internal/tracker"
)

const DefaultOutreachTopic = "outreach_runs"

// RunJob is the queued form of an outreach run.
type RunJob struct {
	RunID      uuid.UUID   `json:"run_id"`
	TemplateID uuid.UUID   `json:"template_id"`
	ContactIDs []uuid.UUID `json:"contact_ids"`
}

type StartRunRequest struct {
	TemplateID uuid.UUID   `json:"template_id"`
	ContactIDs []uuid.UUID `json:"contact_ids,omitempty"`
}

type Preview struct {
	TemplateID uuid.UUID `json:"template_id"`
	ContactID  uuid.UUID `json:"contact_id"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
}

type DashboardStats struct {
	TotalContacts  int            `json:"total_contacts"`
	TotalTemplates int            `json:"total_templates"`
	ByStatus       map[string]int `json:"by_status"`
}

type RunTracker interface {
	Create(ctx context.Context, templateID uuid.UUID, contacts []model.Contact) (*tracker.Run, error)
	Get(ctx context.Context, id uuid.UUID) (*tracker.Run, error)
	Cancel(ctx context.Context, id uuid.UUID) (*tracker.Run, error)
	Abort(ctx context.Context, runID uuid.UUID, reason string)
}

type Runner interface {
	Run(ctx context.Context, req RunRequest)
}

type OutreachService struct {
	ContactRepo  repository.ContactRepositoryInterface
	TemplateRepo repository.TemplateRepositoryInterface
	Tracker      RunTracker
	Queue        queue.Queue
	Runner       Runner
	Topic        string
	Log          zerolog.Logger
}

func (s *OutreachService) topic() string {
	if s.Topic == "" {
		return DefaultOutreachTopic
	}
	return s.Topic
}

func (s *OutreachService) ListContacts(ctx context.Context) ([]model.Contact, error) {
	return s.ContactRepo.ListAll(ctx)
}

// StartRun checks the selection, records the run and queues it. Contacts
// default to every contact in display order; explicit ids keep their order.
func (s *OutreachService) StartRun(ctx context.Context, req StartRunRequest) (*tracker.Run, error) {
	if req.TemplateID == uuid.Nil {
		return nil, &appErrors.ValidationError{
			Message: "Select a template before sending",
			Fields:  map[string][]string{"template_id": {"required"}},
		}
	}
	tpl, err := s.TemplateRepo.GetByID(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}

	all, err := s.ContactRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	contacts, missing := selectContacts(all, req.ContactIDs)
	if len(missing) > 0 {
		return nil, &appErrors.ValidationError{
			Message: fmt.Sprintf("unknown contact ids: %v", missing),
			Fields:  map[string][]string{"contact_ids": {"exists"}},
		}
	}
	if len(contacts) == 0 {
		return nil, appErrors.NewValidationError("No contacts to send to")
	}

	run, err := s.Tracker.Create(ctx, tpl.ID, contacts)
	if err != nil {
		return nil, fmt.Errorf("register run: %w", err)
	}

	job := RunJob{RunID: run.ID, TemplateID: tpl.ID, ContactIDs: make([]uuid.UUID, len(contacts))}
	for i, c := range contacts {
		job.ContactIDs[i] = c.ID
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, err
	}
	if err := s.Queue.Publish(s.topic(), payload); err != nil {
		err = fmt.Errorf("enqueue run %s: %w", run.ID, err)
		s.Tracker.Abort(ctx, run.ID, err.Error())
		return nil, err
	}

	metrics.IncRunsStarted()
	s.Log.Info().Str("run_id", run.ID.String()).Int("contacts", len(contacts)).Msg("outreach run queued")
	return run, nil
}

// HandleRunJob is the queue subscriber for outreach runs. Undecodable jobs
// are dropped; a contact load failure is returned so the queue can retry
// before anything was sent.
func (s *OutreachService) HandleRunJob(ctx context.Context, payload []byte) error {
	var job RunJob
	if err := json.Unmarshal(payload, &job); err != nil {
		s.Log.Error().Err(err).Msg("invalid outreach job, dropping")
		return nil
	}

	all, err := s.ContactRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	contacts, missing := selectContacts(all, job.ContactIDs)
	for _, id := range missing {
		s.Log.Warn().Str("run_id", job.RunID.String()).Str("contact_id", id.String()).Msg("contact no longer exists, skipping")
	}

	s.Runner.Run(ctx, RunRequest{ID: job.RunID, TemplateID: job.TemplateID, Contacts: contacts})
	return nil
}

func (s *OutreachService) GetRun(ctx context.Context, id uuid.UUID) (*tracker.Run, error) {
	return s.Tracker.Get(ctx, id)
}

func (s *OutreachService) CancelRun(ctx context.Context, id uuid.UUID) (*tracker.Run, error) {
	run, err := s.Tracker.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Log.Info().Str("run_id", id.String()).Msg("outreach run cancel requested")
	return run, nil
}

// PreviewTemplate renders a template for one contact without sending.
func (s *OutreachService) PreviewTemplate(ctx context.Context, templateID, contactID uuid.UUID) (*Preview, error) {
	tpl, err := s.TemplateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	contact, err := s.ContactRepo.GetByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	vars := ContactVariables(*contact)
	return &Preview{
		TemplateID: templateID,
		ContactID:  contactID,
		Subject:    ReplaceVariables(tpl.Subject, vars),
		Body:       ReplaceVariables(tpl.Body, vars),
	}, nil
}

func (s *OutreachService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	counts, err := s.ContactRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	templates, err := s.TemplateRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{TotalTemplates: len(templates), ByStatus: map[string]int{}}
	for status, n := range counts {
		stats.ByStatus[status.Wire()] = n
		stats.TotalContacts += n
	}
	return stats, nil
}

// selectContacts returns all when ids is empty, else the contacts for ids in
// the order given, plus any ids that matched nothing.
func selectContacts(all []model.Contact, ids []uuid.UUID) ([]model.Contact, []uuid.UUID) {
	if len(ids) == 0 {
		return all, nil
	}
	byID := make(map[uuid.UUID]model.Contact, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}

	selected := make([]model.Contact, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	var missing []uuid.UUID
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		c, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		selected = append(selected, c)
	}
	return selected, missing
}
