// internal/service/template_service.go
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appErrors "github.com/unclebandit/influencer-outreach/internal/errors"
	"github.com/unclebandit/influencer-outreach/internal/mailer"
	"github.com/unclebandit/influencer-outreach/internal/model"
	"github.com/unclebandit/influencer-outreach/internal/repository"
	"github.com/unclebandit/influencer-outreach/internal/validation"
)

// ReplaceVariables substitutes every {{key}} whose key is in vars. Keys are
// matched exactly, unknown placeholders are kept verbatim, and substituted
// values are never re-scanned.
func ReplaceVariables(s string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(s, "{{") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for {
		start := strings.Index(s, "{{")
		if start < 0 {
			b.WriteString(s)
			return b.String()
		}
		end := strings.Index(s[start+2:], "}}")
		if end < 0 {
			b.WriteString(s)
			return b.String()
		}
		key := s[start+2 : start+2+end]
		if v, ok := vars[key]; ok {
			b.WriteString(s[:start])
			b.WriteString(v)
			s = s[start+2+end+2:]
			continue
		}
		// not ours: keep one brace and rescan so "{{{name}}}" still matches
		b.WriteString(s[:start+1])
		s = s[start+1:]
	}
}

// ContactVariables are the values a live send renders with.
func ContactVariables(c model.Contact) map[string]string {
	return map[string]string{
		"name":     c.Name,
		"platform": c.Platform,
	}
}

// TestVariables are the fixed values used for test sends.
func TestVariables() map[string]string {
	return map[string]string{
		"name":      "Test User",
		"platform":  "Test Platform",
		"followers": "1000",
	}
}

type TemplateInput struct {
	Title    string  `json:"title" validate:"required"`
	Subject  string  `json:"subject" validate:"required"`
	Body     string  `json:"body" validate:"required"`
	Category *string `json:"category"`
}

type TestSendRequest struct {
	Email      string     `json:"email"`
	Subject    string     `json:"subject"`
	Body       string     `json:"body"`
	TemplateID *uuid.UUID `json:"template_id,omitempty"`
}

type testRecipient struct {
	Email string `json:"email" validate:"email"`
}

type TemplateService struct {
	TemplateRepo repository.TemplateRepositoryInterface
	Mailer       mailer.Gateway
	Log          zerolog.Logger
}

func (s *TemplateService) List(ctx context.Context) ([]model.Template, error) {
	return s.TemplateRepo.List(ctx)
}

func (s *TemplateService) Get(ctx context.Context, id uuid.UUID) (*model.Template, error) {
	return s.TemplateRepo.GetByID(ctx, id)
}

func (s *TemplateService) Create(ctx context.Context, in TemplateInput) (*model.Template, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	t := &model.Template{
		Title:    in.Title,
		Subject:  in.Subject,
		Body:     in.Body,
		Category: normaliseCategory(in.Category),
	}
	if err := s.TemplateRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.Log.Info().Str("template_id", t.ID.String()).Str("title", t.Title).Msg("template created")
	return t, nil
}

func (s *TemplateService) Update(ctx context.Context, id uuid.UUID, in TemplateInput) (*model.Template, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	t := &model.Template{
		ID:       id,
		Title:    in.Title,
		Subject:  in.Subject,
		Body:     in.Body,
		Category: normaliseCategory(in.Category),
	}
	if err := s.TemplateRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.Log.Info().Str("template_id", id.String()).Msg("template updated")
	return t, nil
}

func (s *TemplateService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.TemplateRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.Log.Info().Str("template_id", id.String()).Msg("template deleted")
	return nil
}

// SendTest renders the subject and body with TestVariables and sends them to
// one address. Input problems are reported before any I/O; a gateway failure
// comes back as a *DispatchError or *ConfigurationError.
func (s *TemplateService) SendTest(ctx context.Context, req TestSendRequest) (mailer.Result, error) {
	if strings.TrimSpace(req.Email) == "" {
		return mailer.Result{}, &appErrors.ValidationError{
			Message: "Please enter a test email address",
			Fields:  map[string][]string{"email": {"required"}},
		}
	}
	if err := validation.Struct(testRecipient{Email: req.Email}); err != nil {
		return mailer.Result{}, err
	}

	subject, body := req.Subject, req.Body
	if req.TemplateID != nil && (subject == "" || body == "") {
		t, err := s.TemplateRepo.GetByID(ctx, *req.TemplateID)
		if err != nil {
			return mailer.Result{}, err
		}
		if subject == "" {
			subject = t.Subject
		}
		if body == "" {
			body = t.Body
		}
	}
	if subject == "" || body == "" {
		return mailer.Result{}, &appErrors.ValidationError{Message: "Template must have a subject and body"}
	}

	vars := TestVariables()
	res := s.Mailer.Send(ctx, mailer.Message{
		To:      req.Email,
		Subject: ReplaceVariables(subject, vars),
		HTML:    ReplaceVariables(body, vars),
	})
	if !res.OK {
		return res, res.Err
	}
	return res, nil
}

func normaliseCategory(c *string) *string {
	if c == nil {
		return nil
	}
	v := strings.TrimSpace(*c)
	if v == "" {
		return nil
	}
	return &v
}
