package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/influencer-outreach/internal/errors"
	"github.com/unclebandit/influencer-outreach/internal/logger"
	"github.com/unclebandit/influencer-outreach/internal/mailer"
	"github.com/unclebandit/influencer-outreach/internal/model"
)

func TestReplaceVariables(t *testing.T) {
	vars := map[string]string{"name": "Ava", "platform": "TikTok"}

	cases := []struct {
		name string
		in   string
		vars map[string]string
		want string
	}{
		{"all keys", "Hi {{name}}, you're on {{platform}}!", vars, "Hi Ava, you're on TikTok!"},
		{"missing key kept", "Hi {{name}}, {{missing}}", map[string]string{"name": "Ava"}, "Hi Ava, {{missing}}"},
		{"no placeholders", "plain text", vars, "plain text"},
		{"repeated", "{{name}}{{name}}", vars, "AvaAva"},
		{"no whitespace tolerance", "{{ name }}", vars, "{{ name }}"},
		{"unterminated", "Hi {{name", vars, "Hi {{name"},
		{"triple braces", "{{{name}}}", vars, "{Ava}"},
		{"values not rescanned", "{{name}}", map[string]string{"name": "{{platform}}", "platform": "x"}, "{{platform}}"},
		{"nil map", "Hi {{name}}", nil, "Hi {{name}}"},
		{"empty value", "[{{name}}]", map[string]string{"name": ""}, "[]"},
		{"html body", "<p>Hi {{name}}</p>", vars, "<p>Hi Ava</p>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ReplaceVariables(tc.in, tc.vars))
		})
	}
}

func TestReplaceVariables_NoKnownPlaceholderSurvives(t *testing.T) {
	vars := map[string]string{"name": "Ava", "platform": "TikTok", "followers": "1000"}
	inputs := []string{
		"{{name}}{{platform}}{{followers}}",
		"x{{name}}y{{other}}z{{followers}}",
		"{{{{name}}}}",
	}
	for _, in := range inputs {
		out := ReplaceVariables(in, vars)
		for k := range vars {
			assert.NotContains(t, out, "{{"+k+"}}", "input %q", in)
		}
	}
	assert.Contains(t, ReplaceVariables(inputs[1], vars), "{{other}}")
}

type memTemplates struct {
	byID    map[uuid.UUID]model.Template
	err     error
	created []model.Template
}

func newMemTemplates(ts ...model.Template) *memTemplates {
	m := &memTemplates{byID: map[uuid.UUID]model.Template{}}
	for _, t := range ts {
		m.byID[t.ID] = t
	}
	return m
}

func (m *memTemplates) List(ctx context.Context) ([]model.Template, error) {
	out := []model.Template{}
	for _, t := range m.byID {
		out = append(out, t)
	}
	return out, m.err
}

func (m *memTemplates) GetByID(ctx context.Context, id uuid.UUID) (*model.Template, error) {
	if m.err != nil {
		return nil, m.err
	}
	t, ok := m.byID[id]
	if !ok {
		return nil, appErrors.NewTemplateNotFound(id)
	}
	return &t, nil
}

func (m *memTemplates) Create(ctx context.Context, t *model.Template) error {
	t.ID = uuid.New()
	m.byID[t.ID] = *t
	m.created = append(m.created, *t)
	return nil
}

func (m *memTemplates) Update(ctx context.Context, t *model.Template) error {
	if _, ok := m.byID[t.ID]; !ok {
		return appErrors.NewTemplateNotFound(t.ID)
	}
	m.byID[t.ID] = *t
	return nil
}

func (m *memTemplates) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return appErrors.NewTemplateNotFound(id)
	}
	delete(m.byID, id)
	return nil
}

func TestTemplateService_CreateValidates(t *testing.T) {
	repo := newMemTemplates()
	svc := &TemplateService{TemplateRepo: repo, Log: logger.Nop()}

	_, err := svc.Create(context.Background(), TemplateInput{Title: "Intro"})
	var verr *appErrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "subject")
	assert.Contains(t, verr.Fields, "body")
	assert.Empty(t, repo.created)

	blank := "  "
	tpl, err := svc.Create(context.Background(), TemplateInput{Title: "Intro", Subject: "Hi {{name}}", Body: "<p/>", Category: &blank})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, tpl.ID)
	assert.Nil(t, tpl.Category)
}

func TestTemplateService_UpdateMissing(t *testing.T) {
	svc := &TemplateService{TemplateRepo: newMemTemplates(), Log: logger.Nop()}
	_, err := svc.Update(context.Background(), uuid.New(), TemplateInput{Title: "a", Subject: "b", Body: "c"})
	assert.True(t, appErrors.IsNotFound(err))
}

func TestTemplateService_SendTest(t *testing.T) {
	gw := &fakeGateway{}
	svc := &TemplateService{TemplateRepo: newMemTemplates(), Mailer: gw, Log: logger.Nop()}

	res, err := svc.SendTest(context.Background(), TestSendRequest{
		Email:   "me@example.com",
		Subject: "Hi {{name}} from {{platform}}",
		Body:    "<p>{{followers}} followers</p>",
	})
	require.NoError(t, err)
	assert.True(t, res.OK)
	require.Len(t, gw.sent, 1)
	assert.Equal(t, "Hi Test User from Test Platform", gw.sent[0].Subject)
	assert.Equal(t, "<p>1000 followers</p>", gw.sent[0].HTML)
}

func TestTemplateService_SendTestFromTemplate(t *testing.T) {
	tpl := model.Template{ID: uuid.New(), Subject: "Hey {{name}}", Body: "<b>{{platform}}</b>"}
	gw := &fakeGateway{}
	svc := &TemplateService{TemplateRepo: newMemTemplates(tpl), Mailer: gw, Log: logger.Nop()}

	_, err := svc.SendTest(context.Background(), TestSendRequest{Email: "me@example.com", TemplateID: &tpl.ID})
	require.NoError(t, err)
	require.Len(t, gw.sent, 1)
	assert.Equal(t, "Hey Test User", gw.sent[0].Subject)
}

func TestTemplateService_SendTestValidation(t *testing.T) {
	gw := &fakeGateway{}
	svc := &TemplateService{TemplateRepo: newMemTemplates(), Mailer: gw, Log: logger.Nop()}

	cases := []TestSendRequest{
		{Subject: "s", Body: "b"},
		{Email: "not-an-email", Subject: "s", Body: "b"},
		{Email: "me@example.com", Body: "b"},
		{Email: "me@example.com", Subject: "s"},
	}
	for _, req := range cases {
		_, err := svc.SendTest(context.Background(), req)
		var verr *appErrors.ValidationError
		assert.True(t, errors.As(err, &verr), "request %+v", req)
	}
	assert.Empty(t, gw.sent, "validation happens before any dispatch")
}

func TestTemplateService_SendTestDispatchFailure(t *testing.T) {
	gw := &fakeGateway{failFor: map[string]bool{"me@example.com": true}}
	svc := &TemplateService{TemplateRepo: newMemTemplates(), Mailer: gw, Log: logger.Nop()}

	res, err := svc.SendTest(context.Background(), TestSendRequest{Email: "me@example.com", Subject: "s", Body: "b"})
	require.Error(t, err)
	assert.False(t, res.OK)
	var derr *appErrors.DispatchError
	assert.True(t, errors.As(err, &derr))
}

var _ mailer.Gateway = (*fakeGateway)(nil)
