package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	outreachdb "github.com/unclebandit/influencer-outreach/internal/db"
	appErrors "github.com/unclebandit/influencer-outreach/internal/errors"
	"github.com/unclebandit/influencer-outreach/internal/logger"
	"github.com/unclebandit/influencer-outreach/internal/model"
)

func TestRepositoriesWithoutDatabase(t *testing.T) {
	ctx := context.Background()
	contacts := &ContactRepository{}
	templates := &TemplateRepository{}

	var cfgErr *appErrors.ConfigurationError

	_, err := contacts.ListAll(ctx)
	assert.True(t, errors.As(err, &cfgErr))
	err = contacts.UpdateStatus(ctx, uuid.New(), model.StatusSent)
	assert.True(t, errors.As(err, &cfgErr))
	_, err = contacts.CountByStatus(ctx)
	assert.True(t, errors.As(err, &cfgErr))

	_, err = templates.List(ctx)
	assert.True(t, errors.As(err, &cfgErr))
	err = templates.Create(ctx, &model.Template{Title: "t"})
	assert.True(t, errors.As(err, &cfgErr))
	err = templates.Delete(ctx, uuid.New())
	assert.True(t, errors.As(err, &cfgErr))
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("skipping integration test: DATABASE_URL not set")
	}
	conn, err := outreachdb.Open(context.Background(), dsn, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, outreachdb.Migrate(conn, "up"))
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestTemplateRepository_CRUD(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	repo := &TemplateRepository{DB: conn}

	category := "outreach"
	tpl := &model.Template{Title: "Intro", Subject: "Hi {{name}}", Body: "<p>{{platform}}</p>", Category: &category}
	require.NoError(t, repo.Create(ctx, tpl))
	require.NotEqual(t, uuid.Nil, tpl.ID)
	t.Cleanup(func() { _ = repo.Delete(ctx, tpl.ID) })

	got, err := repo.GetByID(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Intro", got.Title)

	tpl.Subject = "Hello {{name}}"
	require.NoError(t, repo.Update(ctx, tpl))
	got, err = repo.GetByID(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello {{name}}", got.Subject)

	require.NoError(t, repo.Delete(ctx, tpl.ID))
	_, err = repo.GetByID(ctx, tpl.ID)
	assert.True(t, appErrors.IsNotFound(err))
}

func TestContactRepository_UpdateStatus(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	repo := &ContactRepository{DB: conn}

	var id uuid.UUID
	email := uuid.NewString() + "@example.com"
	err := conn.QueryRowContext(ctx,
		`INSERT INTO contacts (name, email, platform) VALUES ($1, $2, $3) RETURNING id`,
		"Ava", email, "TikTok").Scan(&id)
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = conn.ExecContext(ctx, `DELETE FROM contacts WHERE id=$1`, id) })

	c, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, c.Status)

	require.NoError(t, repo.UpdateStatus(ctx, id, model.StatusSent))
	c, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSent, c.Status)

	err = repo.UpdateStatus(ctx, uuid.New(), model.StatusFailed)
	assert.True(t, appErrors.IsNotFound(err))
}
