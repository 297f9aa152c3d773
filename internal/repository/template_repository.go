package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/influencer-outreach/internal/errors"
	"github.com/unclebandit/influencer-outreach/internal/model"
)

type TemplateRepositoryInterface interface {
	List(ctx context.Context) ([]model.Template, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Template, error)
	Create(ctx context.Context, t *model.Template) error
	Update(ctx context.Context, t *model.Template) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TemplateRepository struct {
	DB *sql.DB
}

func (r *TemplateRepository) conn() (*sql.DB, error) {
	if r == nil || r.DB == nil {
		return nil, appErrors.NewConfigurationError("DATABASE_URL")
	}
	return r.DB, nil
}

// ====================== Template CRUD ======================

func (r *TemplateRepository) List(ctx context.Context) ([]model.Template, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}

	query := `
        SELECT id, title, subject, body, category, created_at
        FROM templates
        ORDER BY created_at DESC
    `
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, appErrors.NewStoreError("list templates", err)
	}
	defer rows.Close()

	templates := []model.Template{}
	for rows.Next() {
		var t model.Template
		if err := rows.Scan(&t.ID, &t.Title, &t.Subject, &t.Body, &t.Category, &t.CreatedAt); err != nil {
			return nil, appErrors.NewStoreError("list templates", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.NewStoreError("list templates", err)
	}
	return templates, nil
}

func (r *TemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Template, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}

	query := `
        SELECT id, title, subject, body, category, created_at
        FROM templates WHERE id=$1
    `
	var t model.Template
	err = db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Title, &t.Subject, &t.Body, &t.Category, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewTemplateNotFound(id)
		}
		return nil, appErrors.NewStoreError("get template", err)
	}
	return &t, nil
}

// Create inserts t; id and created_at are assigned by the database.
func (r *TemplateRepository) Create(ctx context.Context, t *model.Template) error {
	db, err := r.conn()
	if err != nil {
		return err
	}

	query := `
        INSERT INTO templates (title, subject, body, category)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `
	if err := db.QueryRowContext(ctx, query, t.Title, t.Subject, t.Body, t.Category).Scan(&t.ID, &t.CreatedAt); err != nil {
		return appErrors.NewStoreError("create template", err)
	}
	return nil
}

func (r *TemplateRepository) Update(ctx context.Context, t *model.Template) error {
	db, err := r.conn()
	if err != nil {
		return err
	}

	query := `
        UPDATE templates
        SET title=$1, subject=$2, body=$3, category=$4
        WHERE id=$5
        RETURNING created_at
    `
	err = db.QueryRowContext(ctx, query, t.Title, t.Subject, t.Body, t.Category, t.ID).Scan(&t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.NewTemplateNotFound(t.ID)
		}
		return appErrors.NewStoreError("update template", err)
	}
	return nil
}

func (r *TemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db, err := r.conn()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, `DELETE FROM templates WHERE id=$1`, id)
	if err != nil {
		return appErrors.NewStoreError("delete template", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return appErrors.NewStoreError("delete template", err)
	}
	if n == 0 {
		return appErrors.NewTemplateNotFound(id)
	}
	return nil
}

var _ TemplateRepositoryInterface = (*TemplateRepository)(nil)
