package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/influencer-outreach/internal/errors"
	"github.com/unclebandit/influencer-outreach/internal/model"
)

// ContactRepositoryInterface defines methods used by services
type ContactRepositoryInterface interface {
	ListAll(ctx context.Context) ([]model.Contact, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Contact, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ContactStatus) error
	CountByStatus(ctx context.Context) (map[model.ContactStatus]int, error)
}

// ContactRepository is the concrete implementation. A nil DB means the
// database is not configured.
type ContactRepository struct {
	DB *sql.DB
}

func (r *ContactRepository) conn() (*sql.DB, error) {
	if r == nil || r.DB == nil {
		return nil, appErrors.NewConfigurationError("DATABASE_URL")
	}
	return r.DB, nil
}

// ListAll fetches all contacts, newest first
func (r *ContactRepository) ListAll(ctx context.Context) ([]model.Contact, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}

	query := `
        SELECT id, name, email, platform, status, created_at
        FROM contacts
        ORDER BY created_at DESC
    `
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, appErrors.NewStoreError("list contacts", err)
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, appErrors.NewStoreError("list contacts", err)
		}
		contacts = append(contacts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.NewStoreError("list contacts", err)
	}
	return contacts, nil
}

// GetByID fetches a contact by ID
func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}

	query := `
        SELECT id, name, email, platform, status, created_at
        FROM contacts
        WHERE id = $1
    `
	c, err := scanContact(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewContactNotFound(id)
		}
		return nil, appErrors.NewStoreError("get contact", err)
	}
	return c, nil
}

// UpdateStatus writes the lowercase wire value of a terminal status.
func (r *ContactRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ContactStatus) error {
	db, err := r.conn()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, `UPDATE contacts SET status=$1 WHERE id=$2`, status.Wire(), id)
	if err != nil {
		return appErrors.NewStoreError("update contact status", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return appErrors.NewStoreError("update contact status", err)
	}
	if n == 0 {
		return appErrors.NewContactNotFound(id)
	}
	return nil
}

// CountByStatus groups contacts by their display status.
func (r *ContactRepository) CountByStatus(ctx context.Context) (map[model.ContactStatus]int, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT status, COUNT(*) FROM contacts GROUP BY status`)
	if err != nil {
		return nil, appErrors.NewStoreError("count contacts", err)
	}
	defer rows.Close()

	stats := map[model.ContactStatus]int{
		model.StatusPending: 0,
		model.StatusSent:    0,
		model.StatusFailed:  0,
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, appErrors.NewStoreError("count contacts", err)
		}
		stats[model.StatusFromWire(status)] += count
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.NewStoreError("count contacts", err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*model.Contact, error) {
	var c model.Contact
	var status string
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Platform, &status, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Status = model.StatusFromWire(status)
	return &c, nil
}

var _ ContactRepositoryInterface = (*ContactRepository)(nil)
