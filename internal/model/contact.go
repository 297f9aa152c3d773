// internal/model/contact.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type Contact struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	Name      string        `db:"name" json:"name"`
	Email     string        `db:"email" json:"email"`
	Platform  string        `db:"platform" json:"platform"`
	Status    ContactStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}
