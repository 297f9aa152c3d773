// internal/model/template.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type Template struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Subject   string    `db:"subject" json:"subject"`
	Body      string    `db:"body" json:"body"` // HTML, may contain {{placeholders}}
	Category  *string   `db:"category" json:"category,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
