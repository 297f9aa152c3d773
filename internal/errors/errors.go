// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ConfigurationError means a required credential or endpoint is missing.
// Operations that return it never attempted any I/O.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is not configured", e.Setting)
}

func NewConfigurationError(setting string) error {
	return &ConfigurationError{Setting: setting}
}

// StoreError wraps a failed read or write against the database.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// DispatchError is a failed send reported by the mail gateway.
type DispatchError struct {
	Recipient string
	Reason    string
	Err       error
}

func (e *DispatchError) Error() string {
	if e.Recipient == "" {
		return "dispatch failed: " + e.Reason
	}
	return fmt.Sprintf("dispatch to %s failed: %s", e.Recipient, e.Reason)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// ValidationError carries per-field problems found before any I/O.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(names, ", "))
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

func NewFieldError(field, tag string) error {
	return &ValidationError{
		Message: "validation_failed",
		Fields:  map[string][]string{field: {tag}},
	}
}

// ErrTemplateNotFound is returned when a template id has no row
type ErrTemplateNotFound struct {
	TemplateID uuid.UUID
}

func (e *ErrTemplateNotFound) Error() string {
	return fmt.Sprintf("template with ID %s not found", e.TemplateID)
}

func NewTemplateNotFound(id uuid.UUID) error {
	return &ErrTemplateNotFound{TemplateID: id}
}

// ErrContactNotFound is returned when a contact id has no row
type ErrContactNotFound struct {
	ContactID uuid.UUID
}

func (e *ErrContactNotFound) Error() string {
	return fmt.Sprintf("contact with ID %s not found", e.ContactID)
}

func NewContactNotFound(id uuid.UUID) error {
	return &ErrContactNotFound{ContactID: id}
}

// ErrRunNotFound is returned for unknown outreach run ids
type ErrRunNotFound struct {
	RunID uuid.UUID
}

func (e *ErrRunNotFound) Error() string {
	return fmt.Sprintf("outreach run %s not found", e.RunID)
}

func NewRunNotFound(id uuid.UUID) error {
	return &ErrRunNotFound{RunID: id}
}

// IsNotFound reports whether err is any of the not-found errors above.
func IsNotFound(err error) bool {
	var t *ErrTemplateNotFound
	var c *ErrContactNotFound
	var r *ErrRunNotFound
	return errors.As(err, &t) || errors.As(err, &c) || errors.As(err, &r)
}
