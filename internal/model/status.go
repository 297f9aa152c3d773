// internal/model/status.go
package model

import "strings"

// ContactStatus is the display-case status of a contact.
type ContactStatus string

const (
	StatusPending ContactStatus = "Pending"
	// StatusSending is never persisted; it only exists while a run holds the contact.
	StatusSending ContactStatus = "Sending"
	StatusSent    ContactStatus = "Sent"
	StatusFailed  ContactStatus = "Failed"
)

// StatusFromWire maps a stored status value to its display status.
// Anything that is not pending or sent is shown as Failed, including values
// such as "replied" that older rows may carry. Input is matched
// case-insensitively so display values map onto themselves.
func StatusFromWire(v string) ContactStatus {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "pending":
		return StatusPending
	case "sent":
		return StatusSent
	default:
		return StatusFailed
	}
}

// Wire returns the lowercase value written to the contacts table.
func (s ContactStatus) Wire() string {
	return strings.ToLower(string(s))
}

// Terminal reports whether s is an outcome of a finished send cycle.
func (s ContactStatus) Terminal() bool {
	return s == StatusSent || s == StatusFailed
}
