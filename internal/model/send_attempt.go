// internal/model/send_attempt.go
package model

import "github.com/google/uuid"

// SendAttempt lives for one pipeline cycle and is never stored.
type SendAttempt struct {
	ContactID uuid.UUID
	Recipient string
	Subject   string
	Body      string
	Outcome   ContactStatus
	Reason    string
}
