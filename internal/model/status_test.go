package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFromWire(t *testing.T) {
	cases := map[string]ContactStatus{
		"pending":   StatusPending,
		"sent":      StatusSent,
		"failed":    StatusFailed,
		"Pending":   StatusPending,
		" SENT ":    StatusSent,
		"replied":   StatusFailed,
		"":          StatusFailed,
		"Sending":   StatusFailed,
		"something": StatusFailed,
	}
	for in, want := range cases {
		assert.Equal(t, want, StatusFromWire(in), "input %q", in)
	}
}

func TestStatusFromWireIsIdempotent(t *testing.T) {
	for _, in := range []string{"pending", "sent", "failed", "replied", "", "PENDING"} {
		once := StatusFromWire(in)
		twice := StatusFromWire(string(once))
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestWire(t *testing.T) {
	assert.Equal(t, "sent", StatusSent.Wire())
	assert.Equal(t, "failed", StatusFailed.Wire())
	assert.Equal(t, "pending", StatusPending.Wire())
	assert.True(t, StatusSent.Terminal())
	assert.False(t, StatusSending.Terminal())
}
