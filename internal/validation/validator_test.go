package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/influencer-outreach/internal/errors"
)

type sample struct {
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(sample{Email: "ava@example.com", Subject: "hi"}))

	err := Struct(sample{Email: "nope"})
	var verr *appErrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"email"}, verr.Fields["email"])
	assert.Equal(t, []string{"required"}, verr.Fields["subject"])
}
