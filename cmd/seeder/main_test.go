package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/influencer-outreach/internal/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_NAME", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env-file", "does-not-exist.env"))
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrate_RejectsUnknownSubcommand(t *testing.T) {
	_, err := run(t, "migrate", "sideways")
	require.Error(t, err)

	_, err = run(t, "migrate")
	require.Error(t, err)
}

func TestMigrate_NeedsDatabase(t *testing.T) {
	_, err := run(t, "migrate", "up")

	var cerr *appErrors.ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "DATABASE_URL", cerr.Setting)
}

func TestSeed_NeedsDatabase(t *testing.T) {
	_, err := run(t, "seed")

	var cerr *appErrors.ConfigurationError
	assert.True(t, errors.As(err, &cerr))
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	report(&buf, []string{"seed/contacts.sql", "seed/templates.sql"})
	assert.Equal(t, "Seeded: seed/contacts.sql\nSeeded: seed/templates.sql\n", buf.String())
}
