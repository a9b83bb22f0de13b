package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VERIFICATION_TOKEN_TTL", "24h")
	t.Setenv("RESET_TOKEN_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.VerificationTokenTTL)
	assert.Equal(t, time.Hour, cfg.ResetTokenTTL)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("RESET_TOKEN_TTL", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "RESET_TOKEN_TTL")
}

func TestLoadRejectsBadSMTPPort(t *testing.T) {
	t.Setenv("SMTP_PORT", "abc")

	_, err := Load()
	assert.ErrorContains(t, err, "SMTP_PORT")
}
