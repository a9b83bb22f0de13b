package jwtauth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairRoundTrip(t *testing.T) {
	s := NewSigner("secret", time.Minute, time.Hour)

	access, refresh, err := s.Pair("user-1", "client")
	require.NoError(t, err)

	claims, err := s.Parse(access, TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "client", claims.Role)

	_, err = s.Parse(refresh, TypeAccess)
	assert.ErrorIs(t, err, ErrWrongType)

	claims, err = s.Parse(refresh, TypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestParseRejectsOtherSecretAndExpired(t *testing.T) {
	s := NewSigner("secret", time.Minute, time.Hour)
	other := NewSigner("other", time.Minute, time.Hour)

	access, _, err := other.Pair("user-1", "client")
	require.NoError(t, err)
	_, err = s.Parse(access, TypeAccess)
	assert.Error(t, err)

	expired := NewSigner("secret", -time.Minute, time.Hour)
	access, _, err = expired.Pair("user-1", "client")
	require.NoError(t, err)
	_, err = s.Parse(access, TypeAccess)
	assert.Error(t, err)
}
