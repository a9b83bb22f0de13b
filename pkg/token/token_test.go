package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueProducesTokenAndExpiry(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	issuer := NewIssuer().WithClock(func() time.Time { return fixed })

	tok, exp, err := issuer.Issue(24 * time.Hour)
	require.NoError(t, err)

	assert.Len(t, tok, Length)
	assert.Equal(t, fixed.Add(24*time.Hour), exp)
	for _, r := range tok {
		assert.True(t, strings.ContainsRune(charset, r), "unexpected rune %q", r)
	}
}

func TestIssueIsRandom(t *testing.T) {
	issuer := NewIssuer()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		tok, _, err := issuer.Issue(time.Hour)
		require.NoError(t, err)
		assert.False(t, seen[tok])
		seen[tok] = true
	}
}

func TestValidate(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	stored := "abc"
	later := now.Add(time.Minute)
	earlier := now.Add(-time.Minute)

	tests := []struct {
		name      string
		stored    *string
		expiresAt *time.Time
		presented string
		want      Status
	}{
		{"valid", &stored, &later, "abc", Valid},
		{"expired", &stored, &earlier, "abc", Expired},
		{"expires exactly now", &stored, &now, "abc", Expired},
		{"mismatch", &stored, &later, "abd", NotFound},
		{"nothing stored", nil, nil, "abc", NotFound},
		{"empty presented", &stored, &later, "", NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.stored, tt.expiresAt, tt.presented, now))
		})
	}
}
