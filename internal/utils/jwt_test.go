package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-signing-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 42, "traveler@example.com", 30)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	assert.WithinDuration(t, time.Now().UTC().Add(30*time.Minute), tok.Exp, 5*time.Second)

	claims, ok := VerifyAccessToken(testSecret, tok.Token)
	require.True(t, ok)

	uid, ok := SubjectID(claims)
	require.True(t, ok)
	assert.Equal(t, uint64(42), uid)
	assert.Equal(t, "traveler@example.com", claims["email"])
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 7, "late@example.com", -1) // already expired
	require.NoError(t, err)

	_, ok := VerifyAccessToken(testSecret, tok.Token)
	assert.False(t, ok)
}

func TestVerifyAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 7, "who@example.com", 30)
	require.NoError(t, err)

	_, ok := VerifyAccessToken("a-different-secret", tok.Token)
	assert.False(t, ok)
}

func TestVerifyAccessTokenTampered(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 7, "who@example.com", 30)
	require.NoError(t, err)

	raw := tok.Token
	tampered := raw[:len(raw)-2] + "xx"
	_, ok := VerifyAccessToken(testSecret, tampered)
	assert.False(t, ok)
}

func TestVerifyAccessTokenGarbage(t *testing.T) {
	for _, raw := range []string{"", "abc", "a.b.c", "....."} {
		_, ok := VerifyAccessToken(testSecret, raw)
		assert.False(t, ok, "input %q", raw)
	}
}

func TestSubjectIDMissing(t *testing.T) {
	claims, ok := VerifyAccessToken(testSecret, mustToken(t))
	require.True(t, ok)
	delete(claims, "sub")
	_, ok = SubjectID(claims)
	assert.False(t, ok)
}

func mustToken(t *testing.T) string {
	t.Helper()
	tok, err := NewAccessToken(testSecret, 1, "x@example.com", 5)
	require.NoError(t, err)
	return tok.Token
}
