package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-passw0rd", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, VerifyPassword(hash, "s3cret-passw0rd"))
	assert.False(t, VerifyPassword(hash, "wrong-password"))
	assert.False(t, VerifyPassword(hash, ""))
}

func TestHashPasswordFreshSaltPerCall(t *testing.T) {
	h1, err := HashPassword("same-input", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("same-input", bcrypt.MinCost)
	require.NoError(t, err)

	// Different salts produce different encodings; both still verify.
	assert.NotEqual(t, h1, h2)
	assert.True(t, VerifyPassword(h1, "same-input"))
	assert.True(t, VerifyPassword(h2, "same-input"))
}

func TestHashPasswordTruncatesAt72Bytes(t *testing.T) {
	prefix := strings.Repeat("a", 72)

	hash, err := HashPassword(prefix+"tail-one", bcrypt.MinCost)
	require.NoError(t, err)

	// Bytes beyond the 72nd do not participate in the hash.
	assert.True(t, VerifyPassword(hash, prefix+"tail-two"))
	assert.True(t, VerifyPassword(hash, prefix))

	// A difference inside the first 72 bytes still matters.
	shorter := strings.Repeat("a", 71) + "b"
	assert.False(t, VerifyPassword(hash, shorter))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("", "anything"))
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "anything"))
	assert.False(t, VerifyPassword("$2a$banana", "anything"))
}
