package utils

import (
	"crypto/rand"     // secure random number generation
	"crypto/sha256"   // SHA-256 hashing for stored token digests
	"encoding/base64" // URL-safe encoding of raw token bytes
	"encoding/hex"    // hex encoding of digests
)

// NewOpaqueToken returns a URL-safe random string built from n bytes of
// cryptographically secure entropy. The output uses the unpadded base64 URL
// alphabet, so it can be embedded directly in a link without percent
// encoding. Opaque tokens carry no structure; they are single-use lookup
// keys for the email-verification and deletion-cancellation flows.
func NewOpaqueToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashOpaqueToken returns the SHA-256 hex digest of a raw opaque token.
// Only the digest is stored, so a leaked table does not expose usable
// tokens, and the digest column stays indexable for lookups.
func HashOpaqueToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
