package utils

import "golang.org/x/crypto/bcrypt"

// bcrypt only hashes the first 72 bytes of input; longer passwords are
// truncated so that Hash and Verify agree on what was hashed.
const maxPasswordBytes = 72

// HashPassword returns a bcrypt hash of plain using the given cost. A fresh
// salt is generated per call and encoded into the returned string, so no
// salt storage is needed for verification.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword(truncate([]byte(plain)), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares a bcrypt hash and a plain password. Any
// failure, including a malformed hash string, is reported as a mismatch.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate([]byte(plain))) == nil
}

func truncate(b []byte) []byte {
	if len(b) > maxPasswordBytes {
		return b[:maxPasswordBytes]
	}
	return b
}
