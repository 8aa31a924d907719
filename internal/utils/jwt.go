package utils // package utils provides helper functions for credentials and tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed HS256 JWT along with its expiry. The
// Token field contains the serialized JWT; Exp is the UTC expiration time.
// Access tokens are stateless bearer credentials: there is no revocation
// list, invalidation is purely by expiry (or by rotating the signing
// secret, which logs out every session at once).
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user. The claims are
// the subject (user ID), the user's email, the expiration and the issued-at
// time. ttlMin controls the token lifetime in minutes.
func NewAccessToken(secret string, userID uint64, email string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// VerifyAccessToken parses and validates a serialized access token. It
// returns the claims and true when the signature checks out, the signing
// method is HMAC and the token has not expired. Every failure mode (bad
// signature, malformed structure, expiry, wrong algorithm) comes back as a
// uniform false; callers treat an invalid token exactly like an absent one.
func VerifyAccessToken(secret, raw string) (jwt.MapClaims, bool) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}
	return claims, true
}

// SubjectID extracts the numeric user ID from the "sub" claim. JWT numbers
// decode as float64, so a conversion is needed.
func SubjectID(claims jwt.MapClaims) (uint64, bool) {
	v, ok := claims["sub"].(float64)
	if !ok || v < 0 {
		return 0, false
	}
	return uint64(v), true
}
