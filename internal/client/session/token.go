package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CredentialExpiry reads the exp claim of a JWT credential without verifying
// its signature; the client never holds the signing key. ok is false for
// opaque (non-JWT) credentials and for tokens without exp.
func CredentialExpiry(credential string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func credentialExpired(credential string, now time.Time) bool {
	exp, ok := CredentialExpiry(credential)
	return ok && !exp.After(now)
}
