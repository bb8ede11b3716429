package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIsValid reports whether token carries an expiry claim in the future.
// The signature is deliberately not verified: the server is the authority on
// authenticity, the client only needs to know whether presenting the token
// can still succeed. Malformed input maps to false, never to an error.
func TokenIsValid(token string) bool {
	if token == "" {
		return false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.After(time.Now())
}
