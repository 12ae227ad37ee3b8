// ABOUTME: Display-only profile fallback decoded from the token's claims
// ABOUTME: No signature verification happens here; never use the result for authorization

package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken is returned when the token payload cannot be decoded
var ErrMalformedToken = errors.New("malformed token")

// ErrNoIdentityClaim is returned when the token carries no usable subject
var ErrNoIdentityClaim = errors.New("token has no subject claim")

// ProfileFromToken derives a minimal display identity from the token's sub
// claim. The resulting user has an empty ID.
func ProfileFromToken(token string) (*User, error) {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser(jwt.WithPaddingAllowed()).ParseUnverified(token, claims)
	// An unknown or missing alg only means we could not verify, which we never do
	if err != nil && !errors.Is(err, jwt.ErrTokenUnverifiable) {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	sub = strings.TrimSpace(sub)
	if sub == "" {
		return nil, ErrNoIdentityClaim
	}

	return &User{
		Name:  displayName(sub),
		Email: sub,
	}, nil
}

// displayName returns the local part of an email-style subject
func displayName(sub string) string {
	if i := strings.Index(sub, "@"); i > 0 {
		return sub[:i]
	}
	return sub
}
