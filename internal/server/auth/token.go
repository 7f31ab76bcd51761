package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"anonboard/internal/common"
)

// IDClaims are the profile claims extracted from an external-identity ID
// token.
type IDClaims struct {
	Email string
	Name  string
}

// ParseIDToken extracts email and display name from an OAuth ID token. The
// token's signature has already been checked by the provider exchange that
// issued it, so the claims are decoded without re-verification here.
func ParseIDToken(raw string) (IDClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return IDClaims{}, fmt.Errorf("%w: %v", common.ErrorAuthRejected, err)
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return IDClaims{}, fmt.Errorf("%w: id token carries no email", common.ErrorAuthRejected)
	}

	name, _ := claims["name"].(string)
	if name == "" {
		name, _ = claims["given_name"].(string)
	}
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	return IDClaims{Email: email, Name: name}, nil
}
