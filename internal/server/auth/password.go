// Package auth implements the collaborator authentication flows: local
// password credentials, the remote identity endpoint, external-identity
// token claims and the administrator bootstrap check. The board core only
// ever consumes the resolved (username, email, isAdmin) outcome.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a storable hash for the local credential path.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
