package auth

import (
	"crypto/subtle"
	"strings"
)

// Bootstrap holds the administrator credentials configured at startup. The
// admin identity is not a directory account; it exists only here.
type Bootstrap struct {
	Username string
	Password string
}

// Match checks the given credentials against the bootstrap pair. Inputs are
// trimmed first because copy-pasted credentials routinely carry whitespace.
// The comparison is constant-time.
func (b Bootstrap) Match(username, password string) bool {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if b.Username == "" || b.Password == "" {
		return false
	}

	userOK := subtle.ConstantTimeCompare([]byte(b.Username), []byte(username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(b.Password), []byte(password)) == 1
	return userOK && passOK
}
