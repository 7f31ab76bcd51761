// Package users maintains the account directory: a map of username to
// profile persisted as one document through the dual-backend store.
package users

import "time"

type Status string

const (
	StatusActive Status = "active"
	StatusBanned Status = "banned"
)

// User is one account record. PasswordHash is only present for accounts
// created through the local credential path; externally authenticated
// profiles carry no secret. Timestamps are stored as RFC 3339 strings.
type User struct {
	DisplayName  string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password,omitempty"`
	Status       Status `json:"status"`
	CreatedAt    string `json:"created_at"`
	LastLogin    string `json:"last_login"`
}

// Banned reports whether the account is banned. A missing status counts as
// active, matching records written before moderation existed.
func (u User) Banned() bool {
	return u.Status == StatusBanned
}

func timestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}
