// Package messages holds the global chat log: an append-only, retention-capped
// sequence of messages persisted through the dual-backend store.
package messages

import "time"

// RoleUser is the only source role in the current scope.
const RoleUser = "user"

// Message is one chat entry. The JSON field names follow the stored layout.
// Messages are immutable once written: the log only appends or bulk-clears.
type Message struct {
	ID        string `json:"message_id"`
	Author    string `json:"user_id"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Role      string `json:"role"`
}

// ClockTime renders the display timestamp carried by a message. It is
// time-of-day only, so it must never be used for ordering: a log crossing
// midnight would misorder. Insertion order is the only reliable order.
func ClockTime(t time.Time) string {
	return t.Format("15:04:05")
}
