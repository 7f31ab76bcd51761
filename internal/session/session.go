// Package session models the per-connection authentication state machine.
// A State is owned by exactly one connection, lives only in memory and is
// discarded at disconnect; nothing here is persisted.
package session

import (
	"sync"
	"time"
)

type Phase int

const (
	// Anonymous is the entry state of every connection.
	Anonymous Phase = iota
	// Authenticated means a login transition succeeded and the connection
	// is bound to a user (or the admin identity).
	Authenticated
	// LoggedOut is terminal for the connection; the next request re-enters
	// Anonymous after the one-shot logout marker is consumed.
	LoggedOut
)

// State carries everything the request pipeline needs to know about one
// connection. The ban status of the bound user is deliberately NOT cached
// here: the service layer re-reads the directory on every guarded action.
type State struct {
	mu           sync.Mutex
	phase        Phase
	user         string
	isAdmin      bool
	lastPoll     time.Time
	manualLogout bool
}

// NewState returns a fresh Anonymous state with the poll clock started now.
func NewState(now time.Time) *State {
	return &State{phase: Anonymous, lastPoll: now}
}

func (s *State) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// User returns the bound username, empty while not authenticated.
func (s *State) User() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *State) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isAdmin
}

func (s *State) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == Authenticated
}

// LoginUser binds the connection to a regular user account.
func (s *State) LoginUser(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = Authenticated
	s.user = username
	s.isAdmin = false
	s.manualLogout = false
}

// LoginAdmin binds the connection to the administrator identity.
func (s *State) LoginAdmin(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = Authenticated
	s.user = username
	s.isAdmin = true
	s.manualLogout = false
}

// Logout clears all session fields and arms the one-shot logout marker that
// suppresses the next external-identity auto-restore attempt.
func (s *State) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = LoggedOut
	s.user = ""
	s.isAdmin = false
	s.manualLogout = true
}

// ConsumeLogoutMarker reports whether the logout marker was armed and
// disarms it. After consumption the state re-enters Anonymous, so the
// following request behaves like a fresh connection.
func (s *State) ConsumeLogoutMarker() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.manualLogout {
		return false
	}
	s.manualLogout = false
	if s.phase == LoggedOut {
		s.phase = Anonymous
	}
	return true
}

// LastPoll returns the instant of the last shared-state reload.
func (s *State) LastPoll() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPoll
}

// ResetPoll moves the poll clock, either because a reload happened or
// because a successful post forces the next cycle to reload immediately.
func (s *State) ResetPoll(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPoll = now
}
