package web

import (
	"sync"
	"time"

	"anonboard/internal/common"
	"anonboard/internal/session"
)

const tokenBytes = 32

// Registry maps bearer tokens to per-connection session state. A logout
// keeps the entry alive: the one-shot restore marker lives in the state and
// must survive until it is consumed.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session.State
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*session.State),
		now:      time.Now,
	}
}

// Create opens a fresh anonymous session and returns its bearer token.
func (r *Registry) Create() (string, *session.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, err := common.MakeRandHexString(tokenBytes)
	if err != nil {
		return "", nil, err
	}
	st := session.NewState(r.now())
	r.sessions[token] = st
	return token, st, nil
}

// Lookup resolves a bearer token.
func (r *Registry) Lookup(token string) (*session.State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.sessions[token]
	return st, ok
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
