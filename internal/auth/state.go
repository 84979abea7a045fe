// Package auth holds the authentication flag of a session and exposes it to
// the components rendered for that session.
package auth

import (
	"context"
	"sync"
)

// State is the authentication state of one session.
type State struct {
	mu            sync.RWMutex
	authenticated bool
	userID        string
}

// NewState returns a state that is authenticated iff userID is non-empty.
func NewState(userID string) *State {
	return &State{authenticated: userID != "", userID: userID}
}

func (s *State) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *State) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// SignIn marks the state authenticated as userID.
func (s *State) SignIn(userID string) {
	s.mu.Lock()
	s.authenticated = true
	s.userID = userID
	s.mu.Unlock()
}

// SignOut clears the state.
func (s *State) SignOut() {
	s.mu.Lock()
	s.authenticated = false
	s.userID = ""
	s.mu.Unlock()
}

type stateKey struct{}

// WithState provides s to every component rendered with the returned context.
func WithState(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, stateKey{}, s)
}

// FromContext returns the state in ctx. A missing state reads as signed out.
func FromContext(ctx context.Context) *State {
	if s, ok := ctx.Value(stateKey{}).(*State); ok && s != nil {
		return s
	}
	return &State{}
}
