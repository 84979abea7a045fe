// Package session persists per-browser navigation and auth state between
// requests.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/skillhive/skillhive-go/internal/model"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 24 * time.Hour

// ErrNotFound is returned by Load for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Store loads and saves sessions by ID.
type Store interface {
	Load(ctx context.Context, id string) (*model.Session, error)
	Save(ctx context.Context, s *model.Session) error
	Delete(ctx context.Context, id string) error
}

// New returns a fresh, signed-out session at the root path.
func New() *model.Session {
	return &model.Session{
		ID:          uuid.NewString(),
		CurrentPath: "/",
		UpdatedAt:   time.Now(),
	}
}

// LoadOrNew returns the stored session for id, or a new one when id is empty,
// unknown or malformed. Store errors other than ErrNotFound are returned with
// a usable new session so callers can degrade.
func LoadOrNew(ctx context.Context, st Store, id string) (*model.Session, error) {
	if _, err := uuid.Parse(id); id == "" || err != nil {
		return New(), nil
	}
	s, err := st.Load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return New(), nil
		}
		return New(), err
	}
	return s, nil
}
