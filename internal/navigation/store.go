// Package navigation tracks the active view path and mounts the components
// declared for it.
package navigation

import (
	"context"
	"sync"
)

// Listener is called with the new path after every Navigate.
type Listener func(path string)

type subscription struct {
	id int
	fn Listener
}

// Store holds the current path of one browser session.
type Store struct {
	mu          sync.Mutex
	currentPath string
	subs        []subscription
	nextID      int
}

// NewStore returns a store positioned at initial ("/" if empty).
func NewStore(initial string) *Store {
	return &Store{currentPath: normalize(initial)}
}

// CurrentPath returns the active path.
func (s *Store) CurrentPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPath
}

// Navigate sets the current path and notifies subscribers synchronously,
// in the order they subscribed. Listeners run without the lock held, so they
// may read the store or navigate again.
func (s *Store) Navigate(path string) {
	s.mu.Lock()
	s.currentPath = normalize(path)
	current := s.currentPath
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(current)
	}
}

// Subscribe registers fn and returns a func that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

type storeKey struct{}

// WithStore returns a context carrying s for the components rendered under it.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, storeKey{}, s)
}

// FromContext returns the store in ctx, or nil.
func FromContext(ctx context.Context) *Store {
	s, _ := ctx.Value(storeKey{}).(*Store)
	return s
}
