package navigation

import (
	"context"
	"io"
	"strings"
)

// Route mounts its children only while the current path matches its pattern.
type Route struct {
	Pattern  string
	Children Fragment
}

// NewRoute declares children under pattern.
func NewRoute(pattern string, children ...Component) *Route {
	return &Route{Pattern: pattern, Children: children}
}

// Render renders the children if the store in ctx is at r.Pattern.
// Without a store nothing is rendered.
func (r *Route) Render(ctx context.Context, w io.Writer) error {
	s := FromContext(ctx)
	if s == nil || !Match(r.Pattern, s.CurrentPath()) {
		return nil
	}
	return r.Children.Render(ctx, w)
}

// Match reports whether path equals pattern. A single trailing slash is
// ignored on both sides, except for the root path.
func Match(pattern, path string) bool {
	return trimSlash(pattern) == trimSlash(path)
}

func trimSlash(p string) string {
	if p == "" {
		return "/"
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// Routes is a set of sibling routes.
type Routes []*Route

// Render renders every matching route in declaration order.
func (rs Routes) Render(ctx context.Context, w io.Writer) error {
	for _, r := range rs {
		if err := r.Render(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

// Matches reports whether any route is declared for path.
func (rs Routes) Matches(path string) bool {
	for _, r := range rs {
		if Match(r.Pattern, path) {
			return true
		}
	}
	return false
}
