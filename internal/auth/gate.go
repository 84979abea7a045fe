package auth

import (
	"context"
	"io"

	"github.com/skillhive/skillhive-go/internal/navigation"
)

// Gate renders its children only for an authenticated session. Otherwise it
// navigates to LoginPath and renders nothing.
type Gate struct {
	LoginPath string
	Children  navigation.Fragment
}

func NewGate(loginPath string, children ...navigation.Component) *Gate {
	return &Gate{LoginPath: loginPath, Children: children}
}

func (g *Gate) Render(ctx context.Context, w io.Writer) error {
	if !FromContext(ctx).IsAuthenticated() {
		if s := navigation.FromContext(ctx); s != nil {
			s.Navigate(g.LoginPath)
		}
		return nil
	}
	return g.Children.Render(ctx, w)
}
