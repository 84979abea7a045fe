package navigation

import (
	"context"
	"io"
)

// Component renders itself into w. Rendering nothing is valid.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(ctx context.Context, w io.Writer) error

func (f ComponentFunc) Render(ctx context.Context, w io.Writer) error {
	return f(ctx, w)
}

// Fragment renders its children in order, stopping at the first error.
type Fragment []Component

func (f Fragment) Render(ctx context.Context, w io.Writer) error {
	for _, c := range f {
		if c == nil {
			continue
		}
		if err := c.Render(ctx, w); err != nil {
			return err
		}
	}
	return nil
}
