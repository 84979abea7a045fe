package view

import "context"

// Request carries the per-request inputs pages read while rendering.
type Request struct {
	Query map[string]string
	// Form echoes a submitted login form back with its error.
	Form LoginForm
	// Profile carries the outcome of a failed account settings change.
	Profile ProfileForm
}

// ProfileForm is what the account settings forms show after a submission.
type ProfileForm struct {
	Username string
	Error    string
}

// LoginForm is what the login page shows after a failed submission.
type LoginForm struct {
	SignUp bool
	Email  string
	Error  string
}

// Get returns the query value for key, or "".
func (r *Request) Get(key string) string {
	if r == nil || r.Query == nil {
		return ""
	}
	return r.Query[key]
}

type requestKey struct{}

func WithRequest(ctx context.Context, r *Request) context.Context {
	return context.WithValue(ctx, requestKey{}, r)
}

// RequestFrom returns the request in ctx; a missing one reads as empty.
func RequestFrom(ctx context.Context) *Request {
	if r, ok := ctx.Value(requestKey{}).(*Request); ok && r != nil {
		return r
	}
	return &Request{}
}
