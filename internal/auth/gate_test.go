package auth

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/skillhive/skillhive-go/internal/navigation"
)

var secret = navigation.ComponentFunc(func(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, "secret")
	return err
})

func TestGate_UnauthenticatedRedirectsToLogin(t *testing.T) {
	store := navigation.NewStore("/dashboard")
	var notified []string
	store.Subscribe(func(p string) { notified = append(notified, p) })

	ctx := navigation.WithStore(context.Background(), store)
	ctx = WithState(ctx, NewState(""))

	routes := navigation.Routes{navigation.NewRoute("/dashboard", NewGate("/login", secret))}
	var buf bytes.Buffer
	if err := routes.Render(ctx, &buf); err != nil {
		t.Fatal(err)
	}

	if buf.Len() != 0 {
		t.Errorf("rendered %q, want nothing", buf.String())
	}
	if got := store.CurrentPath(); got != "/login" {
		t.Errorf("CurrentPath = %q, want /login", got)
	}
	if len(notified) != 1 || notified[0] != "/login" {
		t.Errorf("notified = %v, want [/login]", notified)
	}
}

func TestGate_MissingStateIsUnauthenticated(t *testing.T) {
	store := navigation.NewStore("/profile")
	ctx := navigation.WithStore(context.Background(), store)

	var buf bytes.Buffer
	if err := NewGate("/login", secret).Render(ctx, &buf); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 || store.CurrentPath() != "/login" {
		t.Errorf("rendered %q at %q", buf.String(), store.CurrentPath())
	}
}

func TestGate_AuthenticatedRendersChildren(t *testing.T) {
	store := navigation.NewStore("/dashboard")
	ctx := WithState(navigation.WithStore(context.Background(), store), NewState("u1"))

	var buf bytes.Buffer
	if err := NewGate("/login", secret).Render(ctx, &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "secret" {
		t.Errorf("rendered %q, want secret", buf.String())
	}
	if store.CurrentPath() != "/dashboard" {
		t.Errorf("gate navigated to %q", store.CurrentPath())
	}
}

func TestState_SignInSignOut(t *testing.T) {
	s := NewState("")
	if s.IsAuthenticated() {
		t.Fatal("new state should be signed out")
	}
	s.SignIn("abc")
	if !s.IsAuthenticated() || s.UserID() != "abc" {
		t.Errorf("after SignIn: %v %q", s.IsAuthenticated(), s.UserID())
	}
	s.SignOut()
	if s.IsAuthenticated() || s.UserID() != "" {
		t.Errorf("after SignOut: %v %q", s.IsAuthenticated(), s.UserID())
	}
}
