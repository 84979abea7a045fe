// Package view declares the pages of the web front end and the routes that
// mount them.
package view

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/skillhive/skillhive-go/internal/auth"
	"github.com/skillhive/skillhive-go/internal/model"
	"github.com/skillhive/skillhive-go/internal/navigation"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/app.css
var Stylesheet []byte

// VideoSearcher finds videos for a topic; failures yield an empty slice.
type VideoSearcher interface {
	Search(ctx context.Context, query, method string) []model.VideoRecord
}

// QuestionGenerator builds a learning guide; failures yield an empty list.
type QuestionGenerator interface {
	Generate(ctx context.Context, topic string) model.QuestionList
}

// UserLookup loads the signed-in user's profile.
type UserLookup interface {
	Lookup(ctx context.Context, userID string) (*model.UserResponse, error)
}

// Deps are the services pages call while rendering.
type Deps struct {
	Videos    VideoSearcher
	Questions QuestionGenerator
	Users     UserLookup
}

type navLink struct {
	Path, Name string
}

var navLinks = []navLink{
	{"/login", "Login"},
	{"/dashboard", "Dashboard"},
	{"/about", "About"},
	{"/learning", "Learning"},
	{"/profile", "Profile"},
}

// App is the root component: navbar, the routed page, footer.
type App struct {
	tmpl   *template.Template
	routes navigation.Routes
}

// NewApp parses the templates and declares the routes. Protected pages
// redirect to loginPath.
func NewApp(deps Deps, loginPath string) (*App, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	a := &App{tmpl: tmpl}
	login := a.loginPage()
	a.routes = navigation.Routes{
		navigation.NewRoute("/", login),
		navigation.NewRoute("/login", login),
		navigation.NewRoute("/about", a.static("about")),
		navigation.NewRoute("/dashboard", auth.NewGate(loginPath, a.dashboardPage(deps.Videos))),
		navigation.NewRoute("/learning", auth.NewGate(loginPath, a.learningPage(deps.Questions))),
		navigation.NewRoute("/profile", auth.NewGate(loginPath, a.profilePage(deps.Users))),
	}
	return a, nil
}

// Routes returns the top-level routes.
func (a *App) Routes() navigation.Routes {
	return a.routes
}

func (a *App) Render(ctx context.Context, w io.Writer) error {
	current := ""
	if s := navigation.FromContext(ctx); s != nil {
		current = s.CurrentPath()
	}

	type link struct {
		Path, Name string
		Active     bool
	}
	links := make([]link, len(navLinks))
	for i, l := range navLinks {
		links[i] = link{Path: l.Path, Name: l.Name, Active: navigation.Match(l.Path, current)}
	}

	header := struct {
		Links         []link
		Authenticated bool
	}{links, auth.FromContext(ctx).IsAuthenticated()}

	if err := a.tmpl.ExecuteTemplate(w, "header", header); err != nil {
		return err
	}
	if err := a.routes.Render(ctx, w); err != nil {
		return err
	}
	return a.tmpl.ExecuteTemplate(w, "footer", nil)
}

func (a *App) static(name string) navigation.Component {
	return navigation.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return a.tmpl.ExecuteTemplate(w, name, nil)
	})
}
