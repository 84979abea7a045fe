package view

import (
	"context"
	"fmt"
	"io"

	"github.com/skillhive/skillhive-go/internal/auth"
	"github.com/skillhive/skillhive-go/internal/model"
	"github.com/skillhive/skillhive-go/internal/navigation"
)

type methodOption struct {
	Value, Label string
	Selected     bool
}

// searchMethods are appended verbatim to the search query.
var searchMethods = []struct{ Value, Label string }{
	{"", "Any"},
	{" tutorial", "Tutorial"},
	{" crash course", "Crash course"},
	{" full course", "Full course"},
	{" explained", "Explained"},
}

func (a *App) loginPage() navigation.Component {
	return navigation.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		req := RequestFrom(ctx)
		form := req.Form
		if req.Get("mode") == "signup" {
			form.SignUp = true
		}
		return a.tmpl.ExecuteTemplate(w, "login", form)
	})
}

func (a *App) dashboardPage(videos VideoSearcher) navigation.Component {
	return navigation.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		req := RequestFrom(ctx)
		query, method := req.Get("q"), req.Get("method")

		methods := make([]methodOption, len(searchMethods))
		for i, m := range searchMethods {
			methods[i] = methodOption{Value: m.Value, Label: m.Label, Selected: m.Value == method}
		}

		var results []model.VideoRecord
		if query != "" && videos != nil {
			results = videos.Search(ctx, query, method)
		}

		return a.tmpl.ExecuteTemplate(w, "dashboard", struct {
			Query   string
			Methods []methodOption
			Videos  []model.VideoRecord
		}{query, methods, results})
	})
}

func (a *App) learningPage(questions QuestionGenerator) navigation.Component {
	return navigation.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		topic := RequestFrom(ctx).Get("topic")

		var list model.QuestionList
		if topic != "" && questions != nil {
			list = questions.Generate(ctx, topic)
		}

		return a.tmpl.ExecuteTemplate(w, "learning", struct {
			Topic     string
			Questions model.QuestionList
		}{topic, list})
	})
}

func (a *App) profilePage(users UserLookup) navigation.Component {
	return navigation.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		userID := auth.FromContext(ctx).UserID()
		if users == nil {
			return fmt.Errorf("profile: no user lookup configured")
		}
		u, err := users.Lookup(ctx, userID)
		if err != nil {
			return fmt.Errorf("profile lookup: %w", err)
		}

		req := RequestFrom(ctx)
		return a.tmpl.ExecuteTemplate(w, "profile", struct {
			User   *model.UserResponse
			Form   ProfileForm
			Notice string
		}{u, req.Profile, profileNotices[req.Get("updated")]})
	})
}

// profileNotices maps the ?updated= value set after a successful change.
var profileNotices = map[string]string{
	"username": "Username updated.",
	"password": "Password updated.",
}
