package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/skillhive/skillhive-go/internal/handler"
	"github.com/skillhive/skillhive-go/internal/middleware"
)

// APIHandlers holds the handler instances served on the API port.
type APIHandlers struct {
	User   *handler.UserHandler
	Health *handler.HealthHandler
}

// Limiters are the rate limiters mounted by a setup; Close stops their
// sweepers once the app has shut down.
type Limiters []*middleware.RateLimiter

func (l Limiters) Close() {
	for _, rl := range l {
		rl.Close()
	}
}

// SetupAPI configures the middleware stack and the backend routes.
func SetupAPI(app *fiber.App, h *APIHandlers, corsOrigins string) Limiters {
	signup := middleware.NewSignUpRateLimiter()
	login := middleware.NewLoginRateLimiter(middleware.RejectJSON)

	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger("api"))
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	app.Get("/", handler.Welcome)

	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	user := app.Group("/user")
	user.Post("/signup", signup.Handler(), h.User.SignUp)
	user.Post("/login", login.Handler(), h.User.Login)
	user.Get("/:userId", h.User.GetByUserID)

	return Limiters{signup, login}
}

// SetupWeb configures the server-rendered front end. Every GET that is not
// a static asset goes through the page handler, which answers 404 itself
// for unknown paths.
func SetupWeb(app *fiber.App, pages *handler.PageHandler) Limiters {
	login := middleware.NewLoginRateLimiter(middleware.RejectText)
	password := middleware.NewLoginRateLimiter(middleware.RejectText)
	search := middleware.NewSearchRateLimiter()
	questions := middleware.NewQuestionsRateLimiter()

	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger("web"))
	app.Use(handler.MetricsMiddleware())

	app.Get("/static/app.css", pages.Stylesheet)

	// Pages below see the loaded session; the per-session limits key on it.
	app.Use(pages.Session)

	app.Post("/login", login.Handler(), pages.Login)
	app.Post("/logout", pages.Logout)
	app.Post("/profile", pages.UpdateUsername)
	app.Post("/profile/password", password.Handler(), pages.UpdatePassword)

	app.Get("/dashboard", search.Handler(), pages.Show)
	app.Get("/learning", questions.Handler(), pages.Show)
	app.Get("/", pages.Show)
	app.Get("/*", pages.Show)

	return Limiters{login, password, search, questions}
}
