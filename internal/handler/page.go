package handler

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/skillhive/skillhive-go/internal/auth"
	"github.com/skillhive/skillhive-go/internal/middleware"
	"github.com/skillhive/skillhive-go/internal/model"
	"github.com/skillhive/skillhive-go/internal/navigation"
	"github.com/skillhive/skillhive-go/internal/service"
	"github.com/skillhive/skillhive-go/internal/session"
	"github.com/skillhive/skillhive-go/internal/view"
)

// Accounts backs the login form and the account settings on the profile
// page.
type Accounts interface {
	SignUp(ctx context.Context, req model.SignUpRequest) (*model.UserResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.UserResponse, error)
	ChangeUsername(ctx context.Context, userID, username string) (*model.UserResponse, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
}

// PageConfig tunes the session cookie and the post-login landing page.
type PageConfig struct {
	LoginPath    string
	HomePath     string
	ProfilePath  string
	SecureCookie bool
	CookieMaxAge int
}

// sessionLocal is the Locals key of the session loaded for this request.
const sessionLocal = "skillhive.session"

type PageHandler struct {
	app      *view.App
	sessions session.Store
	accounts Accounts
	cfg      PageConfig
	log      zerolog.Logger
}

func NewPageHandler(app *view.App, sessions session.Store, accounts Accounts, cfg PageConfig) *PageHandler {
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.HomePath == "" {
		cfg.HomePath = "/dashboard"
	}
	if cfg.ProfilePath == "" {
		cfg.ProfilePath = "/profile"
	}
	return &PageHandler{
		app:      app,
		sessions: sessions,
		accounts: accounts,
		cfg:      cfg,
		log:      middleware.Component("web"),
	}
}

// Session loads the browser's session once per request. A signed-in
// session publishes its ID for the per-session rate limits.
func (h *PageHandler) Session(c fiber.Ctx) error {
	if sess := h.loadSession(c); sess.IsAuthenticated {
		c.Locals(middleware.SessionIDLocal, sess.ID)
	}
	return c.Next()
}

// Show handles GET on every page path.
func (h *PageHandler) Show(c fiber.Ctx) error {
	sess := h.loadSession(c)

	query := c.Queries()
	for _, k := range []string{"q", "topic"} {
		if v, ok := query[k]; ok {
			query[k] = middleware.ValidateQuery(v)
		}
	}
	return h.render(c, sess, c.Path(), &view.Request{Query: query}, fiber.StatusOK)
}

// Login handles POST /login for both the login and the sign-up form.
func (h *PageHandler) Login(c fiber.Ctx) error {
	sess := h.loadSession(c)
	form := view.LoginForm{
		SignUp: c.FormValue("mode") == "signup",
		Email:  c.FormValue("email"),
	}

	email, errMsg := middleware.ValidateEmail(form.Email)
	var password, username string
	if errMsg == "" {
		password, errMsg = middleware.ValidatePassword(c.FormValue("password"))
	}
	if errMsg == "" && form.SignUp {
		username, errMsg = middleware.ValidateUsername(c.FormValue("username"))
	}
	if errMsg != "" {
		form.Error = errMsg
		return h.render(c, sess, h.cfg.LoginPath, &view.Request{Form: form}, fiber.StatusBadRequest)
	}

	var (
		user *model.UserResponse
		err  error
	)
	if form.SignUp {
		user, err = h.accounts.SignUp(c.Context(), model.SignUpRequest{Email: email, Password: password, Username: username})
	} else {
		user, err = h.accounts.Login(c.Context(), model.LoginRequest{Email: email, Password: password})
	}
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			status, form.Error = fiber.StatusConflict, "An account with this email already exists"
		case errors.Is(err, service.ErrInvalidCredentials):
			status, form.Error = fiber.StatusUnauthorized, "Invalid email or password"
		default:
			h.log.Error().Err(err).Bool("signup", form.SignUp).Msg("login failed")
			form.Error = "Something went wrong, please try again"
		}
		return h.render(c, sess, h.cfg.LoginPath, &view.Request{Form: form}, status)
	}

	h.rotate(c, sess)
	sess.IsAuthenticated = true
	sess.UserID = user.UserID
	sess.Email = user.Email
	return h.redirect(c, sess, h.cfg.HomePath)
}

// Logout handles POST /logout. The stored session is dropped.
func (h *PageHandler) Logout(c fiber.Ctx) error {
	sess := h.loadSession(c)
	sess.SignOut()
	return h.redirect(c, sess, h.cfg.LoginPath)
}

// UpdateUsername handles POST /profile.
func (h *PageHandler) UpdateUsername(c fiber.Ctx) error {
	sess := h.loadSession(c)
	if !sess.IsAuthenticated {
		return h.redirect(c, sess, h.cfg.LoginPath)
	}

	form := view.ProfileForm{Username: c.FormValue("username")}
	username, errMsg := middleware.ValidateUsername(form.Username)
	if errMsg == "" && username == "" {
		errMsg = "username is required"
	}
	if errMsg != "" {
		form.Error = errMsg
		return h.render(c, sess, h.cfg.ProfilePath, &view.Request{Profile: form}, fiber.StatusBadRequest)
	}

	if _, err := h.accounts.ChangeUsername(c.Context(), sess.UserID, username); err != nil {
		return h.settingsFailed(c, sess, form, err)
	}
	return h.redirectQuery(c, sess, h.cfg.ProfilePath, "updated=username")
}

// UpdatePassword handles POST /profile/password.
func (h *PageHandler) UpdatePassword(c fiber.Ctx) error {
	sess := h.loadSession(c)
	if !sess.IsAuthenticated {
		return h.redirect(c, sess, h.cfg.LoginPath)
	}

	var form view.ProfileForm
	current := c.FormValue("current_password")
	next, errMsg := middleware.ValidatePassword(c.FormValue("new_password"))
	switch {
	case current == "":
		errMsg = "current password is required"
	case errMsg == "" && next != c.FormValue("confirm_password"):
		errMsg = "New passwords do not match"
	}
	if errMsg != "" {
		form.Error = errMsg
		return h.render(c, sess, h.cfg.ProfilePath, &view.Request{Profile: form}, fiber.StatusBadRequest)
	}

	if err := h.accounts.ChangePassword(c.Context(), sess.UserID, current, next); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			form.Error = "Current password is incorrect"
			return h.render(c, sess, h.cfg.ProfilePath, &view.Request{Profile: form}, fiber.StatusUnauthorized)
		}
		return h.settingsFailed(c, sess, form, err)
	}

	h.rotate(c, sess)
	return h.redirectQuery(c, sess, h.cfg.ProfilePath, "updated=password")
}

// settingsFailed answers a failed account change: a vanished account signs
// the session out, anything else re-renders the profile with a 500.
func (h *PageHandler) settingsFailed(c fiber.Ctx, sess *model.Session, form view.ProfileForm, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		h.log.Warn().Msg("session user not found, signing out")
		sess.SignOut()
		return h.redirect(c, sess, h.cfg.LoginPath)
	}
	h.log.Error().Err(err).Msg("account update failed")
	form.Error = "Something went wrong, please try again"
	return h.render(c, sess, h.cfg.ProfilePath, &view.Request{Profile: form}, fiber.StatusInternalServerError)
}

// Stylesheet serves the embedded CSS.
func (h *PageHandler) Stylesheet(c fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/css; charset=utf-8")
	return c.Send(view.Stylesheet)
}

// render navigates the session's store to path and renders the app. A
// navigation made while rendering (an auth gate) becomes a 303 redirect.
func (h *PageHandler) render(c fiber.Ctx, sess *model.Session, path string, req *view.Request, status int) error {
	store := navigation.NewStore(sess.CurrentPath)
	unsubscribe := store.Subscribe(func(p string) { sess.CurrentPath = p })
	defer unsubscribe()

	store.Navigate(path)
	requested := store.CurrentPath()

	state := auth.NewState("")
	if sess.IsAuthenticated {
		state.SignIn(sess.UserID)
	}

	ctx := navigation.WithStore(c.Context(), store)
	ctx = auth.WithState(ctx, state)
	ctx = view.WithRequest(ctx, req)

	var buf bytes.Buffer
	if err := h.app.Render(ctx, &buf); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The account behind this session is gone.
			h.log.Warn().Str("path", requested).Msg("session user not found, signing out")
			sess.SignOut()
			return h.redirect(c, sess, h.cfg.LoginPath)
		}
		h.log.Error().Err(err).Str("path", requested).Msg("render failed")
		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	h.saveSession(c, sess)

	if current := store.CurrentPath(); current != requested {
		return c.Redirect().Status(fiber.StatusSeeOther).To(current)
	}
	if !h.app.Routes().Matches(requested) {
		status = fiber.StatusNotFound
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

func (h *PageHandler) redirect(c fiber.Ctx, sess *model.Session, path string) error {
	return h.redirectQuery(c, sess, path, "")
}

// redirectQuery navigates the session to path and answers 303 to path plus
// rawQuery. The query is not part of the navigation state.
func (h *PageHandler) redirectQuery(c fiber.Ctx, sess *model.Session, path, rawQuery string) error {
	store := navigation.NewStore(sess.CurrentPath)
	unsubscribe := store.Subscribe(func(p string) { sess.CurrentPath = p })
	store.Navigate(path)
	unsubscribe()

	h.saveSession(c, sess)
	location := sess.CurrentPath
	if rawQuery != "" {
		location += "?" + rawQuery
	}
	return c.Redirect().Status(fiber.StatusSeeOther).To(location)
}

// loadSession returns the session for this request, loading it from the
// store on first use.
func (h *PageHandler) loadSession(c fiber.Ctx) *model.Session {
	if sess, ok := c.Locals(sessionLocal).(*model.Session); ok {
		return sess
	}
	sess, err := session.LoadOrNew(c.Context(), h.sessions, c.Cookies(middleware.SessionCookie))
	if err != nil {
		h.log.Warn().Err(err).Msg("session load failed, starting a new one")
	}
	c.Locals(sessionLocal, sess)
	return sess
}

// rotate drops whatever session the browser presented and gives sess a new
// ID, so an ID known before a privilege change is worthless after it.
func (h *PageHandler) rotate(c fiber.Ctx, sess *model.Session) {
	h.dropPresented(c)
	sess.ID = uuid.NewString()
}

// dropPresented deletes the stored session named by the request cookie.
func (h *PageHandler) dropPresented(c fiber.Ctx) {
	old := c.Cookies(middleware.SessionCookie)
	if old == "" {
		return
	}
	if err := h.sessions.Delete(c.Context(), old); err != nil {
		h.log.Warn().Err(err).Msg("session delete failed")
	}
}

// saveSession persists signed-in sessions only. A signed-out session keeps
// no server state: any stored one is deleted and the cookie expired.
func (h *PageHandler) saveSession(c fiber.Ctx, sess *model.Session) {
	if !sess.IsAuthenticated {
		if c.Cookies(middleware.SessionCookie) != "" {
			h.dropPresented(c)
			h.setCookie(c, "", 0, fasthttp.CookieExpireDelete)
		}
		return
	}

	if err := h.sessions.Save(c.Context(), sess); err != nil {
		h.log.Warn().Err(err).Msg("session save failed")
	}
	h.setCookie(c, sess.ID, h.cfg.CookieMaxAge, time.Time{})
}

func (h *PageHandler) setCookie(c fiber.Ctx, value string, maxAge int, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires,
		Secure:   h.cfg.SecureCookie,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
