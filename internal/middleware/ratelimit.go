package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
)

// RateLimitConfig defines the limit for a specific route or group.
type RateLimitConfig struct {
	Max    int
	Window time.Duration
	// KeyFn returns the key to limit on (IP, session).
	KeyFn func(c fiber.Ctx) string
	// Reject writes the response for a limited request. Defaults to the
	// JSON error envelope.
	Reject func(c fiber.Ctx, retryAfter int) error
}

type window struct {
	count int
	end   time.Time
}

// RateLimiter is an in-memory fixed-window rate limiter.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	config  RateLimitConfig
	now     func() time.Time
	done    chan struct{}
	once    sync.Once
}

// NewRateLimiter creates a rate limiter and starts its sweeper. Call Close
// to stop the sweeper.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.Reject == nil {
		cfg.Reject = RejectJSON
	}
	rl := &RateLimiter{
		windows: make(map[string]*window),
		config:  cfg,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go rl.sweep(5 * time.Minute)
	return rl
}

// take counts one request for key and reports how many remain in the
// current window (negative once over the limit) and when it ends.
func (rl *RateLimiter) take(key string) (remaining int, end time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || now.After(w.end) {
		w = &window{end: now.Add(rl.config.Window)}
		rl.windows[key] = w
	}
	w.count++
	return rl.config.Max - w.count, w.end
}

// Allow counts a request for key and reports whether it is within the limit.
func (rl *RateLimiter) Allow(key string) bool {
	remaining, _ := rl.take(key)
	return remaining >= 0
}

// Handler returns a Fiber middleware handler that enforces the limit.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		remaining, end := rl.take(rl.config.KeyFn(c))

		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.config.Max))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(max(remaining, 0)))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(end.Unix(), 10))

		if remaining < 0 {
			retryAfter := int(end.Sub(rl.now()).Seconds()) + 1
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			return rl.config.Reject(c, retryAfter)
		}
		return c.Next()
	}
}

// Close stops the sweeper.
func (rl *RateLimiter) Close() {
	rl.once.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, w := range rl.windows {
				if now.After(w.end) {
					delete(rl.windows, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// RejectJSON answers a limited API request with the error envelope.
func RejectJSON(c fiber.Ctx, retryAfter int) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error": fiber.Map{
			"code":       "RATE_LIMITED",
			"message":    "Too many requests. Try again in " + strconv.Itoa(retryAfter) + " seconds.",
			"retryAfter": retryAfter,
		},
	})
}

// RejectText answers a limited page request in plain text.
func RejectText(c fiber.Ctx, retryAfter int) error {
	return c.Status(fiber.StatusTooManyRequests).
		SendString("Too many requests. Try again in " + strconv.Itoa(retryAfter) + " seconds.")
}

// KeyByIP returns the client IP as the rate limit key.
func KeyByIP(c fiber.Ctx) string {
	return "ip:" + c.IP()
}

// SessionCookie is the name of the cookie carrying the session ID.
const SessionCookie = "skillhive_session"

// SessionIDLocal is the Locals key under which the page handler publishes
// the ID of a loaded, signed-in session.
const SessionIDLocal = "skillhive.session_id"

// KeyBySession keys on the signed-in session loaded for this request,
// falling back to IP. The raw cookie is never trusted as a key.
func KeyBySession(c fiber.Ctx) string {
	if sid, ok := c.Locals(SessionIDLocal).(string); ok && sid != "" {
		return "session:" + sid
	}
	return KeyByIP(c)
}

// NewLoginRateLimiter: 5 req/min per IP
func NewLoginRateLimiter(reject func(fiber.Ctx, int) error) *RateLimiter {
	return NewRateLimiter(RateLimitConfig{Max: 5, Window: time.Minute, KeyFn: KeyByIP, Reject: reject})
}

// NewSignUpRateLimiter: 3 req/hour per IP
func NewSignUpRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{Max: 3, Window: time.Hour, KeyFn: KeyByIP})
}

// NewSearchRateLimiter: 30 req/min per session. Each request is one
// YouTube search.
func NewSearchRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{Max: 30, Window: time.Minute, KeyFn: KeyBySession, Reject: RejectText})
}

// NewQuestionsRateLimiter: 10 req/min per session. Each request is one
// Gemini generation.
func NewQuestionsRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{Max: 10, Window: time.Minute, KeyFn: KeyBySession, Reject: RejectText})
}
