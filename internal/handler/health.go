package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Version is reported by the readiness probe.
var Version = "0.1.0"

// dependency is one backend the readiness probe pings. A nil ping means the
// dependency is not configured.
type dependency struct {
	name     string
	required bool
	ping     func(ctx context.Context) error
}

type HealthHandler struct {
	deps    []dependency
	startAt time.Time
}

// NewHealthHandler checks Postgres (required) and Redis (optional; sessions
// fall back to memory without it). Either may be nil.
func NewHealthHandler(pool *pgxpool.Pool, rdb *redis.Client) *HealthHandler {
	db := dependency{name: "database", required: true}
	if pool != nil {
		db.ping = pool.Ping
	}
	cache := dependency{name: "redis"}
	if rdb != nil {
		cache.ping = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return &HealthHandler{deps: []dependency{db, cache}, startAt: time.Now()}
}

// Live handles GET /health/live.
func (h *HealthHandler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready handles GET /health/ready. A required dependency down is unhealthy
// (503); an optional one down only degrades.
func (h *HealthHandler) Ready(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	checks := make(fiber.Map, len(h.deps))
	overall := "healthy"
	for _, d := range h.deps {
		result := d.check(ctx)
		checks[d.name] = result

		switch {
		case result["status"] == "up":
		case d.required:
			overall = "unhealthy"
		case result["status"] == "down" && overall == "healthy":
			overall = "degraded"
		}
	}

	status := fiber.StatusOK
	if overall == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"status":         overall,
		"checks":         checks,
		"uptime_seconds": int(time.Since(h.startAt).Seconds()),
		"version":        Version,
	})
}

func (d dependency) check(ctx context.Context) fiber.Map {
	if d.ping == nil {
		if d.required {
			return fiber.Map{"status": "down", "error": "not configured"}
		}
		return fiber.Map{"status": "disabled"}
	}

	start := time.Now()
	err := d.ping(ctx)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return fiber.Map{"status": "down", "latency_ms": latency, "error": "connection failed"}
	}
	return fiber.Map{"status": "up", "latency_ms": latency}
}
