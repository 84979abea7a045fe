package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/skillhive/skillhive-go/internal/config"
	"github.com/skillhive/skillhive-go/internal/db"
	"github.com/skillhive/skillhive-go/internal/handler"
	"github.com/skillhive/skillhive-go/internal/middleware"
	"github.com/skillhive/skillhive-go/internal/questions"
	"github.com/skillhive/skillhive-go/internal/repository"
	"github.com/skillhive/skillhive-go/internal/router"
	"github.com/skillhive/skillhive-go/internal/service"
	"github.com/skillhive/skillhive-go/internal/session"
	"github.com/skillhive/skillhive-go/internal/view"
	"github.com/skillhive/skillhive-go/internal/youtube"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		middleware.InitLogger("info", "skillhive")
		middleware.Logger.Fatal().Err(err).Msg("failed to load config")
	}

	middleware.InitLogger(cfg.LogLevel, "skillhive")
	log := middleware.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, middleware.Component("db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to apply schema")
	}

	sessions, rdb := session.Open(cfg.RedisURL, cfg.SessionTTL, middleware.Component("session"))
	if rdb != nil {
		defer rdb.Close()
	}

	handler.InitMetrics(prometheus.DefaultRegisterer, pool)

	videos := youtube.NewClient(cfg.YouTubeAPIKey,
		youtube.WithSearchURL(cfg.YouTubeSearchURL),
		youtube.WithMaxResults(cfg.YouTubeMaxResults),
		youtube.WithOrder(cfg.YouTubeOrder),
		youtube.WithLogger(middleware.Component("youtube")),
		youtube.WithCallCounter(handler.Metrics.AdapterCalls),
	)
	if cfg.YouTubeAPIKey == "" {
		log.Warn().Msg("YOUTUBE_API_KEY not set, video searches will fail")
	}

	var gen questions.Generator
	gemini, err := questions.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL,
		&http.Client{Timeout: 60 * time.Second})
	if err != nil {
		log.Warn().Err(err).Msg("question generation disabled")
	} else {
		gen = gemini
	}
	guide := questions.NewAdapter(gen,
		questions.WithLogger(middleware.Component("questions")),
		questions.WithCallCounter(handler.Metrics.AdapterCalls),
	)

	users := service.NewUserService(repository.NewUserRepo(pool))

	site, err := view.NewApp(view.Deps{Videos: videos, Questions: guide, Users: users}, cfg.LoginPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build pages")
	}

	web := fiber.New(fiber.Config{
		AppName:      "Skill Hive",
		ServerHeader: "SkillHive",
	})
	webLimiters := router.SetupWeb(web, handler.NewPageHandler(site, sessions, users, handler.PageConfig{
		LoginPath:    cfg.LoginPath,
		SecureCookie: cfg.Environment == "production",
		CookieMaxAge: int(cfg.SessionTTL.Seconds()),
	}))

	api := fiber.New(fiber.Config{
		AppName:      "Skill Hive API",
		ServerHeader: "SkillHive",
	})
	apiLimiters := router.SetupAPI(api, &router.APIHandlers{
		User:   handler.NewUserHandler(users),
		Health: handler.NewHealthHandler(pool, rdb),
	}, cfg.CORSOrigins)

	g, gctx := errgroup.WithContext(ctx)
	servers := []struct {
		name, port string
		app        *fiber.App
	}{
		{"web", cfg.WebPort, web},
		{"api", cfg.APIPort, api},
	}
	for _, srv := range servers {
		g.Go(func() error {
			log.Info().Str("server", srv.name).Str("port", srv.port).Str("env", cfg.Environment).Msg("server starting")
			return srv.app.Listen(":"+srv.port, fiber.ListenConfig{DisableStartupMessage: true})
		})
	}

	// Shut both servers down on a signal or when either one fails.
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, srv := range servers {
			if err := srv.app.ShutdownWithContext(shutdownCtx); err != nil {
				log.Error().Err(err).Str("server", srv.name).Msg("shutdown failed")
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
	webLimiters.Close()
	apiLimiters.Close()
}
