package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/cors"

	"github.com/unikiala/unikiala-api/internal/aitext"
	"github.com/unikiala/unikiala-api/internal/auth"
	"github.com/unikiala/unikiala-api/internal/backend"
	"github.com/unikiala/unikiala-api/internal/catalog"
	"github.com/unikiala/unikiala-api/internal/checkout"
	"github.com/unikiala/unikiala-api/internal/clock"
	"github.com/unikiala/unikiala-api/internal/config"
	"github.com/unikiala/unikiala-api/internal/dashboard"
	"github.com/unikiala/unikiala-api/internal/database"
	"github.com/unikiala/unikiala-api/internal/handler"
	"github.com/unikiala/unikiala-api/internal/localstore"
	"github.com/unikiala/unikiala-api/internal/logger"
	"github.com/unikiala/unikiala-api/internal/logger/sl"
	"github.com/unikiala/unikiala-api/internal/middleware"
	"github.com/unikiala/unikiala-api/internal/navigation"
	"github.com/unikiala/unikiala-api/internal/queue"
	"github.com/unikiala/unikiala-api/internal/router"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)
	log.Info("starting unikiala api", slog.String("env", cfg.Env))

	db := openBackendDB(cfg.DB, log)
	if db != nil {
		defer db.Close()
	}

	rdb := config.NewRedisClient(cfg.Redis, log)
	if rdb != nil {
		defer rdb.Close()
	} else {
		log.Warn("redis unavailable, local state kept in memory")
	}

	clk := clock.NewSystem()
	store := localstore.New(rdb)
	hosted := backend.New(db, backend.Options{
		BcryptCost: cfg.BcryptCost,
		SessionTTL: cfg.SessionTTL,
		ResetTTL:   cfg.ResetTokenTTL,
		Clock:      clk,
	})
	pub := queue.New(cfg.RabbitURL, log)

	catalogSvc := catalog.New(log, store, hosted, pub, clk)
	authSvc := auth.New(log, store, hosted, pub, clk, auth.Options{
		AdminEmail:     cfg.AdminEmail,
		AdminPassword:  cfg.AdminPassword,
		BcryptCost:     cfg.BcryptCost,
		SessionTTL:     cfg.SessionTTL,
		ResetURLPrefix: cfg.ResetURLPrefix,
	})
	navCtl := navigation.NewController(log, store)
	checkouts := checkout.NewManager(log, checkout.Options{
		Fees: checkout.Fees{
			SameRegion:  cfg.Checkout.FeeSameRegion,
			OtherRegion: cfg.Checkout.FeeOtherRegion,
		},
		PaymentDelay: cfg.Checkout.PaymentSimDelay,
		Clock:        clk,
	})
	dashboards := dashboard.New(log, store, catalogSvc, hosted, clk)
	ai := aitext.New(log, newModel(cfg.AIKey(), log))

	corsMw := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Client-Id"},
		AllowCredentials: false,
	})

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(echo.WrapMiddleware(corsMw.Handler))
	e.Use(middleware.NewTokenBucket(cfg.RateLimit, rdb))

	purger := middleware.NewCachePurger(cfg.Cache, rdb, log)

	router.RegisterRoutes(e, &handler.StatusHandler{Backend: hosted, AI: ai})
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, authSvc), cfg.JWTSecret)
	router.RegisterPublic(e, handler.NewPublicHandler(catalogSvc), middleware.NewRedisCache(cfg.Cache, rdb), cfg.JWTSecret, authSvc)
	router.RegisterNavigation(e, handler.NewNavigationHandler(navCtl), cfg.JWTSecret)
	router.RegisterCheckout(e, handler.NewCheckoutHandler(log, catalogSvc, checkouts, wsOriginCheck(corsMw)), cfg.JWTSecret)
	router.RegisterOrganizer(e, handler.NewOrganizerHandler(authSvc, catalogSvc, dashboards, ai, purger), cfg.JWTSecret, authSvc)
	router.RegisterAdmin(e, handler.NewAdminHandler(catalogSvc, dashboards, purger), cfg.JWTSecret, authSvc)

	addr := ":" + cfg.Port
	srvErr := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("addr", addr))
		srvErr <- e.Start(addr)
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", sl.Err(err))
		}
	case <-stopCtx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server shutdown error", sl.Err(err))
	}
	checkouts.Shutdown()
	log.Info("server stopped")
}

// openBackendDB connects the hosted backend and applies migrations. It
// returns nil when no database is configured or it cannot be reached; the
// service then runs on local state only.
func openBackendDB(cfg config.DBConfig, log *slog.Logger) *sql.DB {
	if !cfg.Configured() {
		log.Warn("DB_HOST not set, hosted backend not configured")
		return nil
	}
	db, err := database.Open(cfg)
	if err != nil {
		log.Error("hosted backend unreachable", sl.Err(err))
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		log.Error("apply migrations", sl.Err(err))
		_ = db.Close()
		return nil
	}
	return db
}

// newModel returns the hosted text model, or nil when no key is set.
func newModel(key string, log *slog.Logger) aitext.Model {
	if key == "" {
		log.Warn("no AI key, description helper uses fallbacks")
		return nil
	}
	m, err := aitext.NewGemini(context.Background(), key)
	if err != nil {
		log.Error("ai client", sl.Err(err))
		return nil
	}
	return m
}

// wsOriginCheck applies the CORS origin list to websocket upgrades. Clients
// that send no Origin header are not browsers and are let through.
func wsOriginCheck(c *cors.Cors) func(*http.Request) bool {
	return func(r *http.Request) bool {
		if r.Header.Get("Origin") == "" {
			return true
		}
		return c.OriginAllowed(r)
	}
}
