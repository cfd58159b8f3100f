package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/carepoint/hms/internal/domain/aiassist"
	"github.com/carepoint/hms/internal/domain/billing"
	"github.com/carepoint/hms/internal/domain/dashboard"
	"github.com/carepoint/hms/internal/domain/diagnostics"
	"github.com/carepoint/hms/internal/domain/identity"
	"github.com/carepoint/hms/internal/domain/scheduling"
	"github.com/carepoint/hms/internal/platform/db"
	"github.com/carepoint/hms/internal/platform/middleware"
	"github.com/carepoint/hms/internal/platform/telemetry"
)

const (
	version         = "0.1.0"
	maxBodySize     = "1M"
	shutdownTimeout = 10 * time.Second
)

// newServer builds the echo instance with the global middleware chain and
// every domain route mounted under /api/v1.
func newServer(a *app) *echo.Echo {
	cfg := a.cfg

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	metrics := middleware.NewHTTPMetrics("hms")

	e.Use(middleware.Recovery(a.logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(a.logger))
	e.Use(telemetry.TracingMiddleware())
	e.Use(metrics.Middleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderXRequestID},
	}))
	e.Use(middleware.SecurityHeaders("/api/"))
	e.Use(echomw.BodyLimit(maxBodySize))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
			"storage": cfg.StorageDriver,
		})
	})
	if a.pool != nil {
		e.GET("/health/db", db.HealthHandler(a.pool))
		metrics.Registry().MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "hms",
			Name:      "db_pool_total_conns",
			Help:      "Open connections in the database pool",
		}, func() float64 { return float64(a.pool.Stat().TotalConns()) }))
	}
	e.GET("/metrics", metrics.Handler())

	api := e.Group("/api/v1")
	api.Use(middleware.RequestTimeout(cfg.Timeout()))
	api.Use(middleware.RateLimit(rateLimitConfig(cfg.RateLimitRPS, cfg.RateLimitBurst)))

	// AI endpoints share a stricter bucket on top of the global one.
	aiLimit := middleware.RateLimit(rateLimitConfig(cfg.AIRateRPS, cfg.AIRateBurst))

	identity.NewHandler(a.identity).RegisterRoutes(api)
	scheduling.NewHandler(a.scheduling).RegisterRoutes(api)
	billing.NewHandler(a.billing).RegisterRoutes(api)
	diagnostics.NewHandler(a.diagnostics).RegisterRoutes(api, aiLimit)
	dashboard.NewHandler(a.dashboard).RegisterRoutes(api)
	aiassist.NewHandler(a.actions, a.identity).RegisterRoutes(api, aiLimit)

	return e
}

func rateLimitConfig(rps float64, burst int) middleware.RateLimitConfig {
	rl := middleware.DefaultRateLimitConfig()
	if rps > 0 {
		rl.RequestsPerSecond = rps
	}
	if burst > 0 {
		rl.BurstSize = burst
	}
	return rl
}

// runServer serves until SIGINT/SIGTERM, then drains in-flight requests and
// flushes telemetry.
func runServer(ctx context.Context, a *app, tp *telemetry.Provider) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e := newServer(a)
	addr := ":" + a.cfg.Port

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info().Str("addr", addr).Str("storage", a.cfg.StorageDriver).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info().Msg("shutting down server")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := e.Shutdown(sctx)
		if terr := tp.Shutdown(sctx); terr != nil {
			a.logger.Warn().Err(terr).Msg("telemetry shutdown failed")
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info().Msg("server stopped")
	return nil
}
