// Package app wires the store, services and HTTP engine into one
// application context built once at startup.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/duynhne/jobs-service/config"
	database "github.com/duynhne/jobs-service/internal/core"
	"github.com/duynhne/jobs-service/internal/logger"
	logicv1 "github.com/duynhne/jobs-service/internal/logic/v1"
	"github.com/duynhne/jobs-service/internal/token"
	webv1 "github.com/duynhne/jobs-service/internal/web/v1"
	"github.com/duynhne/jobs-service/middleware"
)

const readinessTimeout = 2 * time.Second

// App holds everything a running service instance shares between requests.
type App struct {
	Engine *gin.Engine

	store          *database.Store
	limiter        middleware.RateLimiter
	isShuttingDown atomic.Bool
}

// New builds the application on top of an opened store.
func New(ctx context.Context, cfg *config.Config, store *database.Store) (*App, error) {
	tokens, err := token.NewManager(cfg.JWT.Secret, cfg.JWT.Lifetime)
	if err != nil {
		return nil, err
	}

	limiter, err := newRateLimiter(ctx, cfg.RateLimit)
	if err != nil {
		return nil, err
	}

	validator := logicv1.NewValidator()
	handler := webv1.NewHandler(
		logicv1.NewAuthService(store.Users(), tokens, validator),
		logicv1.NewJobService(store.Jobs(), validator),
	)

	a := &App{store: store, limiter: limiter}
	a.Engine, err = a.newEngine(cfg, handler, tokens)
	if err != nil {
		_ = limiter.Close()
		return nil, err
	}
	return a, nil
}

func newRateLimiter(ctx context.Context, cfg config.RateLimit) (middleware.RateLimiter, error) {
	if cfg.RedisAddr == "" {
		return middleware.NewMemoryRateLimiter(), nil
	}
	limiter, err := middleware.NewRedisRateLimiter(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info().Str("addr", cfg.RedisAddr).Msg("Redis rate limiter connected")
	return limiter, nil
}

func (a *App) newEngine(cfg *config.Config, handler *webv1.Handler, tokens *token.Manager) (*gin.Engine, error) {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// The auth rate limit keys on ClientIP, so forwarding headers only count
	// when they come from a configured proxy.
	if err := r.SetTrustedProxies(cfg.Service.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.TracingMiddleware(cfg.Service.Name))
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.PrometheusMiddleware())
	r.Use(middleware.SecurityHeaders())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Returns 503 once shutdown has started, to drain traffic before HTTP shutdown.
	r.GET("/ready", func(c *gin.Context) {
		if a.isShuttingDown.Load() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()
		if err := a.store.Ping(ctx); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Msg("Store ping failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "store_unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.RegisterRoutes(
		r.Group("/api/v1"),
		middleware.Authenticate(tokens),
		middleware.RateLimit(a.limiter, cfg.RateLimit.Max, cfg.RateLimit.Window),
	)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Route does not exist"})
	})

	return r, nil
}

// BeginShutdown makes /ready report 503 so load balancers stop routing here.
func (a *App) BeginShutdown() {
	a.isShuttingDown.Store(true)
}

// Close releases the rate limiter and the store.
func (a *App) Close(ctx context.Context) error {
	return errors.Join(a.limiter.Close(), a.store.Close(ctx))
}
