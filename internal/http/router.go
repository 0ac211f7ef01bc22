package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/membership-slim/internal/config"
	"github.com/tendant/membership-slim/internal/http/features/admin"
	"github.com/tendant/membership-slim/internal/http/features/applications"
	"github.com/tendant/membership-slim/internal/http/middleware"
	"github.com/tendant/membership-slim/internal/httputil"
	"github.com/tendant/membership-slim/internal/metrics"
	"github.com/tendant/membership-slim/pkg/membership"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger            *slog.Logger
	MembershipService *membership.Service
	Authenticator     middleware.Authenticator
	Metrics           *metrics.Metrics // nil disables /metrics
	RateLimitConfig   config.RateLimitConfig
	SecurityHeaders   config.SecurityHeadersConfig
	Validation        config.ValidationConfig
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	r.Use(middleware.RequestSizeLimit(cfg.Validation.MaxRequestBodySize))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	// Create rate limiters for different endpoint types
	rateLimiters := middleware.CreateRateLimiters(cfg.RateLimitConfig, cfg.Logger)
	authMiddleware := middleware.Auth(cfg.Authenticator)

	// Public and visitor application routes
	applicationsHandler := applications.NewHandler(cfg.Logger, cfg.MembershipService, cfg.Metrics)
	applicationsHandler.RegisterRoutes(r, authMiddleware, rateLimiters["apply"], rateLimiters["lookup"])

	// Admin moderation routes
	adminHandler := admin.NewHandler(cfg.Logger, cfg.MembershipService, cfg.Metrics)
	adminHandler.RegisterRoutes(r,
		authMiddleware,
		middleware.RequireAdmin(),
		rateLimiters["admin"],
	)

	return r
}
