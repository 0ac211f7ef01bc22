// Package community provides an embeddable membership application and
// moderation API.
//
// Setup:
//
//  1. Run migrations from migrations/ folder using your preferred tool
//  2. Create a Community instance and mount routes
//
// Basic usage:
//
//	db, _ := sql.Open("postgres", "postgres://localhost/myapp?sslmode=disable")
//
//	c, err := community.New(community.Config{
//	    DB:        db,
//	    JWTSecret: "shared-secret-with-your-identity-provider",
//	})
//	if err != nil {
//	    log.Fatal(err) // Will fail if migrations haven't been run
//	}
//
//	r := chi.NewRouter()
//	r.Mount("/community", c.Router())
//	http.ListenAndServe(":8080", r)
package community

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/tendant/membership-slim/internal/http/features/admin"
	"github.com/tendant/membership-slim/internal/http/features/applications"
	"github.com/tendant/membership-slim/internal/http/middleware"
	"github.com/tendant/membership-slim/internal/httputil"
	"github.com/tendant/membership-slim/pkg/auth"
	"github.com/tendant/membership-slim/pkg/domain"
	"github.com/tendant/membership-slim/pkg/membership"
	"github.com/tendant/membership-slim/pkg/repository"
)

// Config holds the configuration for the community library.
type Config struct {
	// DB is the database connection (required).
	DB *sql.DB

	// JWTSecret verifies access tokens from the identity provider (required, min 32 chars).
	JWTSecret string

	// JWTIssuer, when set, must match the iss claim.
	JWTIssuer string

	// AdminRole is the role claim that grants moderation rights (default: "admin").
	AdminRole string

	// Notifier receives application and decision events (optional).
	Notifier membership.Notifier

	// BlockDisposableEmail rejects throwaway email domains.
	BlockDisposableEmail bool

	// Now overrides the clock; the month boundary for statistics follows its location.
	Now func() time.Time

	// Logger is the structured logger (default: JSON to stdout).
	Logger *slog.Logger

	// MaxRequestBodySize caps request bodies in bytes (default: 64 KiB).
	MaxRequestBodySize int64
}

// Community is the main membership workflow instance.
type Community struct {
	config   Config
	service  *membership.Service
	verifier *auth.TokenVerifier
}

// New creates a new Community instance with the given configuration.
// Returns an error if the members table doesn't exist.
func New(cfg Config) (*Community, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validateSchema(context.Background(), cfg.DB); err != nil {
		return nil, err
	}

	members := repository.NewMembersRepository(cfg.DB)
	service := membership.NewService(membership.Config{
		Logger:               cfg.Logger,
		BlockDisposableEmail: cfg.BlockDisposableEmail,
		Now:                  cfg.Now,
	}, members, cfg.Notifier)

	verifier := auth.NewTokenVerifier(auth.TokenConfig{
		Secret:    []byte(cfg.JWTSecret),
		Issuer:    cfg.JWTIssuer,
		AdminRole: cfg.AdminRole,
		Leeway:    30 * time.Second,
	})

	return &Community{
		config:   cfg,
		service:  service,
		verifier: verifier,
	}, nil
}

// Router returns a chi router with all membership routes.
// Mount this on your main router:
//
//	r.Mount("/community", c.Router())
//
// Routes:
//
//	POST  /v1/applications                - Submit an application
//	POST  /v1/applications/quick-join     - Apply with the token profile (protected)
//	GET   /v1/applications/me             - Check for an existing application (protected)
//	GET   /v1/admin/members               - List members (admin)
//	PATCH /v1/admin/members/{id}/status   - Change a member's status (admin)
func (c *Community) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.RequestSizeLimit(c.config.MaxRequestBodySize))

	noLimit := middleware.NoRateLimit()
	authMiddleware := c.AuthMiddleware()

	applicationsHandler := applications.NewHandler(c.config.Logger, c.service, nil)
	applicationsHandler.RegisterRoutes(r, authMiddleware, noLimit, noLimit)

	adminHandler := admin.NewHandler(c.config.Logger, c.service, nil)
	adminHandler.RegisterRoutes(r, authMiddleware, middleware.RequireAdmin())

	return r
}

// Service returns the membership service for advanced usage.
func (c *Community) Service() *membership.Service {
	return c.service
}

// AuthMiddleware returns middleware that validates identity provider tokens.
// Use this to protect your own routes:
//
//	r.Group(func(r chi.Router) {
//	    r.Use(c.AuthMiddleware())
//	    r.Get("/protected", handler)
//	})
func (c *Community) AuthMiddleware() func(http.Handler) http.Handler {
	return middleware.Auth(c.verifier)
}

// GetPrincipal extracts the signed-in caller from a request.
// Use after AuthMiddleware.
func GetPrincipal(r *http.Request) (*domain.Principal, bool) {
	return middleware.GetPrincipal(r.Context())
}

// HealthHandler returns a simple health check handler.
func (c *Community) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// Routes registers all membership routes on an http.ServeMux with the given prefix:
//
//	mux := http.NewServeMux()
//	c.Routes(mux, "/community")
func (c *Community) Routes(mux *http.ServeMux, prefix string) {
	mux.Handle(prefix+"/", http.StripPrefix(prefix, c.Router()))
}

const defaultMaxRequestBodySize = 64 * 1024

func validateConfig(cfg *Config) error {
	if cfg.DB == nil {
		return errors.New("community: DB is required")
	}
	if cfg.JWTSecret == "" {
		return errors.New("community: JWTSecret is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return errors.New("community: JWTSecret must be at least 32 characters")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.AdminRole == "" {
		cfg.AdminRole = domain.RoleAdmin
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	if cfg.MaxRequestBodySize <= 0 {
		cfg.MaxRequestBodySize = defaultMaxRequestBodySize
	}
}

// validateSchema checks that required database tables exist.
func validateSchema(ctx context.Context, db *sql.DB) error {
	requiredTables := []string{"members"}

	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = $1
	`

	for _, table := range requiredTables {
		var name string
		err := db.QueryRowContext(ctx, query, table).Scan(&name)
		if err == sql.ErrNoRows {
			return fmt.Errorf("community: missing table '%s' - run migrations first (see migrations/ folder)", table)
		}
		if err != nil {
			return fmt.Errorf("community: failed to check schema: %w", err)
		}
	}

	return nil
}
