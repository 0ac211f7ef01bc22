package applications

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers application routes.
// authMiddleware guards the routes that need a signed-in visitor.
func (h *Handler) RegisterRoutes(r chi.Router, authMiddleware, applyLimit, lookupLimit func(http.Handler) http.Handler) {
	r.With(applyLimit).Post("/v1/applications", h.Submit)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.With(applyLimit).Post("/v1/applications/quick-join", h.QuickJoin)
		r.With(lookupLimit).Get("/v1/applications/me", h.Me)
	})
}
