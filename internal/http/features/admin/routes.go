package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the admin moderation routes behind the given middleware.
func (h *Handler) RegisterRoutes(r chi.Router, middlewares ...func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(middlewares...)
		r.Get("/v1/admin/members", h.List)
		r.Patch("/v1/admin/members/{id}/status", h.SetStatus)
	})
}
