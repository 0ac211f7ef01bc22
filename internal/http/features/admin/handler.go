package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendant/membership-slim/internal/http/features/common"
	"github.com/tendant/membership-slim/internal/http/middleware"
	"github.com/tendant/membership-slim/internal/httputil"
	"github.com/tendant/membership-slim/internal/metrics"
	"github.com/tendant/membership-slim/pkg/domain"
	"github.com/tendant/membership-slim/pkg/membership"
)

// Service is the part of the membership workflow used by admins.
type Service interface {
	ListMembers(ctx context.Context, filter *domain.MemberStatus) (*membership.Roster, error)
	SetStatus(ctx context.Context, principal *domain.Principal, id uuid.UUID, status domain.MemberStatus) (*membership.Transition, error)
}

// Handler handles the admin moderation endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
	metrics *metrics.Metrics
}

// NewHandler creates a new admin handler.
func NewHandler(logger *slog.Logger, service Service, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		metrics: m,
	}
}

// RosterResponse is the admin member listing.
type RosterResponse struct {
	Filter  string                  `json:"filter"`
	Members []common.MemberResponse `json:"members"`
	Stats   domain.Stats            `json:"stats"`
	Views   []membership.View       `json:"views"`
}

// SetStatusRequest represents a moderation decision.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// SetStatusResponse is the result of a moderation decision.
type SetStatusResponse struct {
	Member         common.MemberResponse `json:"member"`
	PreviousStatus domain.MemberStatus   `json:"previous_status"`
	Changed        bool                  `json:"changed"`
	Stats          *domain.Stats         `json:"stats,omitempty"`
}

// List returns the member roster, optionally filtered by status.
// GET /v1/admin/members?status=pending
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := membership.ParseFilter(r.URL.Query().Get("status"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	roster, err := h.service.ListMembers(r.Context(), filter)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			h.logger.Warn("member roster unavailable", "error", err)
			httputil.Error(w, http.StatusServiceUnavailable, "data unavailable")
			return
		}
		h.logger.Error("failed to list members", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to list members")
		return
	}

	name := "all"
	if roster.Filter != nil {
		name = string(*roster.Filter)
	}

	httputil.JSON(w, http.StatusOK, RosterResponse{
		Filter:  name,
		Members: common.NewMemberResponses(roster.Members),
		Stats:   roster.Stats,
		Views:   roster.Views,
	})
}

// SetStatus applies a moderation decision to one member.
// PATCH /v1/admin/members/{id}/status
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid member id")
		return
	}

	var req SetStatusRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if req.Status == "" {
		httputil.Error(w, http.StatusBadRequest, "status is required")
		return
	}

	status, err := domain.ParseMemberStatus(req.Status)
	if err != nil {
		httputil.Error(w, http.StatusUnprocessableEntity, "unknown status")
		return
	}

	t, err := h.service.SetStatus(r.Context(), principal, id, status)
	if err != nil {
		h.writeSetStatusError(w, id, err)
		return
	}

	if t.Changed() {
		h.metrics.StatusChanged(t.From, t.Member.Status)
	}

	httputil.JSON(w, http.StatusOK, SetStatusResponse{
		Member:         common.NewMemberResponse(t.Member),
		PreviousStatus: t.From,
		Changed:        t.Changed(),
		Stats:          t.Stats,
	})
}

func (h *Handler) writeSetStatusError(w http.ResponseWriter, id uuid.UUID, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		httputil.Error(w, http.StatusForbidden, "admin access required")
	case errors.Is(err, domain.ErrMemberNotFound):
		httputil.Error(w, http.StatusNotFound, "member not found")
	case errors.Is(err, domain.ErrInvalidStatus):
		httputil.Error(w, http.StatusUnprocessableEntity, "unknown status")
	case errors.Is(err, domain.ErrInvalidTransition):
		httputil.Error(w, http.StatusUnprocessableEntity, "status change not allowed")
	case errors.Is(err, domain.ErrStatusConflict):
		httputil.Error(w, http.StatusConflict, "member status was changed by someone else, reload and try again")
	case errors.Is(err, domain.ErrStoreUnavailable):
		h.logger.Warn("status update failed: store unavailable", "error", err, "member_id", id)
		httputil.Error(w, http.StatusServiceUnavailable, "data unavailable")
	default:
		h.logger.Error("failed to update member status", "error", err, "member_id", id)
		httputil.Error(w, http.StatusInternalServerError, "failed to update member status")
	}
}
