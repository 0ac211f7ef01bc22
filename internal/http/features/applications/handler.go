package applications

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tendant/membership-slim/internal/http/features/common"
	"github.com/tendant/membership-slim/internal/http/middleware"
	"github.com/tendant/membership-slim/internal/httputil"
	"github.com/tendant/membership-slim/internal/metrics"
	"github.com/tendant/membership-slim/pkg/domain"
	"github.com/tendant/membership-slim/pkg/membership"
)

// Service is the part of the membership workflow used by visitors.
type Service interface {
	SubmitApplication(ctx context.Context, in membership.ApplicationInput) (*domain.Member, error)
	SubmitQuickJoin(ctx context.Context, principal *domain.Principal) (*domain.Member, error)
	IsAlreadyMember(ctx context.Context, email string) (bool, error)
}

// Handler handles membership application endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
	metrics *metrics.Metrics
}

// NewHandler creates a new applications handler.
func NewHandler(logger *slog.Logger, service Service, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		metrics: m,
	}
}

// ApplicationRequest represents a full application form submission.
type ApplicationRequest struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	LinkedInProfile string `json:"linkedin_profile"`
	AgreedToTerms   bool   `json:"agreed_to_terms"`
	JoinMailingList bool   `json:"join_mailing_list"`
}

// MembershipStatusResponse answers the "already a member" check.
type MembershipStatusResponse struct {
	Email    string `json:"email"`
	IsMember bool   `json:"is_member"`
}

// Submit handles a full application.
// POST /v1/applications
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req ApplicationRequest
	if !httputil.DecodeJSON(w, r, &req) {
		h.metrics.ApplicationSubmitted("form", metrics.OutcomeInvalid)
		return
	}

	member, err := h.service.SubmitApplication(r.Context(), membership.ApplicationInput{
		Name:            req.Name,
		Phone:           req.Phone,
		Email:           req.Email,
		LinkedInProfile: req.LinkedInProfile,
		AgreedToTerms:   req.AgreedToTerms,
		JoinMailingList: req.JoinMailingList,
	})
	if err != nil {
		h.writeSubmitError(w, "form", err)
		return
	}

	h.metrics.ApplicationSubmitted("form", metrics.OutcomeAccepted)
	httputil.JSON(w, http.StatusCreated, common.NewMemberResponse(member))
}

// QuickJoin creates an application from the signed-in visitor's profile.
// POST /v1/applications/quick-join
func (h *Handler) QuickJoin(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	member, err := h.service.SubmitQuickJoin(r.Context(), principal)
	if err != nil {
		h.writeSubmitError(w, "quick_join", err)
		return
	}

	h.metrics.ApplicationSubmitted("quick_join", metrics.OutcomeAccepted)
	httputil.JSON(w, http.StatusCreated, common.NewMemberResponse(member))
}

// Me reports whether the signed-in visitor has already applied.
// GET /v1/applications/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	isMember, err := h.service.IsAlreadyMember(r.Context(), principal.Email)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			httputil.Error(w, http.StatusServiceUnavailable, "data unavailable")
			return
		}
		h.logger.Error("failed to check membership", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to check membership")
		return
	}

	httputil.JSON(w, http.StatusOK, MembershipStatusResponse{
		Email:    principal.Email,
		IsMember: isMember,
	})
}

func (h *Handler) writeSubmitError(w http.ResponseWriter, channel string, err error) {
	var verr *membership.ValidationError
	switch {
	case errors.As(err, &verr):
		h.metrics.ApplicationSubmitted(channel, metrics.OutcomeInvalid)
		httputil.ValidationError(w, verr.Fields)
	case errors.Is(err, domain.ErrMemberAlreadyExists):
		h.metrics.ApplicationSubmitted(channel, metrics.OutcomeDuplicate)
		httputil.Error(w, http.StatusConflict, domain.ErrMemberAlreadyExists.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
	default:
		h.metrics.ApplicationSubmitted(channel, metrics.OutcomeError)
		h.logger.Error("failed to submit application", "error", err, "channel", channel)
		httputil.Error(w, http.StatusInternalServerError, "failed to submit application")
	}
}
