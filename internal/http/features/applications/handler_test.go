package applications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/membership-slim/internal/http/middleware"
	"github.com/tendant/membership-slim/internal/metrics"
	"github.com/tendant/membership-slim/pkg/domain"
	"github.com/tendant/membership-slim/pkg/membership"
)

type fakeService struct {
	submitErr error
	quickErr  error
	existsErr error
	exists    bool

	gotInput     membership.ApplicationInput
	gotPrincipal *domain.Principal
	gotEmail     string
}

func (f *fakeService) SubmitApplication(ctx context.Context, in membership.ApplicationInput) (*domain.Member, error) {
	f.gotInput = in
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return newMember(in.Name, in.Email), nil
}

func (f *fakeService) SubmitQuickJoin(ctx context.Context, principal *domain.Principal) (*domain.Member, error) {
	f.gotPrincipal = principal
	if f.quickErr != nil {
		return nil, f.quickErr
	}
	m := newMember(principal.Name, principal.Email)
	m.JoinMailingList = true
	return m, nil
}

func (f *fakeService) IsAlreadyMember(ctx context.Context, email string) (bool, error) {
	f.gotEmail = email
	return f.exists, f.existsErr
}

func newMember(name, email string) *domain.Member {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	return &domain.Member{
		ID:            uuid.New(),
		Name:          name,
		Email:         email,
		Phone:         "9876543210",
		Status:        domain.MemberStatusPending,
		AgreedToTerms: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func newTestHandler(svc Service) *Handler {
	return NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc, metrics.New())
}

func withVisitor(req *http.Request) *http.Request {
	p := &domain.Principal{Subject: "user-1", Email: "asha@example.com", Name: "Asha Rao"}
	return req.WithContext(middleware.WithPrincipal(req.Context(), p))
}

const validBody = `{"name":"Asha Rao","phone":"9876543210","email":"asha@example.com","agreed_to_terms":true}`

func TestSubmit(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "accepted",
			body:           validBody,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid json",
			body:           `{invalid}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request body",
		},
		{
			name:           "validation failure",
			body:           `{"name":"A"}`,
			serviceErr:     &membership.ValidationError{Fields: map[string]string{"name": "name must be at least 2 characters"}},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "validation failed",
		},
		{
			name:           "duplicate email",
			body:           validBody,
			serviceErr:     domain.ErrMemberAlreadyExists,
			expectedStatus: http.StatusConflict,
			expectedError:  "email is already registered",
		},
		{
			name:           "store failure",
			body:           validBody,
			serviceErr:     errors.New("connection reset"),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "failed to submit application",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(&fakeService{submitErr: tt.serviceErr})

			req := httptest.NewRequest(http.MethodPost, "/v1/applications", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			handler.Submit(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("Status code = %d, want %d", rec.Code, tt.expectedStatus)
			}

			if tt.expectedError != "" {
				var response map[string]any
				json.NewDecoder(rec.Body).Decode(&response)
				if response["error"] != tt.expectedError {
					t.Errorf("Error = %q, want %q", response["error"], tt.expectedError)
				}
			}
		})
	}
}

func TestSubmit_PassesFormFields(t *testing.T) {
	svc := &fakeService{}
	handler := newTestHandler(svc)

	body := `{"name":"Asha Rao","phone":"9876543210","email":"asha@example.com",` +
		`"linkedin_profile":"https://linkedin.com/in/asha","agreed_to_terms":true,"join_mailing_list":true}`
	req := httptest.NewRequest(http.MethodPost, "/v1/applications", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	handler.Submit(rec, req)

	want := membership.ApplicationInput{
		Name:            "Asha Rao",
		Phone:           "9876543210",
		Email:           "asha@example.com",
		LinkedInProfile: "https://linkedin.com/in/asha",
		AgreedToTerms:   true,
		JoinMailingList: true,
	}
	if svc.gotInput != want {
		t.Errorf("input = %+v, want %+v", svc.gotInput, want)
	}

	var response map[string]any
	json.NewDecoder(rec.Body).Decode(&response)
	if response["status"] != "pending" {
		t.Errorf("status = %v, want pending", response["status"])
	}
}

func TestSubmit_ValidationFields(t *testing.T) {
	verr := &membership.ValidationError{Fields: map[string]string{
		"phone":           "phone must be at least 10 characters",
		"agreed_to_terms": "you must agree to the terms and conditions",
	}}
	handler := newTestHandler(&fakeService{submitErr: verr})

	req := httptest.NewRequest(http.MethodPost, "/v1/applications", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	handler.Submit(rec, req)

	var response struct {
		Fields map[string]string `json:"fields"`
	}
	json.NewDecoder(rec.Body).Decode(&response)
	if len(response.Fields) != 2 {
		t.Errorf("fields = %v, want 2 entries", response.Fields)
	}
}

func TestQuickJoin(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		handler := &Handler{service: nil}

		req := httptest.NewRequest(http.MethodPost, "/v1/applications/quick-join", nil)
		rec := httptest.NewRecorder()

		handler.QuickJoin(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Status code = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("created from profile", func(t *testing.T) {
		svc := &fakeService{}
		handler := newTestHandler(svc)

		req := withVisitor(httptest.NewRequest(http.MethodPost, "/v1/applications/quick-join", nil))
		rec := httptest.NewRecorder()

		handler.QuickJoin(rec, req)

		if rec.Code != http.StatusCreated {
			t.Errorf("Status code = %d, want %d", rec.Code, http.StatusCreated)
		}
		if svc.gotPrincipal == nil || svc.gotPrincipal.Email != "asha@example.com" {
			t.Errorf("principal = %+v", svc.gotPrincipal)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		handler := newTestHandler(&fakeService{quickErr: domain.ErrMemberAlreadyExists})

		req := withVisitor(httptest.NewRequest(http.MethodPost, "/v1/applications/quick-join", nil))
		rec := httptest.NewRecorder()

		handler.QuickJoin(rec, req)

		if rec.Code != http.StatusConflict {
			t.Errorf("Status code = %d, want %d", rec.Code, http.StatusConflict)
		}
	})
}

func TestMe(t *testing.T) {
	tests := []struct {
		name           string
		exists         bool
		err            error
		expectedStatus int
	}{
		{name: "member", exists: true, expectedStatus: http.StatusOK},
		{name: "not a member", exists: false, expectedStatus: http.StatusOK},
		{name: "store unavailable", err: domain.ErrStoreUnavailable, expectedStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{exists: tt.exists, existsErr: tt.err}
			handler := newTestHandler(svc)

			req := withVisitor(httptest.NewRequest(http.MethodGet, "/v1/applications/me", nil))
			rec := httptest.NewRecorder()

			handler.Me(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("Status code = %d, want %d", rec.Code, tt.expectedStatus)
			}
			if svc.gotEmail != "asha@example.com" {
				t.Errorf("looked up %q, want asha@example.com", svc.gotEmail)
			}
			if tt.err != nil {
				return
			}

			var response MembershipStatusResponse
			json.NewDecoder(rec.Body).Decode(&response)
			if response.IsMember != tt.exists {
				t.Errorf("is_member = %v, want %v", response.IsMember, tt.exists)
			}
		})
	}
}
