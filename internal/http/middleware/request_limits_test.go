package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tendant/membership-slim/internal/httputil"
)

func TestRequestSizeLimit(t *testing.T) {
	// Decodes an application body the way the handlers do.
	handler := RequestSizeLimit(128)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		}
		if !httputil.DecodeJSON(w, r, &req) {
			return
		}
		httputil.JSON(w, http.StatusCreated, req)
	}))

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "application within limit",
			body:       `{"name":"Asha Rao","email":"asha@example.com"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "oversized application",
			body:       `{"name":"` + strings.Repeat("a", 200) + `","email":"asha@example.com"}`,
			wantStatus: http.StatusRequestEntityTooLarge,
			wantError:  "request body too large",
		},
		{
			name:       "malformed application within limit",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/applications", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantError == "" {
				return
			}
			var resp httputil.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if resp.Error != tt.wantError {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantError)
			}
		})
	}
}
