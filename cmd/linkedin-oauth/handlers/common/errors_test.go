package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wrale/linkedin-oauth/internal/linkedin"
	"github.com/wrale/linkedin-oauth/internal/oauth"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name        string
		code        string
		description string
		wantStatus  int
		wantHeaders map[string]string
	}{
		{
			name:        "basic error",
			code:        "invalid_request",
			description: "Missing required parameter",
			wantStatus:  http.StatusBadRequest,
			wantHeaders: map[string]string{
				"Cache-Control": "no-store",
				"Content-Type":  "application/json",
			},
		},
		{
			name:        "error without description",
			code:        "access_denied",
			description: "",
			wantStatus:  http.StatusBadRequest,
			wantHeaders: map[string]string{
				"Cache-Control": "no-store",
				"Content-Type":  "application/json",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.code, tt.description)

			// Check status code
			if got := w.Code; got != tt.wantStatus {
				t.Errorf("WriteError() status = %v, want %v", got, tt.wantStatus)
			}

			// Check headers
			for k, v := range tt.wantHeaders {
				if got := w.Header().Get(k); got != v {
					t.Errorf("WriteError() header[%s] = %v, want %v", k, got, v)
				}
			}

			// Check response body
			var resp ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}

			if resp.Error != tt.code {
				t.Errorf("WriteError() error = %v, want %v", resp.Error, tt.code)
			}
			if resp.ErrorDescription != tt.description {
				t.Errorf("WriteError() description = %v, want %v",
					resp.ErrorDescription, tt.description)
			}
		})
	}
}

func TestWriteJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSONError(w, errors.New("encode failure"))

	// Check status and headers
	if w.Code != http.StatusInternalServerError {
		t.Errorf("WriteJSONError() status = %v, want %v", w.Code,
			http.StatusInternalServerError)
	}
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("WriteJSONError() Cache-Control = %v, want no-store", got)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Error != "server_error" {
		t.Errorf("WriteJSONError() error = %v, want server_error", resp.Error)
	}
}

func TestWriteProviderError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantDesc   string
	}{
		{
			name:       "missing input",
			err:        fmt.Errorf("%w: refresh token is required", linkedin.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_request",
			wantDesc:   "A required parameter is missing",
		},
		{
			name:       "invalid grant passthrough",
			err:        &oauth.Error{Status: 400, Code: "invalid_grant", Description: "code expired"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_grant",
			wantDesc:   "code expired",
		},
		{
			name:       "linkedin error without code",
			err:        &oauth.Error{Status: 401, Description: "Invalid access token"},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "invalid_request",
			wantDesc:   "Invalid access token",
		},
		{
			name:       "rate limited",
			err:        &oauth.Error{Status: 429},
			wantStatus: http.StatusTooManyRequests,
			wantCode:   "temporarily_unavailable",
			wantDesc:   "LinkedIn rate limit exceeded, retry later",
		},
		{
			name:       "provider down",
			err:        &oauth.Error{Status: 503},
			wantStatus: http.StatusBadGateway,
			wantCode:   "temporarily_unavailable",
			wantDesc:   "LinkedIn is temporarily unavailable",
		},
		{
			name:       "malformed token",
			err:        fmt.Errorf("%w: missing accessToken", linkedin.ErrMalformedResponse),
			wantStatus: http.StatusBadGateway,
			wantCode:   "server_error",
			wantDesc:   "LinkedIn returned an unreadable token response",
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "server_error",
			wantDesc:   "An unexpected error occurred processing the request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteProviderError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var resp ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Error != tt.wantCode {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantCode)
			}
			if resp.ErrorDescription != tt.wantDesc {
				t.Errorf("error_description = %q, want %q", resp.ErrorDescription, tt.wantDesc)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, map[string]string{"status": "ok"})

	if w.Code != http.StatusOK {
		t.Errorf("WriteJSON() status = %v, want 200", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("WriteJSON() Content-Type = %v", got)
	}
	if got := w.Body.String(); got != "{\"status\":\"ok\"}\n" {
		t.Errorf("WriteJSON() body = %q", got)
	}
}
