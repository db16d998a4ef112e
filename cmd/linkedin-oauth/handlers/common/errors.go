package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/wrale/linkedin-oauth/internal/linkedin"
	"github.com/wrale/linkedin-oauth/internal/oauth"
)

// OAuth 2.0 error codes per RFC 6749 section 5.2
const (
	ErrorCodeInvalidRequest         = "invalid_request"
	ErrorCodeInvalidClient          = "invalid_client"
	ErrorCodeInvalidGrant           = "invalid_grant"
	ErrorCodeInvalidToken           = "invalid_token"
	ErrorCodeUnsupportedGrant       = "unsupported_grant_type"
	ErrorCodeAccessDenied           = "access_denied"
	ErrorCodeServerError            = "server_error"
	ErrorCodeTemporarilyUnavailable = "temporarily_unavailable"
)

// ErrorResponse is an RFC 6749 compliant error body
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// SetJSONHeaders sets required headers for token responses per RFC 6749 section 5.1
func SetJSONHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "application/json")
}

// WriteError sends a 400 error response
func WriteError(w http.ResponseWriter, code string, description string) {
	WriteErrorStatus(w, http.StatusBadRequest, code, description)
}

// WriteErrorStatus sends an error response with the given status
func WriteErrorStatus(w http.ResponseWriter, status int, code string, description string) {
	// First set required headers
	SetJSONHeaders(w)

	response := ErrorResponse{
		Error:            code,
		ErrorDescription: strings.TrimSpace(description),
	}

	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		WriteJSONError(w, err)
		return
	}
}

// WriteJSON sends v as a 200 JSON response
func WriteJSON(w http.ResponseWriter, v any) {
	SetJSONHeaders(w)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		WriteJSONError(w, err)
	}
}

// WriteJSONError handles JSON encoding failures with a standardized response
func WriteJSONError(w http.ResponseWriter, err error) {
	// Headers must be set here since they weren't set by caller due to error
	SetJSONHeaders(w)
	w.WriteHeader(http.StatusInternalServerError)

	// Create error response manually since JSON encoding failed
	errResponse := []byte(`{"error":"server_error","error_description":"Failed to encode response"}`)
	if _, writeErr := w.Write(errResponse); writeErr != nil {
		return
	}
}

// WriteProviderError maps an assembly or provider failure to an OAuth error response
func WriteProviderError(w http.ResponseWriter, err error) {
	var oauthErr *oauth.Error

	switch {
	case errors.Is(err, linkedin.ErrInvalidInput):
		WriteError(w, ErrorCodeInvalidRequest, "A required parameter is missing")
	case errors.Is(err, oauth.ErrRateLimited):
		WriteErrorStatus(w, http.StatusTooManyRequests, ErrorCodeTemporarilyUnavailable,
			"LinkedIn rate limit exceeded, retry later")
	case errors.Is(err, oauth.ErrProviderUnavailable):
		WriteErrorStatus(w, http.StatusBadGateway, ErrorCodeTemporarilyUnavailable,
			"LinkedIn is temporarily unavailable")
	case errors.As(err, &oauthErr):
		code := oauthErr.Code
		if code == "" {
			code = ErrorCodeInvalidRequest
		}
		WriteErrorStatus(w, oauthErr.Status, code, oauthErr.Description)
	case errors.Is(err, linkedin.ErrMalformedResponse):
		WriteErrorStatus(w, http.StatusBadGateway, ErrorCodeServerError,
			"LinkedIn returned an unreadable token response")
	default:
		WriteErrorStatus(w, http.StatusInternalServerError, ErrorCodeServerError,
			"An unexpected error occurred processing the request")
	}
}
