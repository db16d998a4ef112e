// Package token proxies token and introspection requests to LinkedIn
package token

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/wrale/linkedin-oauth/cmd/linkedin-oauth/handlers/common"
	"github.com/wrale/linkedin-oauth/internal/linkedin"
	"github.com/wrale/linkedin-oauth/internal/oauth"
)

// Handler processes token requests per RFC 6749 section 3.2
type Handler struct {
	provider oauth.Provider
	logger   *slog.Logger
}

// Config contains handler configuration options
type Config struct {
	Provider oauth.Provider
	Logger   *slog.Logger
}

// New creates a new token request handler
func New(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		provider: cfg.Provider,
		logger:   logger,
	}
}

// ServeHTTP handles refresh_token and client_credentials grants.
// The authorization_code grant is only served by the callback.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}

	grantType := r.Form.Get("grant_type")
	if grantType == "" {
		common.WriteError(w, common.ErrorCodeInvalidRequest,
			"The grant_type parameter is REQUIRED")
		return
	}

	grant, err := linkedin.ParseGrantType(grantType)
	if err != nil || grant == linkedin.GrantAuthorizationCode {
		common.WriteError(w, common.ErrorCodeUnsupportedGrant,
			"Only refresh_token and client_credentials are supported")
		return
	}

	var token *linkedin.AccessToken
	switch grant {
	case linkedin.GrantRefreshToken:
		refreshToken := r.Form.Get("refresh_token")
		if refreshToken == "" {
			common.WriteError(w, common.ErrorCodeInvalidRequest,
				"The refresh_token parameter is REQUIRED")
			return
		}
		token, err = h.provider.RefreshToken(r.Context(), refreshToken)
	case linkedin.GrantClientCredentials:
		token, err = h.provider.ClientCredentials(r.Context())
	}
	if err != nil {
		h.logger.Warn("Token request failed", "grant_type", grant.String(), "error", err)
		common.WriteProviderError(w, err)
		return
	}

	common.WriteJSON(w, token)
}

// Introspect returns LinkedIn's introspection result for the token parameter.
// With validate=true an inactive or expired token is answered with 401.
func (h *Handler) Introspect(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}

	token := r.Form.Get("token")
	if token == "" {
		common.WriteError(w, common.ErrorCodeInvalidRequest,
			"The token parameter is REQUIRED")
		return
	}

	// validate=true additionally requires the token to be active and unexpired
	validate := r.Form.Get("validate") == "true"

	var info *oauth.TokenInfo
	var err error
	if validate {
		info, err = h.provider.ValidateToken(r.Context(), token)
	} else {
		info, err = h.provider.IntrospectToken(r.Context(), token)
	}
	if validate && (errors.Is(err, oauth.ErrInvalidToken) || errors.Is(err, oauth.ErrTokenExpired)) {
		common.WriteErrorStatus(w, http.StatusUnauthorized, common.ErrorCodeInvalidToken,
			"The token is inactive or expired")
		return
	}
	if err != nil {
		h.logger.Warn("Token introspection failed", "error", err)
		common.WriteProviderError(w, err)
		return
	}

	common.WriteJSON(w, info)
}

// parseForm enforces POST and rejects repeated parameters
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		common.WriteError(w, common.ErrorCodeInvalidRequest, "POST method required")
		return false
	}

	if err := r.ParseForm(); err != nil {
		common.WriteError(w, common.ErrorCodeInvalidRequest, "Invalid request format")
		return false
	}

	for key, values := range r.PostForm {
		if len(values) > 1 {
			common.WriteError(w, common.ErrorCodeInvalidRequest,
				"Parameters MUST NOT be included more than once: "+key)
			return false
		}
	}
	return true
}
