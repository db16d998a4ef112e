// Package authorize handles the redirect legs of LinkedIn's 3-legged flow
package authorize

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/wrale/linkedin-oauth/cmd/linkedin-oauth/handlers/common"
	"github.com/wrale/linkedin-oauth/internal/linkedin"
	"github.com/wrale/linkedin-oauth/internal/oauth"
	"github.com/wrale/linkedin-oauth/internal/state"
	"github.com/wrale/linkedin-oauth/internal/validation"
)

// StateManager issues and consumes state values
type StateManager interface {
	Generate(ctx context.Context) (string, error)
	Consume(ctx context.Context, state string) error
}

// Handler serves the login redirect and the authorization callback
type Handler struct {
	assembler *linkedin.Assembler
	states    StateManager
	provider  oauth.Provider
	logger    *slog.Logger
}

// Config contains handler configuration
type Config struct {
	Assembler *linkedin.Assembler
	States    StateManager
	Provider  oauth.Provider
	Logger    *slog.Logger
}

// New creates a new authorization handler
func New(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		assembler: cfg.Assembler,
		states:    cfg.States,
		provider:  cfg.Provider,
		logger:    logger,
	}
}

// Login redirects the user agent to LinkedIn's authorization page.
// An optional scope query parameter overrides the configured scope.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var opts []linkedin.AuthOption
	if scope := r.URL.Query().Get("scope"); scope != "" {
		if err := validation.ValidateScope(scope); err != nil {
			common.WriteError(w, common.ErrorCodeInvalidRequest, err.Error())
			return
		}
		opts = append(opts, linkedin.WithScope(scope))
	}

	st, err := h.states.Generate(r.Context())
	if errors.Is(err, state.ErrStoreFull) {
		h.logger.Warn("State store full, rejecting login")
		common.WriteErrorStatus(w, http.StatusServiceUnavailable, common.ErrorCodeTemporarilyUnavailable,
			"Too many pending authorizations, retry later")
		return
	}
	if err != nil {
		h.logger.Error("Failed to generate state", "error", err)
		common.WriteErrorStatus(w, http.StatusInternalServerError, common.ErrorCodeServerError,
			"Unable to start authorization")
		return
	}

	authURL, err := h.assembler.AuthorizationURL(st, opts...)
	if err != nil {
		h.logger.Error("Failed to build authorization URL", "error", err)
		common.WriteErrorStatus(w, http.StatusInternalServerError, common.ErrorCodeServerError,
			"Unable to start authorization")
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback completes the flow: it checks the state, exchanges the code and
// returns the token as JSON.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// LinkedIn reports a declined or failed authorization on the callback
	if code := query.Get("error"); code != "" {
		h.logger.Info("Authorization declined", "error", code)
		common.WriteError(w, code, query.Get("error_description"))
		return
	}

	st := query.Get("state")
	if err := validation.ValidateState(st); err != nil {
		common.WriteError(w, common.ErrorCodeInvalidRequest, "Missing or invalid state parameter")
		return
	}
	if err := h.states.Consume(r.Context(), st); err != nil {
		if errors.Is(err, state.ErrInvalidState) || errors.Is(err, state.ErrStateExpired) {
			common.WriteError(w, common.ErrorCodeInvalidRequest, "Missing or invalid state parameter")
			return
		}
		h.logger.Error("Failed to consume state", "error", err)
		common.WriteErrorStatus(w, http.StatusInternalServerError, common.ErrorCodeServerError,
			"Unable to verify state")
		return
	}

	code := query.Get("code")
	if code == "" {
		common.WriteError(w, common.ErrorCodeInvalidRequest, "No authorization code received")
		return
	}

	token, err := h.provider.ExchangeCode(r.Context(), code)
	if err != nil {
		h.logger.Warn("Authorization code exchange failed", "error", err)
		common.WriteProviderError(w, err)
		return
	}

	common.WriteJSON(w, token)
}
