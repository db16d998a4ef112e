// Package oauth executes LinkedIn OAuth 2.0 request descriptors over HTTP
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wrale/linkedin-oauth/internal/linkedin"
)

// Common errors returned by providers
var (
	ErrInvalidGrant        = errors.New("invalid grant")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRateLimited         = errors.New("oauth provider rate limit exceeded")
	ErrProviderUnavailable = errors.New("oauth provider unavailable")
)

// Error is an unsuccessful token endpoint response
type Error struct {
	Status      int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("oauth request failed: %d %s", e.Status, http.StatusText(e.Status))
	}
	if e.Description == "" {
		return fmt.Sprintf("oauth request failed: %d %s", e.Status, e.Code)
	}
	return fmt.Sprintf("oauth request failed: %d %s: %s", e.Status, e.Code, e.Description)
}

// Is maps the response onto the package's sentinel errors
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidGrant:
		return e.Code == "invalid_grant"
	case ErrInvalidToken:
		return e.Code == "invalid_token"
	case ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	case ErrProviderUnavailable:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}

// TokenInfo is LinkedIn's token introspection response
type TokenInfo struct {
	Active       bool   `json:"active"`
	ClientID     string `json:"client_id,omitempty"`
	AuthorizedAt int64  `json:"authorized_at,omitempty"`
	CreatedAt    int64  `json:"created_at,omitempty"`
	Status       string `json:"status,omitempty"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	Scope        string `json:"scope,omitempty"`
	AuthType     string `json:"auth_type,omitempty"`
}

// Expiry returns ExpiresAt as a time, zero when unset
func (i *TokenInfo) Expiry() time.Time {
	if i.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(i.ExpiresAt, 0)
}

// Provider executes the LinkedIn OAuth flows
type Provider interface {
	// ExchangeCode exchanges an authorization code for tokens
	ExchangeCode(ctx context.Context, code string) (*linkedin.AccessToken, error)

	// RefreshToken obtains a new access token with a refresh token
	RefreshToken(ctx context.Context, refreshToken string) (*linkedin.AccessToken, error)

	// ClientCredentials obtains an application access token
	ClientCredentials(ctx context.Context) (*linkedin.AccessToken, error)

	// IntrospectToken returns the provider's view of a token, active or not
	IntrospectToken(ctx context.Context, token string) (*TokenInfo, error)

	// ValidateToken introspects a token and fails unless it is active and unexpired
	ValidateToken(ctx context.Context, token string) (*TokenInfo, error)

	// CheckHealth verifies the provider is accessible
	CheckHealth(ctx context.Context) error
}
