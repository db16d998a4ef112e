package test

import (
	"context"

	"github.com/wrale/linkedin-oauth/internal/linkedin"
	"github.com/wrale/linkedin-oauth/internal/oauth"
)

// MockProvider provides a full implementation of oauth.Provider for testing
type MockProvider struct {
	ExchangeCodeFunc      func(ctx context.Context, code string) (*linkedin.AccessToken, error)
	RefreshTokenFunc      func(ctx context.Context, refreshToken string) (*linkedin.AccessToken, error)
	ClientCredentialsFunc func(ctx context.Context) (*linkedin.AccessToken, error)
	IntrospectTokenFunc   func(ctx context.Context, token string) (*oauth.TokenInfo, error)
	ValidateTokenFunc     func(ctx context.Context, token string) (*oauth.TokenInfo, error)
	CheckHealthFunc       func(ctx context.Context) error
}

// Ensure MockProvider implements Provider interface
var _ oauth.Provider = (*MockProvider)(nil)

// ExchangeCode implements oauth.Provider
func (m *MockProvider) ExchangeCode(ctx context.Context, code string) (*linkedin.AccessToken, error) {
	if m.ExchangeCodeFunc != nil {
		return m.ExchangeCodeFunc(ctx, code)
	}
	return nil, nil
}

// RefreshToken implements oauth.Provider
func (m *MockProvider) RefreshToken(ctx context.Context, refreshToken string) (*linkedin.AccessToken, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshToken)
	}
	return nil, nil
}

// ClientCredentials implements oauth.Provider
func (m *MockProvider) ClientCredentials(ctx context.Context) (*linkedin.AccessToken, error) {
	if m.ClientCredentialsFunc != nil {
		return m.ClientCredentialsFunc(ctx)
	}
	return nil, nil
}

// IntrospectToken implements oauth.Provider
func (m *MockProvider) IntrospectToken(ctx context.Context, token string) (*oauth.TokenInfo, error) {
	if m.IntrospectTokenFunc != nil {
		return m.IntrospectTokenFunc(ctx, token)
	}
	return nil, nil
}

// ValidateToken implements oauth.Provider
func (m *MockProvider) ValidateToken(ctx context.Context, token string) (*oauth.TokenInfo, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, token)
	}
	return nil, nil
}

// CheckHealth implements oauth.Provider
func (m *MockProvider) CheckHealth(ctx context.Context) error {
	if m.CheckHealthFunc != nil {
		return m.CheckHealthFunc(ctx)
	}
	return nil
}
