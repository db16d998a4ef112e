package linkedin

import (
	"fmt"
	"strings"
)

// OAuth 2.0 parameter names
const (
	paramResponseType = "response_type"
	paramClientID     = "client_id"
	paramClientSecret = "client_secret"
	paramRedirectURI  = "redirect_uri"
	paramState        = "state"
	paramScope        = "scope"
	paramGrantType    = "grant_type"
	paramCode         = "code"
	paramRefreshToken = "refresh_token"
	paramToken        = "token"
)

// Assembler builds authorization URLs and token endpoint request descriptors
// from a ServiceConfig. It holds no mutable state.
type Assembler struct {
	cfg       ServiceConfig
	endpoints Endpoints
}

// NewAssembler creates an Assembler for cfg
func NewAssembler(cfg ServiceConfig, opts ...Option) *Assembler {
	a := &Assembler{
		cfg:       cfg,
		endpoints: DefaultEndpoints,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Config returns the service configuration requests are built from
func (a *Assembler) Config() ServiceConfig {
	return a.cfg
}

// Endpoints returns the endpoints requests are addressed to
func (a *Assembler) Endpoints() Endpoints {
	return a.endpoints
}

// AuthorizationURL returns the URL the resource owner is sent to.
// The state value must be generated by the caller; the URL is fully
// determined by its inputs. Empty state or scope values are omitted.
func (a *Assembler) AuthorizationURL(state string, opts ...AuthOption) (string, error) {
	if a.cfg.apiKey == "" {
		return "", fmt.Errorf("%w: api key is required for authorization url", ErrInvalidConfig)
	}
	if a.cfg.redirectURI == "" {
		return "", fmt.Errorf("%w: redirect uri is required for authorization url", ErrInvalidConfig)
	}

	p := authParams{scope: a.cfg.scope}
	for _, opt := range opts {
		opt(&p)
	}

	query := Form{
		{Key: paramResponseType, Value: "code"},
		{Key: paramClientID, Value: a.cfg.apiKey},
		{Key: paramRedirectURI, Value: a.cfg.redirectURI},
	}
	if state != "" {
		query = append(query, Param{Key: paramState, Value: state})
	}
	if p.scope != "" {
		query = append(query, Param{Key: paramScope, Value: p.scope})
	}
	query = append(query, p.extra...)

	// Keep any query the configured endpoint already carries
	sep := "?"
	if strings.Contains(a.endpoints.AuthURL, "?") {
		sep = "&"
	}
	return a.endpoints.AuthURL + sep + query.Encode(), nil
}

// AccessTokenRequest builds the authorization code exchange
func (a *Assembler) AccessTokenRequest(code string) (*Request, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: authorization code is required", ErrInvalidInput)
	}

	return newFormRequest(a.endpoints.TokenURL, Form{
		{Key: paramGrantType, Value: GrantAuthorizationCode.String()},
		{Key: paramCode, Value: code},
		{Key: paramRedirectURI, Value: a.cfg.redirectURI},
		{Key: paramClientID, Value: a.cfg.apiKey},
		{Key: paramClientSecret, Value: a.cfg.apiSecret},
	}), nil
}

// RefreshTokenRequest builds the refresh token exchange
func (a *Assembler) RefreshTokenRequest(refreshToken string) (*Request, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token is required", ErrInvalidInput)
	}

	return newFormRequest(a.endpoints.TokenURL, Form{
		{Key: paramGrantType, Value: GrantRefreshToken.String()},
		{Key: paramRefreshToken, Value: refreshToken},
		{Key: paramClientID, Value: a.cfg.apiKey},
		{Key: paramClientSecret, Value: a.cfg.apiSecret},
	}), nil
}

// ClientCredentialsRequest builds the two-legged client credentials exchange
func (a *Assembler) ClientCredentialsRequest() *Request {
	return newFormRequest(a.endpoints.TokenURL, Form{
		{Key: paramGrantType, Value: GrantClientCredentials.String()},
		{Key: paramClientID, Value: a.cfg.apiKey},
		{Key: paramClientSecret, Value: a.cfg.apiSecret},
	})
}

// IntrospectTokenRequest builds a token introspection call
func (a *Assembler) IntrospectTokenRequest(token string) (*Request, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: token is required for introspection", ErrInvalidInput)
	}

	return newFormRequest(a.endpoints.IntrospectURL, Form{
		{Key: paramClientID, Value: a.cfg.apiKey},
		{Key: paramClientSecret, Value: a.cfg.apiSecret},
		{Key: paramToken, Value: token},
	}), nil
}
