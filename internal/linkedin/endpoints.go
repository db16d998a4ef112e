package linkedin

import (
	oauth2linkedin "golang.org/x/oauth2/linkedin"
)

// IntrospectURL is LinkedIn's token introspection endpoint
const IntrospectURL = "https://www.linkedin.com/oauth/v2/introspectToken"

// Endpoints are the LinkedIn URLs requests are addressed to
type Endpoints struct {
	AuthURL       string
	TokenURL      string
	IntrospectURL string
}

// DefaultEndpoints are LinkedIn's production OAuth 2.0 endpoints
var DefaultEndpoints = Endpoints{
	AuthURL:       oauth2linkedin.Endpoint.AuthURL,
	TokenURL:      oauth2linkedin.Endpoint.TokenURL,
	IntrospectURL: IntrospectURL,
}

// withDefaults fills unset URLs from DefaultEndpoints
func (e Endpoints) withDefaults() Endpoints {
	if e.AuthURL == "" {
		e.AuthURL = DefaultEndpoints.AuthURL
	}
	if e.TokenURL == "" {
		e.TokenURL = DefaultEndpoints.TokenURL
	}
	if e.IntrospectURL == "" {
		e.IntrospectURL = DefaultEndpoints.IntrospectURL
	}
	return e
}
