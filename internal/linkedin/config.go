// Package linkedin assembles LinkedIn OAuth 2.0 (3-legged) requests and parses
// token responses. Nothing in this package performs network I/O: it produces
// request descriptors that a transport executes.
package linkedin

import (
	"errors"
	"fmt"
)

// ServiceConfig holds the client identity used for every request.
// It is immutable once built and safe for concurrent reads.
type ServiceConfig struct {
	redirectURI string
	apiKey      string
	apiSecret   string
	scope       string
}

// RedirectURI returns the registered callback URL
func (c ServiceConfig) RedirectURI() string { return c.redirectURI }

// APIKey returns the client ID
func (c ServiceConfig) APIKey() string { return c.apiKey }

// APISecret returns the client secret
func (c ServiceConfig) APISecret() string { return c.apiSecret }

// Scope returns the default space-delimited scope
func (c ServiceConfig) Scope() string { return c.scope }

// Builder validates and accumulates ServiceConfig fields.
// Setter failures are recorded per field; a later valid call for the same
// field clears the failure.
type Builder struct {
	cfg  ServiceConfig
	errs map[string]error
}

// NewBuilder creates an empty ServiceConfig builder
func NewBuilder() *Builder {
	return &Builder{errs: make(map[string]error)}
}

// APIKey sets the client ID, which must not be empty
func (b *Builder) APIKey(apiKey string) *Builder {
	if b.check("api key", apiKey) {
		b.cfg.apiKey = apiKey
	}
	return b
}

// APISecret sets the client secret, which must not be empty
func (b *Builder) APISecret(apiSecret string) *Builder {
	if b.check("api secret", apiSecret) {
		b.cfg.apiSecret = apiSecret
	}
	return b
}

// Callback sets the redirect URI. It may be left unset for flows without a redirect.
func (b *Builder) Callback(redirectURI string) *Builder {
	b.cfg.redirectURI = redirectURI
	return b
}

// DefaultScope sets the scope requested when no override is given
func (b *Builder) DefaultScope(scope string) *Builder {
	if b.check("scope", scope) {
		b.cfg.scope = scope
	}
	return b
}

// DefaultScopes sets the default scope from a ScopeBuilder
func (b *Builder) DefaultScopes(sb *ScopeBuilder) *Builder {
	if sb == nil {
		return b.DefaultScope("")
	}
	return b.DefaultScope(sb.Build())
}

// Err reports the setter failures recorded so far
func (b *Builder) Err() error {
	// Fixed order keeps the joined message stable
	var errs []error
	for _, field := range []string{"api key", "api secret", "scope"} {
		if err, ok := b.errs[field]; ok {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Build returns the configured ServiceConfig. It fails if any setter failed
// or if the api key, api secret or scope was never set.
func (b *Builder) Build() (ServiceConfig, error) {
	if err := b.Err(); err != nil {
		return ServiceConfig{}, err
	}

	var missing []error
	if b.cfg.apiKey == "" {
		missing = append(missing, fmt.Errorf("%w: api key is required", ErrInvalidConfig))
	}
	if b.cfg.apiSecret == "" {
		missing = append(missing, fmt.Errorf("%w: api secret is required", ErrInvalidConfig))
	}
	if b.cfg.scope == "" {
		missing = append(missing, fmt.Errorf("%w: scope is required", ErrInvalidConfig))
	}
	if len(missing) > 0 {
		return ServiceConfig{}, errors.Join(missing...)
	}

	return b.cfg, nil
}

// check records or clears the failure for a required field
func (b *Builder) check(field, value string) bool {
	if value == "" {
		b.errs[field] = fmt.Errorf("%w: invalid %s", ErrInvalidConfig, field)
		return false
	}
	delete(b.errs, field)
	return true
}
