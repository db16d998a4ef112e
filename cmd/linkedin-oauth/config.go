package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wrale/linkedin-oauth/internal/linkedin"
	"github.com/wrale/linkedin-oauth/internal/oauth"
	"github.com/wrale/linkedin-oauth/internal/validation"
)

// Config holds server configuration loaded from environment variables
type Config struct {
	Port int `envconfig:"PORT" default:"8080"`

	ClientID      string `envconfig:"LINKEDIN_CLIENT_ID" required:"true"`
	ClientSecret  string `envconfig:"LINKEDIN_CLIENT_SECRET" required:"true"`
	RedirectURL   string `envconfig:"LINKEDIN_REDIRECT_URL" required:"true"`
	Scope         string `envconfig:"LINKEDIN_SCOPE" default:"openid profile email"`
	AuthURL       string `envconfig:"LINKEDIN_AUTH_URL"`
	TokenURL      string `envconfig:"LINKEDIN_TOKEN_URL"`
	IntrospectURL string `envconfig:"LINKEDIN_INTROSPECT_URL"`
	DiscoveryURL  string `envconfig:"LINKEDIN_DISCOVERY_URL"`

	// RedisURL enables the shared state store; state is kept in memory when unset
	RedisURL    string        `envconfig:"REDIS_URL"`
	StateSecret string        `envconfig:"STATE_SECRET" required:"true"`
	StateExpiry time.Duration `envconfig:"STATE_EXPIRY" default:"10m"`

	// StateMaxEntries caps pending states in the in-memory store
	StateMaxEntries int `envconfig:"STATE_MAX_ENTRIES" default:"10000"`

	// ServiceAPIKey is the bearer credential callers of /oauth/token and
	// /oauth/introspect must present
	ServiceAPIKey string `envconfig:"SERVICE_API_KEY" required:"true"`

	RequestTimeout    time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	MaxRetries        int           `envconfig:"MAX_RETRIES" default:"3"`
	RequestsPerSecond float64       `envconfig:"REQUESTS_PER_SECOND" default:"0"`
	RequestBurst      int           `envconfig:"REQUEST_BURST" default:"1"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"5s"`
	ReadTimeout       time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout      time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout       time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	HandlerTimeout    time.Duration `envconfig:"HANDLER_TIMEOUT" default:"30s"`
}

// serviceConfig builds the LinkedIn client configuration
func (c Config) serviceConfig() (linkedin.ServiceConfig, error) {
	scopes := linkedin.NewScopeBuilder(validation.SplitScope(c.Scope)...)
	if err := scopes.Validate(); err != nil {
		return linkedin.ServiceConfig{}, fmt.Errorf("invalid LINKEDIN_SCOPE: %w", err)
	}

	return linkedin.NewBuilder().
		APIKey(c.ClientID).
		APISecret(c.ClientSecret).
		Callback(c.RedirectURL).
		DefaultScopes(scopes).
		Build()
}

// endpoints returns the LinkedIn endpoints with unset URLs left to the defaults
func (c Config) endpoints() linkedin.Endpoints {
	return linkedin.Endpoints{
		AuthURL:       c.AuthURL,
		TokenURL:      c.TokenURL,
		IntrospectURL: c.IntrospectURL,
	}
}

// providerConfig returns the transport settings for the LinkedIn provider
func (c Config) providerConfig(logger *slog.Logger) oauth.Config {
	maxRetries := c.MaxRetries
	if maxRetries == 0 {
		// Zero in the environment means no retries, not the provider default
		maxRetries = -1
	}
	return oauth.Config{
		Timeout:           c.RequestTimeout,
		MaxRetries:        maxRetries,
		RequestsPerSecond: c.RequestsPerSecond,
		Burst:             c.RequestBurst,
		DiscoveryURL:      c.DiscoveryURL,
		Logger:            logger,
	}
}

// parseLogLevel maps LOG_LEVEL onto an slog level
func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}
