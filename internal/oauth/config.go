package oauth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DiscoveryURL is LinkedIn's OpenID Connect discovery document, used for health checks
	DiscoveryURL = "https://www.linkedin.com/oauth/.well-known/openid-configuration"

	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 3
	maxResponseSize   = 1 << 20
)

// Config configures a LinkedInProvider
type Config struct {
	// HTTPClient overrides the client built from Timeout
	HTTPClient *http.Client
	Timeout    time.Duration

	// MaxRetries bounds retries of 429, 5xx and transport failures. Zero uses
	// the default; negative disables retries.
	MaxRetries int

	// RequestsPerSecond limits outbound calls; zero means unlimited
	RequestsPerSecond float64
	Burst             int

	DiscoveryURL string
	Logger       *slog.Logger

	// Telemetry providers; the global providers are used when nil
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider

	// NewBackOff creates the retry schedule for one call
	NewBackOff func() backoff.BackOff
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	} else if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.Burst <= 0 {
		c.Burst = 1
	}
	if c.DiscoveryURL == "" {
		c.DiscoveryURL = DiscoveryURL
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.TracerProvider == nil {
		c.TracerProvider = otel.GetTracerProvider()
	}
	if c.MeterProvider == nil {
		c.MeterProvider = otel.GetMeterProvider()
	}
	if c.NewBackOff == nil {
		c.NewBackOff = func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		}
	}
	return c
}
