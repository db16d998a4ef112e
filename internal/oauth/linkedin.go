package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/wrale/linkedin-oauth/internal/linkedin"
)

const tracerName = "github.com/wrale/linkedin-oauth/internal/oauth"

// Span attribute keys. Never attach token or secret values.
const (
	attrOperation  = "oauth.operation"
	attrClientID   = "oauth.client_id"
	attrGrantType  = "oauth.grant_type"
	attrStatusCode = "http.status_code"
	attrAttempt    = "oauth.attempt"
)

// LinkedInProvider implements the Provider interface for LinkedIn
type LinkedInProvider struct {
	assembler    *linkedin.Assembler
	client       *http.Client
	limiter      *rate.Limiter
	maxRetries   int
	newBackOff   func() backoff.BackOff
	discoveryURL string
	logger       *slog.Logger
	tracer       trace.Tracer
	metrics      *providerMetrics
}

var (
	_ Provider           = (*LinkedInProvider)(nil)
	_ linkedin.Exchanger = (*LinkedInProvider)(nil)
)

// NewLinkedInProvider creates a provider that sends requests built by assembler
func NewLinkedInProvider(assembler *linkedin.Assembler, cfg Config) (*LinkedInProvider, error) {
	if assembler == nil {
		return nil, fmt.Errorf("assembler is required")
	}
	if assembler.Config().APIKey() == "" {
		return nil, fmt.Errorf("client ID is required")
	}

	cfg = cfg.withDefaults()

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	metrics, err := newProviderMetrics(cfg.MeterProvider.Meter(tracerName))
	if err != nil {
		return nil, err
	}

	return &LinkedInProvider{
		assembler:    assembler,
		client:       cfg.HTTPClient,
		limiter:      rate.NewLimiter(limit, cfg.Burst),
		maxRetries:   cfg.MaxRetries,
		newBackOff:   cfg.NewBackOff,
		discoveryURL: cfg.DiscoveryURL,
		logger:       cfg.Logger,
		tracer:       cfg.TracerProvider.Tracer(tracerName),
		metrics:      metrics,
	}, nil
}

// ExchangeCode exchanges an authorization code for tokens
func (p *LinkedInProvider) ExchangeCode(ctx context.Context, code string) (*linkedin.AccessToken, error) {
	const op = "exchange_code"

	ctx, span := p.startSpan(ctx, op)
	defer span.End()
	span.SetAttributes(attribute.String(attrGrantType, linkedin.GrantAuthorizationCode.String()))

	token, err := p.assembler.CompleteAuthorization(ctx, linkedin.ExchangerFunc(
		func(ctx context.Context, req *linkedin.Request) (string, error) {
			body, err := p.send(ctx, op, req)
			return string(body), err
		}), code)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return token, nil
}

// RefreshToken refreshes an access token using a refresh token
func (p *LinkedInProvider) RefreshToken(ctx context.Context, refreshToken string) (*linkedin.AccessToken, error) {
	req, err := p.assembler.RefreshTokenRequest(refreshToken)
	if err != nil {
		return nil, err
	}
	return p.requestToken(ctx, "refresh_token", linkedin.GrantRefreshToken, req)
}

// ClientCredentials obtains an application token with the client credentials grant
func (p *LinkedInProvider) ClientCredentials(ctx context.Context) (*linkedin.AccessToken, error) {
	req := p.assembler.ClientCredentialsRequest()
	return p.requestToken(ctx, "client_credentials", linkedin.GrantClientCredentials, req)
}

// IntrospectToken returns LinkedIn's introspection result for token
func (p *LinkedInProvider) IntrospectToken(ctx context.Context, token string) (*TokenInfo, error) {
	req, err := p.assembler.IntrospectTokenRequest(token)
	if err != nil {
		return nil, err
	}

	ctx, span := p.startSpan(ctx, "introspect_token")
	defer span.End()

	body, err := p.send(ctx, "introspect_token", req)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	var info TokenInfo
	if err := json.Unmarshal(body, &info); err != nil {
		err = fmt.Errorf("parsing introspection response: %w", err)
		recordError(span, err)
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return &info, nil
}

// ValidateToken introspects token and checks it is active and unexpired
func (p *LinkedInProvider) ValidateToken(ctx context.Context, token string) (*TokenInfo, error) {
	info, err := p.IntrospectToken(ctx, token)
	if err != nil {
		return nil, err
	}

	// Check token state
	if !info.Active {
		return nil, ErrInvalidToken
	}
	if exp := info.Expiry(); !exp.IsZero() && time.Now().After(exp) {
		return nil, ErrTokenExpired
	}

	return info, nil
}

// Exchange sends an arbitrary descriptor and returns the raw body
func (p *LinkedInProvider) Exchange(ctx context.Context, req *linkedin.Request) (string, error) {
	body, err := p.send(ctx, "exchange", req)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// CheckHealth verifies LinkedIn's discovery document is reachable
func (p *LinkedInProvider) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.discoveryURL, nil)
	if err != nil {
		return fmt.Errorf("creating health check request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending health check request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: discovery returned %s", ErrProviderUnavailable, resp.Status)
	}
	return nil
}

func (p *LinkedInProvider) requestToken(ctx context.Context, op string, grant linkedin.GrantType, req *linkedin.Request) (*linkedin.AccessToken, error) {
	ctx, span := p.startSpan(ctx, op)
	defer span.End()
	span.SetAttributes(attribute.String(attrGrantType, grant.String()))

	body, err := p.send(ctx, op, req)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	token, err := linkedin.ParseAccessToken(string(body))
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return token, nil
}

// send executes req with rate limiting and retries. 429, 5xx and transport
// failures are retried; any other non-200 response is returned as *Error.
func (p *LinkedInProvider) send(ctx context.Context, op string, req *linkedin.Request) (body []byte, err error) {
	start := time.Now()
	defer func() { p.metrics.record(ctx, op, start, err) }()

	attempt := 0
	operation := func() ([]byte, error) {
		attempt++

		if err := p.limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("waiting for rate limiter: %w", err))
		}

		httpReq, err := req.HTTPRequest(ctx)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		resp, err := p.client.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(ctx.Err())
			}
			return nil, fmt.Errorf("sending %s request: %w", op, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return nil, fmt.Errorf("reading %s response: %w", op, err)
		}

		trace.SpanFromContext(ctx).SetAttributes(
			attribute.Int(attrStatusCode, resp.StatusCode),
			attribute.Int(attrAttempt, attempt),
		)

		if resp.StatusCode == http.StatusOK {
			return body, nil
		}

		oauthErr := parseErrorResponse(resp.StatusCode, body)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return nil, oauthErr
		}
		return nil, backoff.Permanent(oauthErr)
	}

	notify := func(err error, next time.Duration) {
		p.metrics.retried(ctx, op)
		p.logger.Warn("Retrying LinkedIn request",
			"operation", op,
			"attempt", attempt,
			"next_in", next,
			"error", err)
	}

	body, err = backoff.Retry(ctx, operation,
		backoff.WithBackOff(p.newBackOff()),
		backoff.WithMaxTries(uint(p.maxRetries+1)),
		backoff.WithNotify(notify),
	)
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Err
		}
		p.logger.Debug("LinkedIn request failed", "operation", op, "attempts", attempt, "error", err)
		return nil, err
	}

	p.logger.Debug("LinkedIn request succeeded", "operation", op, "attempts", attempt)
	return body, nil
}

func (p *LinkedInProvider) startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, "linkedin."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(attrOperation, op),
			attribute.String(attrClientID, p.assembler.Config().APIKey()),
		),
	)
}

// parseErrorResponse decodes an OAuth error body, tolerating non-JSON bodies.
// LinkedIn API errors carry a "message" instead of "error_description".
func parseErrorResponse(status int, body []byte) *Error {
	oauthErr := &Error{Status: status}

	var payload struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Message          string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return oauthErr
	}

	oauthErr.Code = payload.Error
	oauthErr.Description = payload.ErrorDescription
	if oauthErr.Description == "" {
		oauthErr.Description = payload.Message
	}
	return oauthErr
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
