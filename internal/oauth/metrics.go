package oauth

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// providerMetrics holds the instruments recorded for LinkedIn calls
type providerMetrics struct {
	calls    metric.Int64Counter
	duration metric.Float64Histogram
	errors   metric.Int64Counter
	retries  metric.Int64Counter
}

func newProviderMetrics(meter metric.Meter) (*providerMetrics, error) {
	m := &providerMetrics{}

	var err error
	m.calls, err = meter.Int64Counter(
		"linkedin.oauth.calls.total",
		metric.WithDescription("Number of LinkedIn OAuth operations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calls.total counter: %w", err)
	}

	m.duration, err = meter.Float64Histogram(
		"linkedin.oauth.duration",
		metric.WithDescription("LinkedIn OAuth operation duration in milliseconds, retries included"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	m.errors, err = meter.Int64Counter(
		"linkedin.oauth.errors.total",
		metric.WithDescription("Number of failed LinkedIn OAuth operations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create errors.total counter: %w", err)
	}

	m.retries, err = meter.Int64Counter(
		"linkedin.oauth.retries.total",
		metric.WithDescription("Number of retried LinkedIn requests"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create retries.total counter: %w", err)
	}

	return m, nil
}

// record reports one finished operation
func (m *providerMetrics) record(ctx context.Context, op string, start time.Time, err error) {
	attrs := metric.WithAttributes(attribute.String(attrOperation, op))

	m.calls.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
	if err != nil {
		m.errors.Add(ctx, 1, attrs)
	}
}

func (m *providerMetrics) retried(ctx context.Context, op string) {
	m.retries.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOperation, op)))
}
