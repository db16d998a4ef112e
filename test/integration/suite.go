// Package integration exercises a running linkedin-oauth deployment
package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"
)

// Configuration for integration tests
const (
	// DefaultServiceEndpoint is used when SERVICE_ENDPOINT is unset
	DefaultServiceEndpoint = "http://localhost:8080"

	// Timeouts and delays
	ServiceTimeout = 60 * time.Second
	RetryInterval  = 5 * time.Second
	HealthTimeout  = 2 * time.Second
)

// TestSuite provides shared functionality for integration tests
type TestSuite struct {
	T        *testing.T
	Client   *http.Client
	Ctx      context.Context
	Endpoint string

	// APIKey authenticates calls to /oauth/token and /oauth/introspect
	APIKey string
}

// NewSuite creates a new test suite with timeout
func NewSuite(t *testing.T) *TestSuite {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ServiceTimeout)
	t.Cleanup(cancel)

	endpoint := os.Getenv("SERVICE_ENDPOINT")
	if endpoint == "" {
		endpoint = DefaultServiceEndpoint
	}

	return &TestSuite{
		T: t,
		Client: &http.Client{
			Timeout: 10 * time.Second,
			// Redirects to LinkedIn are asserted, never followed
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		Ctx:      ctx,
		Endpoint: endpoint,
		APIKey:   os.Getenv("SERVICE_API_KEY"),
	}
}

// WaitForService waits for the service health check to pass. It returns at
// once when nothing answers at the endpoint, so unreachable deployments are
// skipped without waiting for ServiceTimeout.
func (s *TestSuite) WaitForService() error {
	status, err := s.checkHealth(HealthTimeout)
	if err != nil {
		return fmt.Errorf("service unreachable: %w", err)
	}
	if status == http.StatusOK {
		return nil
	}

	ticker := time.NewTicker(RetryInterval)
	defer ticker.Stop()

	lastErr := fmt.Errorf("health returned status %d", status)
	for {
		select {
		case <-s.Ctx.Done():
			return fmt.Errorf("timeout waiting for service: %w", lastErr)
		case <-ticker.C:
		}

		status, err := s.checkHealth(s.Client.Timeout)
		switch {
		case err != nil:
			lastErr = fmt.Errorf("checking health: %w", err)
		case status == http.StatusOK:
			return nil
		default:
			lastErr = fmt.Errorf("health returned status %d", status)
		}
	}
}

func (s *TestSuite) checkHealth(timeout time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(s.Ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", s.Endpoint+"/health", nil)
	if err != nil {
		return 0, fmt.Errorf("creating health request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

// BuildURL creates a full URL for an endpoint
func (s *TestSuite) BuildURL(path string, params map[string]string) string {
	if len(params) == 0 {
		return s.Endpoint + path
	}

	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	return s.Endpoint + path + "?" + query.Encode()
}

// Get sends a GET request without following redirects
func (s *TestSuite) Get(path string, params map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(s.Ctx, "GET", s.BuildURL(path, params), nil)
	if err != nil {
		return nil, err
	}
	return s.Client.Do(req)
}

// PostForm sends a form-encoded POST request carrying the suite's API key
func (s *TestSuite) PostForm(path string, form url.Values) (*http.Response, error) {
	return s.postForm(path, form, s.APIKey)
}

// PostFormAnonymous sends a form-encoded POST request without credentials
func (s *TestSuite) PostFormAnonymous(path string, form url.Values) (*http.Response, error) {
	return s.postForm(path, form, "")
}

func (s *TestSuite) postForm(path string, form url.Values, apiKey string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(s.Ctx, "POST", s.Endpoint+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	return s.Client.Do(req)
}
