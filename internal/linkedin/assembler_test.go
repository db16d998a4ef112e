package linkedin

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testEndpoints = Endpoints{
	AuthURL:       "https://auth.example.com/authorize",
	TokenURL:      "https://auth.example.com/token",
	IntrospectURL: "https://auth.example.com/introspect",
}

func newTestAssembler(t *testing.T) *Assembler {
	t.Helper()

	cfg, err := NewBuilder().
		APIKey("K").
		APISecret("S").
		Callback("https://app/cb").
		DefaultScope("openid profile").
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return NewAssembler(cfg, WithEndpoints(testEndpoints))
}

func TestAssembler_AuthorizationURL(t *testing.T) {
	a := newTestAssembler(t)

	tests := []struct {
		name  string
		state string
		opts  []AuthOption
		want  string
	}{
		{
			name:  "default scope",
			state: "xyz",
			want: "https://auth.example.com/authorize?response_type=code&client_id=K" +
				"&redirect_uri=https%3A%2F%2Fapp%2Fcb&state=xyz&scope=openid+profile",
		},
		{
			name:  "scope override",
			state: "xyz",
			opts:  []AuthOption{WithScope("w_member_social")},
			want: "https://auth.example.com/authorize?response_type=code&client_id=K" +
				"&redirect_uri=https%3A%2F%2Fapp%2Fcb&state=xyz&scope=w_member_social",
		},
		{
			name:  "extra params appended",
			state: "a b&c",
			opts:  []AuthOption{WithAuthParam("prompt", "consent")},
			want: "https://auth.example.com/authorize?response_type=code&client_id=K" +
				"&redirect_uri=https%3A%2F%2Fapp%2Fcb&state=a+b%26c&scope=openid+profile&prompt=consent",
		},
		{
			name:  "reserved params ignored",
			state: "xyz",
			opts: []AuthOption{
				WithAuthParam("client_id", "evil"),
				WithAuthParam("redirect_uri", "https://evil/cb"),
				WithAuthParam("state", "other"),
				WithAuthParam("response_type", "token"),
				WithAuthParam("scope", "w_member_social"),
				WithAuthParam("prompt", "consent"),
			},
			want: "https://auth.example.com/authorize?response_type=code&client_id=K" +
				"&redirect_uri=https%3A%2F%2Fapp%2Fcb&state=xyz&scope=openid+profile&prompt=consent",
		},
		{
			name: "empty state omitted",
			want: "https://auth.example.com/authorize?response_type=code&client_id=K" +
				"&redirect_uri=https%3A%2F%2Fapp%2Fcb&scope=openid+profile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.AuthorizationURL(tt.state, tt.opts...)
			if err != nil {
				t.Fatalf("AuthorizationURL() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("AuthorizationURL() =\n%s\nwant\n%s", got, tt.want)
			}

			// Must round-trip through a URL parser
			u, err := url.Parse(got)
			if err != nil {
				t.Fatalf("url.Parse() error = %v", err)
			}
			if st := u.Query().Get("state"); st != tt.state {
				t.Errorf("state = %q, want %q", st, tt.state)
			}
		})
	}
}

func TestAssembler_AuthorizationURLIdempotent(t *testing.T) {
	a := newTestAssembler(t)

	first, err := a.AuthorizationURL("state-1")
	if err != nil {
		t.Fatalf("AuthorizationURL() error = %v", err)
	}
	second, err := a.AuthorizationURL("state-1")
	if err != nil {
		t.Fatalf("AuthorizationURL() error = %v", err)
	}
	if first != second {
		t.Errorf("AuthorizationURL() not deterministic: %q != %q", first, second)
	}
}

func TestAssembler_AuthorizationURLExistingQuery(t *testing.T) {
	cfg, _ := NewBuilder().APIKey("K").APISecret("S").Callback("https://app/cb").DefaultScope("openid").Build()
	a := NewAssembler(cfg, WithEndpoints(Endpoints{AuthURL: "https://auth.example.com/authorize?tenant=1"}))

	got, err := a.AuthorizationURL("s")
	if err != nil {
		t.Fatalf("AuthorizationURL() error = %v", err)
	}
	want := "https://auth.example.com/authorize?tenant=1&response_type=code&client_id=K" +
		"&redirect_uri=https%3A%2F%2Fapp%2Fcb&state=s&scope=openid"
	if got != want {
		t.Errorf("AuthorizationURL() = %q, want %q", got, want)
	}

	// Unset endpoints fall back to LinkedIn's
	if a.Endpoints().TokenURL != DefaultEndpoints.TokenURL {
		t.Errorf("TokenURL = %q, want %q", a.Endpoints().TokenURL, DefaultEndpoints.TokenURL)
	}
}

func TestAssembler_AuthorizationURLInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  ServiceConfig
	}{
		{
			name: "missing api key",
			cfg:  ServiceConfig{apiSecret: "S", redirectURI: "https://app/cb", scope: "openid"},
		},
		{
			name: "missing redirect uri",
			cfg:  ServiceConfig{apiKey: "K", apiSecret: "S", scope: "openid"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAssembler(tt.cfg).AuthorizationURL("state")
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("AuthorizationURL() error = %v, want %v", err, ErrInvalidConfig)
			}
		})
	}
}

func TestAssembler_AccessTokenRequest(t *testing.T) {
	a := newTestAssembler(t)

	req, err := a.AccessTokenRequest("abc123")
	if err != nil {
		t.Fatalf("AccessTokenRequest() error = %v", err)
	}

	want := "grant_type=authorization_code&code=abc123&redirect_uri=https%3A%2F%2Fapp%2Fcb&client_id=K&client_secret=S"
	if got := req.Body(); got != want {
		t.Errorf("Body() = %q, want %q", got, want)
	}
	checkFormRequest(t, req, testEndpoints.TokenURL)
}

func TestAssembler_RefreshTokenRequest(t *testing.T) {
	a := newTestAssembler(t)

	req, err := a.RefreshTokenRequest("refresh/1")
	if err != nil {
		t.Fatalf("RefreshTokenRequest() error = %v", err)
	}

	want := "grant_type=refresh_token&refresh_token=refresh%2F1&client_id=K&client_secret=S"
	if got := req.Body(); got != want {
		t.Errorf("Body() = %q, want %q", got, want)
	}
	checkFormRequest(t, req, testEndpoints.TokenURL)
}

func TestAssembler_ClientCredentialsRequest(t *testing.T) {
	a := newTestAssembler(t)

	req := a.ClientCredentialsRequest()
	want := Form{
		{Key: "grant_type", Value: "client_credentials"},
		{Key: "client_id", Value: "K"},
		{Key: "client_secret", Value: "S"},
	}
	if diff := cmp.Diff(want, req.Form); diff != "" {
		t.Errorf("Form mismatch (-want +got):\n%s", diff)
	}
	checkFormRequest(t, req, testEndpoints.TokenURL)
}

func TestAssembler_IntrospectTokenRequest(t *testing.T) {
	a := newTestAssembler(t)

	req, err := a.IntrospectTokenRequest("tok1")
	if err != nil {
		t.Fatalf("IntrospectTokenRequest() error = %v", err)
	}

	want := "client_id=K&client_secret=S&token=tok1"
	if got := req.Body(); got != want {
		t.Errorf("Body() = %q, want %q", got, want)
	}
	checkFormRequest(t, req, testEndpoints.IntrospectURL)
}

func TestAssembler_EmptyInput(t *testing.T) {
	a := newTestAssembler(t)

	tests := []struct {
		name string
		call func() (*Request, error)
	}{
		{"authorization code", func() (*Request, error) { return a.AccessTokenRequest("") }},
		{"refresh token", func() (*Request, error) { return a.RefreshTokenRequest("") }},
		{"introspected token", func() (*Request, error) { return a.IntrospectTokenRequest("") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := tt.call()
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error = %v, want %v", err, ErrInvalidInput)
			}
			if req != nil {
				t.Errorf("request = %+v, want nil", req)
			}
		})
	}
}

func TestAssembler_UnconfiguredCredentials(t *testing.T) {
	// A zero config yields empty values rather than failing
	a := NewAssembler(ServiceConfig{})

	req := a.ClientCredentialsRequest()
	want := "grant_type=client_credentials&client_id=&client_secret="
	if got := req.Body(); got != want {
		t.Errorf("Body() = %q, want %q", got, want)
	}
	if req.URL != DefaultEndpoints.TokenURL {
		t.Errorf("URL = %q, want %q", req.URL, DefaultEndpoints.TokenURL)
	}
}

func checkFormRequest(t *testing.T, req *Request, wantURL string) {
	t.Helper()

	if req.Method != http.MethodPost {
		t.Errorf("Method = %q, want POST", req.Method)
	}
	if req.URL != wantURL {
		t.Errorf("URL = %q, want %q", req.URL, wantURL)
	}
	if got := req.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q, want application/x-www-form-urlencoded", got)
	}
}
