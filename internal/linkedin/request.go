package linkedin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	contentTypeForm = "application/x-www-form-urlencoded"
	contentTypeJSON = "application/json"
)

// Param is a single form or query parameter
type Param struct {
	Key   string
	Value string
}

// Form is an ordered list of parameters. Unlike url.Values it keeps the
// order the parameters were added in when encoded.
type Form []Param

// Get returns the first value for key, or "" if absent
func (f Form) Get(key string) string {
	for _, p := range f {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

// Encode serializes the form as key=value pairs joined by '&', in order
func (f Form) Encode() string {
	var sb strings.Builder
	for i, p := range f {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}

// Values converts the form to url.Values, dropping the ordering
func (f Form) Values() url.Values {
	v := make(url.Values, len(f))
	for _, p := range f {
		v.Add(p.Key, p.Value)
	}
	return v
}

// Request describes an outbound token endpoint call. It is an inert value:
// executing it is left to a transport.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Form   Form
}

// Body returns the form-encoded request body
func (r *Request) Body() string {
	return r.Form.Encode()
}

// HTTPRequest builds an *http.Request for the descriptor without sending it.
// Each call returns a fresh request with its own body reader.
func (r *Request) HTTPRequest(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, strings.NewReader(r.Body()))
	if err != nil {
		return nil, fmt.Errorf("creating http request: %w", err)
	}
	for key, values := range r.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	return req, nil
}

func newFormRequest(endpoint string, form Form) *Request {
	header := make(http.Header)
	header.Set("Content-Type", contentTypeForm)
	header.Set("Accept", contentTypeJSON)

	return &Request{
		Method: http.MethodPost,
		URL:    endpoint,
		Header: header,
		Form:   form,
	}
}
