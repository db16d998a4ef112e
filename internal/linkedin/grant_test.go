package linkedin

import (
	"errors"
	"testing"
)

func TestParseGrantType(t *testing.T) {
	tests := []struct {
		in      string
		want    GrantType
		wantErr bool
	}{
		{in: "authorization_code", want: GrantAuthorizationCode},
		{in: "refresh_token", want: GrantRefreshToken},
		{in: "client_credentials", want: GrantClientCredentials},
		{in: "password", wantErr: true},
		{in: "", wantErr: true},
		{in: "AUTHORIZATION_CODE", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseGrantType(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("ParseGrantType(%q) error = %v, want %v", tt.in, err, ErrInvalidInput)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGrantType(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseGrantType(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if got.String() != tt.in {
				t.Errorf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}
