package validation

import (
	"strings"
	"testing"
)

func TestValidateBaseHost(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{"production", "https://api.econtract.be", ""},
		{"with path", "https://api.econtract.be/v2", ""},
		{"localhost http", "http://localhost:8080", ""},
		{"loopback", "http://127.0.0.1:9000", ""},
		{"empty", "", "cannot be empty"},
		{"blank", "   ", "cannot be empty"},
		{"ftp", "ftp://api.econtract.be", "invalid URL scheme"},
		{"no scheme", "api.econtract.be", "invalid URL scheme"},
		{"no host", "https://", "hostname"},
		{"query", "https://api.econtract.be?x=1", "query string"},
		{"fragment", "https://api.econtract.be#top", "query string"},
		{"aws metadata", "http://169.254.169.254", "metadata"},
		{"gcp metadata", "http://metadata.google.internal", "metadata"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBaseHost(tt.url)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateBaseHost(%q) error = %v, want nil", tt.url, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateBaseHost(%q) error = nil, want %q", tt.url, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateBaseHost(%q) error = %q, want it to contain %q", tt.url, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateJSONPayload(t *testing.T) {
	if err := ValidateJSONPayload([]byte(`{"a":1}`)); err != nil {
		t.Errorf("ValidateJSONPayload(small) error = %v", err)
	}
	if err := ValidateJSONPayload([]byte("  \n")); err == nil {
		t.Error("ValidateJSONPayload(blank) error = nil, want error")
	}
	big := make([]byte, MaxJSONPayload+1)
	for i := range big {
		big[i] = ' '
	}
	big[0] = '{'
	if err := ValidateJSONPayload(big); err == nil {
		t.Error("ValidateJSONPayload(oversized) error = nil, want error")
	}
}
