// Package validation holds input checks shared by the API client and the CLI:
// base host URLs, EAN codes and JSON payload sizes.
package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// MaxJSONPayload caps JSON parameter documents read by the CLI.
const MaxJSONPayload = 1048576

// ValidateBaseHost checks an API base host such as "https://api.econtract.be":
//   - http or https scheme
//   - a hostname
//   - no query string or fragment, since paths are appended to it
//   - not a cloud metadata endpoint
func ValidateBaseHost(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: only http and https are allowed, got %q", parsedURL.Scheme)
	}
	hostname := parsedURL.Hostname()
	if hostname == "" {
		return fmt.Errorf("URL must contain a hostname")
	}
	if parsedURL.RawQuery != "" || parsedURL.Fragment != "" {
		return fmt.Errorf("URL must not contain a query string or fragment")
	}
	if isCloudMetadata(hostname) {
		return fmt.Errorf("cloud metadata endpoints are not allowed")
	}
	return nil
}

// ValidateJSONPayload rejects empty or oversized JSON documents.
func ValidateJSONPayload(payload []byte) error {
	if len(strings.TrimSpace(string(payload))) == 0 {
		return fmt.Errorf("JSON payload is empty")
	}
	if len(payload) > MaxJSONPayload {
		return fmt.Errorf("JSON payload exceeds maximum size of %d bytes (got %d)", MaxJSONPayload, len(payload))
	}
	return nil
}

func isCloudMetadata(hostname string) bool {
	lowercase := strings.ToLower(hostname)
	switch lowercase {
	case "169.254.169.254", "metadata.google.internal", "metadata", "instance-data", "fd00:ec2::254":
		return true
	}
	return strings.HasSuffix(lowercase, ".metadata.google.internal")
}
