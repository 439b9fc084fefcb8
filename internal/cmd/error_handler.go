package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aanbieders/aanbieders-cli/internal/api"
	"github.com/aanbieders/aanbieders-cli/internal/config"
)

// maxBodyInError caps how much of a failing response body is echoed.
const maxBodyInError = 512

// HandleError processes an error and returns a user-friendly message with suggestions
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder

	var cfgErr *api.ConfigError
	var encErr *api.EncodingError
	var transportErr *api.TransportError
	var parseErr *api.ResponseParseError

	switch {
	case errors.Is(err, config.ErrNotConfigured):
		msg.WriteString("No API credentials configured.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: ab auth login --key <key> --secret <secret>\n")
		msg.WriteString("  - Or export AANBIEDERS_KEY and AANBIEDERS_SECRET\n")

	case errors.As(err, &cfgErr):
		fmt.Fprintf(&msg, "Error: %s\n", cfgErr.Error())
		if cfgErr.Field == "key" || cfgErr.Field == "secret" {
			msg.WriteString("\nSuggestions:\n")
			msg.WriteString("  - Check the stored profile: ab auth status\n")
		}

	case errors.As(err, &encErr):
		fmt.Fprintf(&msg, "Error: %s\n\n", encErr.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Values nest one level deep: key=value, repeated key=value, or key[sub]=value\n")

	case errors.As(err, &parseErr):
		fmt.Fprintf(&msg, "Error: %s\n", parseErr.Error())
		if body := snippet(parseErr.Body); body != "" {
			fmt.Fprintf(&msg, "Response body: %s\n", body)
		}
		msg.WriteString("\nSuggestions:\n")
		msg.WriteString("  - Use --output raw to see the body as sent\n")

	case errors.As(err, &transportErr) && transportErr.StatusCode != 0:
		fmt.Fprintf(&msg, "API error (HTTP %d) on %s %s", transportErr.StatusCode, transportErr.Method, transportErr.Path)
		if body := snippet(transportErr.Body); body != "" {
			fmt.Fprintf(&msg, ": %s", body)
		}
		msg.WriteString("\n\n")
		msg.WriteString(suggestionsForStatusCode(transportErr.StatusCode))

	case errors.As(err, &transportErr):
		switch {
		case transportErr.Canceled():
			msg.WriteString("Request canceled.\n")
		case transportErr.Timeout():
			msg.WriteString("Request timed out.\n\n")
			msg.WriteString("Suggestions:\n")
			msg.WriteString("  - Increase --timeout\n")
		case strings.Contains(err.Error(), "no such host"):
			msg.WriteString("DNS resolution failed.\n\n")
			msg.WriteString("Suggestions:\n")
			msg.WriteString("  - Check the --host spelling\n")
		default:
			fmt.Fprintf(&msg, "Connection failed: %v\n\n", transportErr.Err)
			msg.WriteString("Suggestions:\n")
			msg.WriteString("  - Check your network connection\n")
			msg.WriteString("  - Verify the host: ab auth status\n")
		}

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

func suggestionsForStatusCode(code int) string {
	var suggestions strings.Builder
	suggestions.WriteString("Suggestions:\n")

	switch {
	case code == 401 || code == 403:
		suggestions.WriteString("  - Your API key or secret may be wrong\n")
		suggestions.WriteString("  - Signatures include the current time, so check the system clock\n")
	case code == 404:
		suggestions.WriteString("  - The resource doesn't exist\n")
		suggestions.WriteString("  - Check the ID is correct\n")
	case code == 400 || code == 422:
		suggestions.WriteString("  - Check your request parameters\n")
	case code >= 500:
		suggestions.WriteString("  - Server error - not your fault\n")
		suggestions.WriteString("  - Wait and retry\n")
	default:
		suggestions.WriteString("  - Use --debug for more details\n")
	}
	return suggestions.String()
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxBodyInError {
		s = s[:maxBodyInError] + "..."
	}
	return s
}
