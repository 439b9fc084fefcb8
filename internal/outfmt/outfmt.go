// Package outfmt renders API responses for the command line.
package outfmt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aanbieders/aanbieders-cli/internal/api"
)

// Format is the output format of the CLI.
type Format int

const (
	// Raw writes the response body exactly as received
	Raw Format = iota
	// JSON re-encodes the decoded response, indented unless compact
	JSON
	// YAML renders the decoded response as YAML
	YAML
)

type (
	formatKey  struct{}
	compactKey struct{}
)

// Parse parses an output format string
func Parse(s string) (Format, error) {
	switch s {
	case "raw", "":
		return Raw, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return Raw, fmt.Errorf("invalid output format: %q (use 'raw', 'json' or 'yaml')", s)
	}
}

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	default:
		return "raw"
	}
}

// Names lists the accepted format names.
var Names = []string{"raw", "json", "yaml"}

// WithFormat adds the output format to the context
func WithFormat(ctx context.Context, f Format) context.Context {
	return context.WithValue(ctx, formatKey{}, f)
}

// FormatFromContext retrieves the output format from context
func FormatFromContext(ctx context.Context) Format {
	if f, ok := ctx.Value(formatKey{}).(Format); ok {
		return f
	}
	return Raw
}

// WithCompact adds the compact flag to the context
func WithCompact(ctx context.Context, compact bool) context.Context {
	return context.WithValue(ctx, compactKey{}, compact)
}

// IsCompact returns true if compact output mode is set in the context
func IsCompact(ctx context.Context) bool {
	if c, ok := ctx.Value(compactKey{}).(bool); ok {
		return c
	}
	return false
}

// NeedsParsedResponse reports whether rendering in ctx needs a decoded body.
func NeedsParsedResponse(ctx context.Context) bool {
	return FormatFromContext(ctx) != Raw || GetQuery(ctx) != ""
}

// WriteJSON writes a value as JSON, indented unless compact is set.
func WriteJSON(w io.Writer, v any, compact bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// WriteYAML writes a decoded response value as YAML. Ordered maps keep their
// key order.
func WriteYAML(w io.Writer, v any) error {
	node, err := api.YAMLNode(v)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return err
	}
	return enc.Close()
}

// WriteRaw writes body followed by a newline when it lacks one.
func WriteRaw(w io.Writer, body []byte) error {
	if _, err := w.Write(body); err != nil {
		return err
	}
	if len(body) > 0 && body[len(body)-1] != '\n' {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}
