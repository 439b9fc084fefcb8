package outfmt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aanbieders/aanbieders-cli/internal/api"
)

// Formatter writes responses according to the format, query and compact
// settings carried by its context.
type Formatter struct {
	ctx    context.Context
	out    io.Writer
	errOut io.Writer
}

// NewFormatter creates a new Formatter
func NewFormatter(ctx context.Context, out, errOut io.Writer) *Formatter {
	return &Formatter{ctx: ctx, out: out, errOut: errOut}
}

// Response writes one API response.
func (f *Formatter) Response(resp *api.Response) error {
	if !NeedsParsedResponse(f.ctx) {
		return WriteRaw(f.out, resp.Body)
	}

	value := resp.Value
	if value == nil && len(bytes.TrimSpace(resp.Body)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(resp.Body))
		dec.UseNumber()
		if err := dec.Decode(&value); err != nil {
			return &api.ResponseParseError{Body: resp.Body, Err: err}
		}
	}
	return f.Output(value)
}

// Output writes a decoded value, after applying the query if one is set.
func (f *Formatter) Output(v any) error {
	filtered, err := ApplyQuery(v, GetQuery(f.ctx))
	if err != nil {
		return err
	}

	switch FormatFromContext(f.ctx) {
	case YAML:
		return WriteYAML(f.out, filtered)
	default:
		return WriteJSON(f.out, filtered, IsCompact(f.ctx))
	}
}

// Line writes a plain line of text to stdout.
func (f *Formatter) Line(format string, args ...any) {
	_, _ = fmt.Fprintf(f.out, format+"\n", args...)
}

// Note writes a message to stderr.
func (f *Formatter) Note(message string) {
	_, _ = fmt.Fprintln(f.errOut, message)
}
