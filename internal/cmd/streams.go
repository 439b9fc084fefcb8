package cmd

import (
	"context"
	"io"
	"os"
)

// Streams holds the input/output streams for commands.
type Streams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// DefaultStreams returns the process streams.
func DefaultStreams() *Streams {
	return &Streams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr}
}

type streamsKey struct{}

// WithStreams makes Execute read and write s instead of the process streams.
func WithStreams(ctx context.Context, s *Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFromContext(ctx context.Context) *Streams {
	s, ok := ctx.Value(streamsKey{}).(*Streams)
	if !ok || s == nil {
		return DefaultStreams()
	}
	out := *s
	if out.In == nil {
		out.In = os.Stdin
	}
	if out.Out == nil {
		out.Out = os.Stdout
	}
	if out.ErrOut == nil {
		out.ErrOut = os.Stderr
	}
	return &out
}
