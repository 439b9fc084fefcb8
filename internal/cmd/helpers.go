package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aanbieders/aanbieders-cli/internal/api"
	"github.com/aanbieders/aanbieders-cli/internal/outfmt"
)

// errAlreadyHandled marks an error that RunE already printed to stderr.
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() error {
	return errAlreadyHandled
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// RunE wraps a command so its error is printed once, with suggestions, and
// carries the matching exit code.
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err != nil {
			_, _ = fmt.Fprint(cmd.ErrOrStderr(), HandleError(err))
			return &handledError{err: err, exitCode: ExitCode(err)}
		}
		return nil
	}
}

func newFormatter(cmd *cobra.Command) *outfmt.Formatter {
	return outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// addParamFlag registers the repeatable -p/--param flag.
func addParamFlag(cmd *cobra.Command, target *[]string) {
	cmd.Flags().StringArrayVarP(target, "param", "p", nil,
		"Request parameter key=value (repeat a key for a list, key[sub]=value for a map)")
}

type paramBuilder struct {
	scalars []string
	list    bool
	entries []api.Pair
}

// parseParams turns key=value arguments into request parameters. A key
// given once is a scalar, a repeated key or key[] a list, and key[sub] an
// entry of a map. Keys keep the order of their first appearance.
func parseParams(pairs []string) (*api.Params, error) {
	var order []string
	builders := make(map[string]*paramBuilder)

	for _, pair := range pairs {
		rawKey, value, ok := strings.Cut(pair, "=")
		rawKey = strings.TrimSpace(rawKey)
		if !ok || rawKey == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", pair)
		}

		name, sub, bracketed := splitBracketKey(rawKey)
		if name == "" {
			return nil, fmt.Errorf("invalid parameter %q: empty key", pair)
		}
		b, seen := builders[name]
		if !seen {
			b = &paramBuilder{}
			builders[name] = b
			order = append(order, name)
		}

		switch {
		case bracketed && sub != "":
			if len(b.scalars) > 0 {
				return nil, fmt.Errorf("invalid parameter %q: %s is both a list and a map", pair, name)
			}
			b.entries = append(b.entries, api.Pair{Key: sub, Value: value})
		default:
			if len(b.entries) > 0 {
				return nil, fmt.Errorf("invalid parameter %q: %s is both a list and a map", pair, name)
			}
			b.scalars = append(b.scalars, value)
			if bracketed {
				b.list = true
			}
		}
	}

	p := api.NewParams()
	for _, name := range order {
		b := builders[name]
		switch {
		case len(b.entries) > 0:
			p.Set(name, api.Mapping(b.entries...))
		case b.list || len(b.scalars) > 1:
			p.Set(name, api.List(b.scalars...))
		default:
			p.SetString(name, b.scalars[0])
		}
	}
	return p, nil
}

// splitBracketKey splits "opt[color]" into ("opt", "color", true).
func splitBracketKey(key string) (name, sub string, bracketed bool) {
	open := strings.IndexByte(key, '[')
	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, "", false
	}
	return key[:open], key[open+1 : len(key)-1], true
}
