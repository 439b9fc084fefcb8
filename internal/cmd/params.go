package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aanbieders/aanbieders-cli/internal/api"
	"github.com/aanbieders/aanbieders-cli/internal/validation"
)

// paramFlags collects request parameters from a JSON document and from
// repeated -p flags. Flags win over the document.
type paramFlags struct {
	pairs []string
	file  string
}

func (f *paramFlags) register(cmd *cobra.Command) {
	addParamFlag(cmd, &f.pairs)
	cmd.Flags().StringVar(&f.file, "params-file", "", "JSON object of request parameters ('-' for stdin)")
}

func (f *paramFlags) build(cmd *cobra.Command) (*api.Params, error) {
	p := api.NewParams()
	if f.file != "" {
		data, err := readInput(cmd, f.file)
		if err != nil {
			return nil, err
		}
		if err := validation.ValidateJSONPayload(data); err != nil {
			return nil, fmt.Errorf("invalid --params-file: %w", err)
		}
		p, err = api.ParamsFromJSON(data)
		if err != nil {
			return nil, err
		}
	}

	overrides, err := parseParams(f.pairs)
	if err != nil {
		return nil, err
	}
	for _, k := range overrides.Keys() {
		v, _ := overrides.Get(k)
		p.Set(k, v)
	}
	return p, nil
}

// readInput reads a file, or the command's stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "-" {
		data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), validation.MaxJSONPayload+1))
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return data, nil
}
