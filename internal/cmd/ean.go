package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aanbieders/aanbieders-cli/internal/outfmt"
	"github.com/aanbieders/aanbieders-cli/internal/validation"
)

type eanResult struct {
	Code  string
	Valid bool
}

func newEANCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ean",
		Short: "Work with EAN-18 meter codes",
	}
	cmd.AddCommand(newEANValidateCmd())
	return cmd
}

func newEANValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <code>...",
		Short: "Check the check digit of EAN-18 codes",
		Long: `Check the check digit of EAN-18 codes.

Exits 1 when any code is invalid. No request is sent.`,
		Example: "  ab ean validate 541448820044373523",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]eanResult, len(args))
			invalid := 0
			for i, code := range args {
				results[i] = eanResult{Code: code, Valid: validation.ValidateEAN(code)}
				if !results[i].Valid {
					invalid++
				}
			}

			f := newFormatter(cmd)
			if outfmt.FormatFromContext(cmd.Context()) == outfmt.Raw && outfmt.GetQuery(cmd.Context()) == "" {
				for _, r := range results {
					status := "valid"
					if !r.Valid {
						status = "invalid"
					}
					f.Line("%s\t%s", r.Code, status)
				}
			} else {
				values := make([]any, len(results))
				for i, r := range results {
					values[i] = map[string]any{"code": r.Code, "valid": r.Valid}
				}
				if err := f.Output(values); err != nil {
					return err
				}
			}

			if invalid > 0 {
				err := fmt.Errorf("%d of %d EAN codes invalid", invalid, len(args))
				f.Note(err.Error())
				return &handledError{err: err, exitCode: exitGeneric}
			}
			return nil
		},
	}
}
