package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aanbieders/aanbieders-cli/internal/api"
)

type paramsCall func(c *api.Client, ctx context.Context, p *api.Params) (*api.Response, error)

// runRequest builds a client, performs one call and prints the response.
func runRequest(cmd *cobra.Command, call func(ctx context.Context, c *api.Client) (*api.Response, error)) error {
	client, cleanup, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := call(cmd.Context(), client)
	if err != nil {
		return err
	}
	return newFormatter(cmd).Response(resp)
}

// newParamsCmd builds a command for an endpoint that takes only parameters.
func newParamsCmd(use, short, example string, call paramsCall) *cobra.Command {
	var pf paramFlags
	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Example: example,
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			p, err := pf.build(cmd)
			if err != nil {
				return err
			}
			return runRequest(cmd, func(ctx context.Context, c *api.Client) (*api.Response, error) {
				return call(c, ctx, p)
			})
		}),
	}
	pf.register(cmd)
	return cmd
}

func newUsagesCmd() *cobra.Command {
	return newParamsCmd("usages", "List usage profiles",
		"  ab usages -p lang=nl -p cat=electricity",
		(*api.Client).Usages)
}

func newCompareCmd() *cobra.Command {
	return newParamsCmd("compare", "Run a product comparison",
		"  ab compare -p cat=electricity -p zip=9000 -p u=3500 -o json",
		(*api.Client).Compare)
}

func newSuppliersCmd() *cobra.Command {
	return newParamsCmd("suppliers", "List suppliers",
		"  ab suppliers -p cat=internet -p lang=fr",
		(*api.Client).GetSuppliers)
}

func newOptionsCmd() *cobra.Command {
	return newParamsCmd("options", "List product options",
		"  ab options -p pid=123",
		(*api.Client).GetOptions)
}

func newAffiliatesCmd() *cobra.Command {
	return newParamsCmd("affiliates", "List affiliates",
		"  ab affiliates",
		(*api.Client).GetAffiliates)
}

func newPromotionsCmd() *cobra.Command {
	return newParamsCmd("promotions", "List promotions",
		"  ab promotions -p cat=gas",
		(*api.Client).GetPromotions)
}

func newReviewsCmd() *cobra.Command {
	return newParamsCmd("reviews", "List reviews",
		"  ab reviews -p sid=7 -q '.[0]'",
		(*api.Client).GetReviews)
}

func newComparisonCmd() *cobra.Command {
	var pf paramFlags
	cmd := &cobra.Command{
		Use:     "comparison <id>",
		Short:   "Show a stored comparison",
		Example: "  ab comparison 1234 -o yaml",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			p, err := pf.build(cmd)
			if err != nil {
				return err
			}
			return runRequest(cmd, func(ctx context.Context, c *api.Client) (*api.Response, error) {
				return c.ReadComparison(ctx, args[0], p)
			})
		}),
	}
	pf.register(cmd)
	return cmd
}

func newOrderCmd() *cobra.Command {
	var pf paramFlags
	var options []string
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Place an order",
		Example: `  ab order -p pid=42 -p email=jane@example.com --opt 5
  ab order --params-file order.json --opt 5,7`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			p, err := pf.build(cmd)
			if err != nil {
				return err
			}
			if len(options) > 0 {
				p.Set("opt", api.List(options...))
			}
			return runRequest(cmd, func(ctx context.Context, c *api.Client) (*api.Response, error) {
				return c.SetOrder(ctx, p)
			})
		}),
	}
	pf.register(cmd)
	cmd.Flags().StringSliceVar(&options, "opt", nil, "Option id to order with the product (repeatable)")
	return cmd
}

func newContractCmd() *cobra.Command {
	var pf paramFlags
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Generate a contract document for an order",
		Example: `  ab contract --params-file contract.json
  cat contract.json | ab contract --params-file -`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			p, err := pf.build(cmd)
			if err != nil {
				return err
			}
			if p.Len() == 0 {
				return fmt.Errorf("invalid parameter set: contract needs --params-file or -p")
			}
			return runRequest(cmd, func(ctx context.Context, c *api.Client) (*api.Response, error) {
				return c.GetContract(ctx, p)
			})
		}),
	}
	pf.register(cmd)
	return cmd
}

func newDnbCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dnb <zip> <lang>",
		Short:   "Look up the distribution network operator for a postal code",
		Example: "  ab dnb 9000 nl",
		Args:    cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, func(ctx context.Context, c *api.Client) (*api.Response, error) {
				return c.GetDnb(ctx, args[0], args[1])
			})
		}),
	}
}

func newDualfuelCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dualfuel <electricity-id> <gas-id>",
		Short:   "Look up the dual fuel pack for an electricity and a gas product",
		Example: "  ab dualfuel 101 202",
		Args:    cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, func(ctx context.Context, c *api.Client) (*api.Response, error) {
				return c.GetDualfuelpack(ctx, args[0], args[1])
			})
		}),
	}
}
