package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/aanbieders/aanbieders-cli/internal/api"
	"github.com/aanbieders/aanbieders-cli/internal/outfmt"
)

const defaultProductConcurrency = 4

func newProductsCmd() *cobra.Command {
	var pf paramFlags
	var each bool
	var concurrency int
	var perSecond float64

	cmd := &cobra.Command{
		Use:   "products [id...]",
		Short: "List products, or fetch products by id",
		Long: `List products, or fetch products by id.

A single numeric id is fetched from its own endpoint. Several ids are sent
in one request unless --each is given, which fetches every id separately
and prints the results in argument order.`,
		Example: `  ab products -p cat=electricity
  ab products 42
  ab products 42 43 44 --each -o json`,
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			p, err := pf.build(cmd)
			if err != nil {
				return err
			}
			if !each || len(args) < 2 {
				return runRequest(cmd, func(ctx context.Context, c *api.Client) (*api.Response, error) {
					return c.GetProducts(ctx, p, args...)
				})
			}
			if concurrency < 1 {
				return fmt.Errorf("--concurrency must be >= 1")
			}
			if perSecond < 0 {
				return fmt.Errorf("--rate must be >= 0")
			}
			return fetchEach(cmd, p, args, concurrency, perSecond)
		}),
	}
	pf.register(cmd)
	cmd.Flags().BoolVar(&each, "each", false, "Fetch each id with its own request")
	cmd.Flags().IntVar(&concurrency, "concurrency", defaultProductConcurrency, "Parallel requests with --each")
	cmd.Flags().Float64Var(&perSecond, "rate", 0, "Maximum requests per second with --each (0 = unlimited)")
	return cmd
}

// fetchEach fetches every id on its own. The first failure cancels the rest.
func fetchEach(cmd *cobra.Command, p *api.Params, ids []string, concurrency int, perSecond float64) error {
	client, cleanup, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	limiter := rate.NewLimiter(limit, 1)

	results := make([]*api.Response, len(ids))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(concurrency)
	for i, id := range ids {
		i, id := i, id // per-iteration copies (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			resp, err := client.GetProducts(ctx, p, id)
			if err != nil {
				return fmt.Errorf("product %s: %w", id, err)
			}
			results[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if !outfmt.NeedsParsedResponse(cmd.Context()) {
		for _, resp := range results {
			if err := outfmt.WriteRaw(cmd.OutOrStdout(), resp.Body); err != nil {
				return err
			}
		}
		return nil
	}
	values := make([]any, len(results))
	for i, resp := range results {
		values[i] = resp.Value
	}
	return newFormatter(cmd).Output(values)
}
