package api

import (
	"context"
	"net/http"
	"net/url"
)

// Route describes one remote operation.
type Route struct {
	Name   string
	Method string
	Path   string
}

// Routes lists every operation the API exposes. Paths with an id segment
// are shown with a {placeholder}.
var Routes = []Route{
	{Name: "usages", Method: http.MethodGet, Path: "/usages.json"},
	{Name: "compare", Method: http.MethodGet, Path: "/comparison.json"},
	{Name: "readComparison", Method: http.MethodGet, Path: "/comparison/view/{id}.json"},
	{Name: "getProducts", Method: http.MethodGet, Path: "/products.json"},
	{Name: "getProduct", Method: http.MethodGet, Path: "/products/{id}.json"},
	{Name: "setOrder", Method: http.MethodGet, Path: "/orders.json"},
	{Name: "getSuppliers", Method: http.MethodGet, Path: "/suppliers.json"},
	{Name: "getOptions", Method: http.MethodGet, Path: "/options.json"},
	{Name: "getAffiliates", Method: http.MethodGet, Path: "/affiliates.json"},
	{Name: "getPromotions", Method: http.MethodGet, Path: "/promotions.json"},
	{Name: "getReviews", Method: http.MethodGet, Path: "/reviews.json"},
	{Name: "getContract", Method: http.MethodPost, Path: "/orders/generate.json"},
	{Name: "getDnb", Method: http.MethodGet, Path: "/dnb.json"},
	{Name: "getDualfuelpack", Method: http.MethodGet, Path: "/dualfuelpack.json"},
}

// Usages returns the usage profiles.
func (c *Client) Usages(ctx context.Context, params *Params) (*Response, error) {
	return c.Execute(ctx, http.MethodGet, "/usages.json", params)
}

// Compare runs a comparison.
func (c *Client) Compare(ctx context.Context, params *Params) (*Response, error) {
	return c.Execute(ctx, http.MethodGet, "/comparison.json", params)
}

// ReadComparison fetches a stored comparison.
func (c *Client) ReadComparison(ctx context.Context, id string, params *Params) (*Response, error) {
	return c.Execute(ctx, http.MethodGet, "/comparison/view/"+url.PathEscape(id)+".json", params)
}

// GetProducts lists products. A single numeric id fetches that product by
// path; several ids are sent space separated in productid.
func (c *Client) GetProducts(ctx context.Context, params *Params, ids ...string) (*Response, error) {
	p := params.Clone()
	path := productsPath(p, ids)
	return c.Execute(ctx, http.MethodGet, path, p)
}

// SetOrder places an order. The opt list is expanded first, see
// rewriteOrderOptions.
func (c *Client) SetOrder(ctx context.Context, params *Params) (*Response, error) {
	p := params.Clone()
	rewriteOrderOptions(p)
	return c.Execute(ctx, http.MethodGet, "/orders.json", p)
}

func (c *Client) GetSuppliers(ctx context.Context, params *Params) (*Response, error) {
	return c.Execute(ctx, http.MethodGet, "/suppliers.json", params)
}

func (c *Client) GetOptions(ctx context.Context, params *Params) (*Response, error) {
	return c.Execute(ctx, http.MethodGet, "/options.json", params)
}

func (c *Client) GetAffiliates(ctx context.Context, params *Params) (*Response, error) {
	return c.Execute(ctx, http.MethodGet, "/affiliates.json", params)
}

func (c *Client) GetPromotions(ctx context.Context, params *Params) (*Response, error) {
	return c.Execute(ctx, http.MethodGet, "/promotions.json", params)
}

func (c *Client) GetReviews(ctx context.Context, params *Params) (*Response, error) {
	return c.Execute(ctx, http.MethodGet, "/reviews.json", params)
}

// GetContract generates a contract document. It is the only POST operation.
func (c *Client) GetContract(ctx context.Context, params *Params) (*Response, error) {
	return c.Execute(ctx, http.MethodPost, "/orders/generate.json", params)
}

// GetDnb looks up the distribution network operator for a postal code.
func (c *Client) GetDnb(ctx context.Context, zip, lang string) (*Response, error) {
	p := NewParams().SetString("zip", zip).SetString("lang", lang)
	return c.Execute(ctx, http.MethodGet, "/dnb.json", p)
}

// GetDualfuelpack fetches the combined electricity and gas pack.
func (c *Client) GetDualfuelpack(ctx context.Context, electricityID, gasID string) (*Response, error) {
	p := NewParams().SetString("electricity_id", electricityID).SetString("gas_id", gasID)
	return c.Execute(ctx, http.MethodGet, "/dualfuelpack.json", p)
}

// RouteByName returns the route registered under name.
func RouteByName(name string) (Route, bool) {
	for _, r := range Routes {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}
