package api

import (
	"context"
	"net/http"
	"net/url"
	"testing"
)

func TestResourceRouting(t *testing.T) {
	srv, last := newTestServer(t, http.StatusOK, `{}`)
	c := newTestClient(t, srv.URL)
	ctx := context.Background()
	p := NewParams().SetString("lang", "nl")

	tests := []struct {
		name       string
		call       func() (*Response, error)
		wantMethod string
		wantPath   string
		wantParams map[string]string
	}{
		{"usages", func() (*Response, error) { return c.Usages(ctx, p) }, "GET", "/usages.json", nil},
		{"compare", func() (*Response, error) { return c.Compare(ctx, p) }, "GET", "/comparison.json", nil},
		{"readComparison", func() (*Response, error) { return c.ReadComparison(ctx, "77", p) }, "GET", "/comparison/view/77.json", nil},
		{"suppliers", func() (*Response, error) { return c.GetSuppliers(ctx, p) }, "GET", "/suppliers.json", nil},
		{"options", func() (*Response, error) { return c.GetOptions(ctx, p) }, "GET", "/options.json", nil},
		{"affiliates", func() (*Response, error) { return c.GetAffiliates(ctx, p) }, "GET", "/affiliates.json", nil},
		{"promotions", func() (*Response, error) { return c.GetPromotions(ctx, p) }, "GET", "/promotions.json", nil},
		{"reviews", func() (*Response, error) { return c.GetReviews(ctx, p) }, "GET", "/reviews.json", nil},
		{"dnb", func() (*Response, error) { return c.GetDnb(ctx, "9000", "nl") }, "GET", "/dnb.json", map[string]string{"zip": "9000", "lang": "nl"}},
		{"dualfuel", func() (*Response, error) { return c.GetDualfuelpack(ctx, "11", "22") }, "GET", "/dualfuelpack.json", map[string]string{"electricity_id": "11", "gas_id": "22"}},
		{"product by id", func() (*Response, error) { return c.GetProducts(ctx, p, "42") }, "GET", "/products/42.json", nil},
		{"products by ids", func() (*Response, error) { return c.GetProducts(ctx, p, "42", "43") }, "GET", "/products.json", map[string]string{"productid": "42 43"}},
		{"all products", func() (*Response, error) { return c.GetProducts(ctx, p) }, "GET", "/products.json", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.call(); err != nil {
				t.Fatalf("call error = %v", err)
			}
			got := last()
			if got.Method != tt.wantMethod {
				t.Errorf("method = %q, want %q", got.Method, tt.wantMethod)
			}
			if got.Path != tt.wantPath {
				t.Errorf("path = %q, want %q", got.Path, tt.wantPath)
			}
			values, err := url.ParseQuery(got.RawQuery)
			if err != nil {
				t.Fatalf("ParseQuery() error = %v", err)
			}
			for k, want := range tt.wantParams {
				if values.Get(k) != want {
					t.Errorf("%s = %q, want %q", k, values.Get(k), want)
				}
			}
			if tt.wantParams["productid"] == "" && values.Has("productid") {
				t.Errorf("productid = %q, want absent", values.Get("productid"))
			}
		})
	}

	if _, ok := p.Get("productid"); ok {
		t.Error("GetProducts modified caller params")
	}
}

func TestSetOrderRewritesOptions(t *testing.T) {
	srv, last := newTestServer(t, http.StatusOK, `{}`)
	c := newTestClient(t, srv.URL)

	tests := []struct {
		name string
		opt  Value
		want map[string]string
	}{
		{"single", List("5"), map[string]string{"opt[]": "5"}},
		{"several", List("5", "7"), map[string]string{"opt[5]": "5", "opt[7]": "7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParams().SetString("product_id", "42").Set("opt", tt.opt)
			if _, err := c.SetOrder(context.Background(), p); err != nil {
				t.Fatalf("SetOrder() error = %v", err)
			}
			got := last()
			if got.Method != http.MethodGet || got.Path != "/orders.json" {
				t.Errorf("request = %s %s, want GET /orders.json", got.Method, got.Path)
			}
			values, _ := url.ParseQuery(got.RawQuery)
			if values.Has("opt") {
				t.Errorf("opt = %v, want absent", values["opt"])
			}
			for k, want := range tt.want {
				if values.Get(k) != want {
					t.Errorf("%s = %q, want %q", k, values.Get(k), want)
				}
			}
			if _, ok := p.Get("opt"); !ok {
				t.Error("SetOrder modified caller params")
			}
		})
	}
}

func TestRoutesTable(t *testing.T) {
	r, ok := RouteByName("getContract")
	if !ok {
		t.Fatal("getContract route missing")
	}
	if r.Method != http.MethodPost || r.Path != "/orders/generate.json" {
		t.Errorf("getContract = %s %s", r.Method, r.Path)
	}
	for _, r := range Routes {
		if r.Name != "getContract" && r.Method != http.MethodGet {
			t.Errorf("%s uses %s, want GET", r.Name, r.Method)
		}
	}
	if _, ok := RouteByName("nope"); ok {
		t.Error("RouteByName(nope) found a route")
	}
}
