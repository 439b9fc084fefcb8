package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aanbieders/aanbieders-cli/internal/debug"
	"github.com/aanbieders/aanbieders-cli/internal/session"
	"github.com/aanbieders/aanbieders-cli/internal/validation"
)

const (
	DefaultBaseHost = "https://api.econtract.be"
	DefaultTimeout  = 30 * time.Second
)

// Config holds everything needed to build a Client. Only Credentials are
// required.
type Config struct {
	Credentials Credentials
	BaseHost    string
	Output      OutputMode
	Timeout     time.Duration
	UserAgent   string

	// Transport defaults to an HTTPTransport honouring Timeout.
	Transport Transport
	// Tracking supplies the abcid. Nil sends an empty abcid.
	Tracking session.Store
	// IP resolves the end user's address for every request. Nil sends "".
	IP func() string
	// Now and Nonce override the signer's clock and nonce source.
	Now   func() time.Time
	Nonce func() string
}

// Client is the aanbieders API client. It is safe for concurrent use.
type Client struct {
	creds      Credentials
	baseHost   string
	transport  Transport
	signer     *Signer
	ip         func() string
	trackingID string
	output     atomic.Int32
}

var validate = validator.New()

var validateBaseHost = validation.ValidateBaseHost

// New validates cfg and returns a client. The tracking id is resolved once
// here; a failing store leaves it empty.
func New(ctx context.Context, cfg Config) (*Client, error) {
	creds := Credentials{
		Key:    strings.TrimSpace(cfg.Credentials.Key),
		Secret: strings.TrimSpace(cfg.Credentials.Secret),
	}
	if err := validate.Struct(creds); err != nil {
		return nil, credentialsError(err)
	}

	host := strings.TrimRight(strings.TrimSpace(cfg.BaseHost), "/")
	if host == "" {
		host = DefaultBaseHost
	}
	if err := validateBaseHost(host); err != nil {
		return nil, &ConfigError{Field: "host", Reason: err.Error()}
	}

	if !cfg.Output.valid() {
		return nil, &ConfigError{Field: "output", Reason: fmt.Sprintf("unknown output mode %d", int32(cfg.Output))}
	}

	transport := cfg.Transport
	if transport == nil {
		ht := NewHTTPTransport(cfg.Timeout)
		ht.UserAgent = cfg.UserAgent
		transport = ht
	}

	ip := cfg.IP
	if ip == nil {
		ip = func() string { return "" }
	}

	trackingID, err := session.Resolve(ctx, cfg.Tracking, nil)
	if err != nil {
		if debug.IsEnabled(ctx) {
			slog.Debug("tracking id unavailable", "error", err)
		}
		trackingID = ""
	}

	c := &Client{
		creds:      creds,
		baseHost:   host,
		transport:  transport,
		signer:     NewSigner(creds, cfg.Now, cfg.Nonce),
		ip:         ip,
		trackingID: trackingID,
	}
	c.output.Store(int32(cfg.Output))
	return c, nil
}

func credentialsError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := strings.ToLower(verrs[0].Field())
		return &ConfigError{Field: field, Reason: "is required"}
	}
	return &ConfigError{Field: "credentials", Reason: err.Error()}
}

// Key returns the public API key.
func (c *Client) Key() string { return c.creds.Key }

// Credentials returns a copy of the credentials.
func (c *Client) Credentials() Credentials { return c.creds }

// BaseHost returns the host paths are appended to.
func (c *Client) BaseHost() string { return c.baseHost }

// TrackingID returns the abcid resolved at construction.
func (c *Client) TrackingID() string { return c.trackingID }

// OutputMode returns the active output mode.
func (c *Client) OutputMode() OutputMode { return OutputMode(c.output.Load()) }

// SetOutputMode switches the output mode for subsequent calls.
func (c *Client) SetOutputMode(mode OutputMode) error {
	if !mode.valid() {
		return &ConfigError{Field: "output", Reason: fmt.Sprintf("unknown output mode %d", int32(mode))}
	}
	c.output.Store(int32(mode))
	return nil
}

// SetOutputType switches the output mode by name ("json", "object", "array").
// An unknown name leaves the mode unchanged.
func (c *Client) SetOutputType(name string) error {
	mode, err := ParseOutputMode(name)
	if err != nil {
		return err
	}
	return c.SetOutputMode(mode)
}

// ValidateEAN reports whether code is a valid 18-digit EAN.
func (c *Client) ValidateEAN(code string) bool {
	return validation.ValidateEAN(code)
}

// Prepare signs and encodes params for one request. params is not modified.
func (c *Client) Prepare(method, path string, params *Params) (*SignedRequest, error) {
	p := params.Clone()
	c.signer.Sign(c.ip(), c.trackingID).Apply(p)

	query, body, err := Encode(method, p)
	if err != nil {
		return nil, err
	}

	req := &SignedRequest{
		Method: method,
		Path:   path,
		URL:    c.baseHost + path,
		Query:  query,
		Body:   body,
	}
	if method == http.MethodGet && query != "" {
		req.URL += "?" + query
	}
	if method == http.MethodPost {
		req.ContentType = FormContentType
	}
	return req, nil
}

// Response is the result of a successful exchange. Value is nil in raw mode.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Value      any
	Mode       OutputMode
}

// String returns the body as sent by the server.
func (r *Response) String() string {
	return string(r.Body)
}

// Decode unmarshals the body into dst regardless of the output mode.
func (r *Response) Decode(dst any) error {
	if err := json.Unmarshal(r.Body, dst); err != nil {
		return &ResponseParseError{Body: r.Body, Err: err}
	}
	return nil
}

// Execute performs one signed request and converts the body according to
// the current output mode.
func (c *Client) Execute(ctx context.Context, method, path string, params *Params) (*Response, error) {
	mode := c.OutputMode()

	req, err := c.Prepare(method, path, params)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.transport.Send(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}

	if debug.IsEnabled(ctx) {
		slog.Debug("api request completed",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"duration", time.Since(start),
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
		}
	}

	value, err := decodeBody(mode, resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       resp.Body,
		Value:      value,
		Mode:       mode,
	}, nil
}
