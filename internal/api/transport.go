package api

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SignedRequest is a fully prepared request. It carries a nonce and a
// timestamp, so it is sent once and then discarded.
type SignedRequest struct {
	Method      string
	Path        string
	URL         string // includes the query string for GET
	Query       string
	Body        string
	ContentType string
}

// TransportResponse is what a Transport hands back for any HTTP answer,
// whatever its status.
type TransportResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport sends a prepared request. Implementations return an error only
// when no HTTP response was obtained.
type Transport interface {
	Send(ctx context.Context, req *SignedRequest) (*TransportResponse, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *SignedRequest) (*TransportResponse, error)

// Send calls f(ctx, req).
func (f TransportFunc) Send(ctx context.Context, req *SignedRequest) (*TransportResponse, error) {
	return f(ctx, req)
}

// HTTPTransport sends requests with a net/http client.
type HTTPTransport struct {
	HTTP      *http.Client
	UserAgent string
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport returns a transport with TLS 1.2+ and the given timeout.
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12
	transport.TLSClientConfig.InsecureSkipVerify = false

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPTransport{
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Send performs the exchange and reads the whole body.
func (t *HTTPTransport) Send(ctx context.Context, req *SignedRequest) (*TransportResponse, error) {
	var body io.Reader
	if req.Method == http.MethodPost {
		body = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	if t.UserAgent != "" {
		httpReq.Header.Set("User-Agent", t.UserAgent)
	}
	httpReq.Header.Set("Accept", "application/json")

	client := t.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return &TransportResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}
