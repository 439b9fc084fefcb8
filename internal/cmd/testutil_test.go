package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/99designs/keyring"

	"github.com/aanbieders/aanbieders-cli/internal/config"
)

var envVars = []string{
	"AANBIEDERS_KEY", "AANBIEDERS_SECRET", "AANBIEDERS_HOST", "AANBIEDERS_OUTPUT",
	"AANBIEDERS_TIMEOUT", "AANBIEDERS_REDIS_URL", "AANBIEDERS_PROFILE", "AANBIEDERS_ENV_FILE",
}

func TestMain(m *testing.M) {
	restore := config.SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return keyring.NewArrayKeyring(nil), nil
	})
	code := m.Run()
	restore()
	os.Exit(code)
}

// setupCLI isolates a test from the user's keyring, config, env and cwd.
func setupCLI(t *testing.T) *keyring.ArrayKeyring {
	t.Helper()
	ring := keyring.NewArrayKeyring(nil)
	t.Cleanup(config.SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	}))
	for _, key := range envVars {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	chdir(t, t.TempDir())
	return ring
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	var out, errOut bytes.Buffer
	ctx := WithStreams(context.Background(), &Streams{
		In:     strings.NewReader(stdin),
		Out:    &out,
		ErrOut: &errOut,
	})
	err := Execute(ctx, args)
	return cliResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

type apiRequest struct {
	Method string
	Path   string
	Query  url.Values
	Form   url.Values
}

type apiServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []apiRequest
}

func (s *apiServer) last(t *testing.T) apiRequest {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		t.Fatal("no request reached the server")
	}
	return s.requests[len(s.requests)-1]
}

func (s *apiServer) all() []apiRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]apiRequest(nil), s.requests...)
}

// newAPIServer answers every request with handler's status and body.
func newAPIServer(t *testing.T, handler func(r *http.Request) (int, string)) *apiServer {
	t.Helper()
	s := &apiServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		s.mu.Lock()
		s.requests = append(s.requests, apiRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Form:   r.PostForm,
		})
		s.mu.Unlock()

		status, body := handler(r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}

func staticResponse(status int, body string) func(*http.Request) (int, string) {
	return func(*http.Request) (int, string) { return status, body }
}

func echoPath(r *http.Request) (int, string) {
	data, _ := json.Marshal(map[string]string{"path": r.URL.Path})
	return http.StatusOK, string(data)
}

// apiArgs prefixes args with the host and credentials flags.
func apiArgs(srv *apiServer, args ...string) []string {
	return append([]string{"--host", srv.URL, "--key", "test-key", "--secret", "test-secret"}, args...)
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
