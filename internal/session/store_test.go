package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveNilStore(t *testing.T) {
	id, err := Resolve(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestResolveMintsOnce(t *testing.T) {
	store := NewMemoryStore()
	minted := 0
	mint := func() string {
		minted++
		return "minted-id"
	}

	first, err := Resolve(context.Background(), store, mint)
	require.NoError(t, err)
	second, err := Resolve(context.Background(), store, mint)
	require.NoError(t, err)

	assert.Equal(t, "minted-id", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, minted)
}

type brokenStore struct{ getErr, setErr error }

func (s brokenStore) Get(context.Context) (string, bool, error) { return "", false, s.getErr }
func (s brokenStore) Set(context.Context, string, time.Duration) error {
	return s.setErr
}

func TestResolveErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := Resolve(context.Background(), brokenStore{getErr: boom}, nil)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "read")

	_, err = Resolve(context.Background(), brokenStore{setErr: boom}, nil)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "store")
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestMemoryStoreExpiry(t *testing.T) {
	now := time.Unix(1700000000, 0)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	_, ok, _ := s.Get(context.Background())
	assert.False(t, ok)

	require.NoError(t, s.Set(context.Background(), "v1", time.Hour))
	id, ok, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", id)

	now = now.Add(2 * time.Hour)
	_, ok, _ = s.Get(context.Background())
	assert.False(t, ok)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "abcid.json")
	now := time.Unix(1700000000, 0)
	s := NewFileStore(path)
	s.now = func() time.Time { return now }
	assert.Equal(t, path, s.Path())

	_, ok, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(context.Background(), "visitor", DefaultTTL))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// a second store on the same file sees the id
	other := NewFileStore(path)
	other.now = s.now
	id, ok, err := other.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "visitor", id)

	now = now.Add(DefaultTTL + time.Second)
	_, ok, _ = s.Get(context.Background())
	assert.False(t, ok)

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abcid.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	id, ok, err := NewFileStore(path).Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := NewRedisStore(client, "sess-1")
	assert.Equal(t, "abcid:sess-1", s.Key())

	_, ok, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	id, err := Resolve(context.Background(), s, func() string { return "from-redis" })
	require.NoError(t, err)
	assert.Equal(t, "from-redis", id)

	got, err := mr.Get("abcid:sess-1")
	require.NoError(t, err)
	assert.Equal(t, "from-redis", got)
	assert.Equal(t, DefaultTTL, mr.TTL("abcid:sess-1"))

	mr.FastForward(DefaultTTL + time.Second)
	_, ok, err = s.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	_, _, err := NewRedisStore(client, "x").Get(context.Background())
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	c, err := NewRedisClient("redis://localhost:6379/2")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Options().DB)
	_ = c.Close()

	_, err = NewRedisClient("http://nope")
	assert.Error(t, err)
}

func TestCookieStore(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s := NewCookieStore(rec, req)

	id, err := Resolve(context.Background(), s, func() string { return "cookie-id" })
	require.NoError(t, err)
	assert.Equal(t, "cookie-id", id)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, "cookie-id", cookies[0].Value)
	assert.Equal(t, "/", cookies[0].Path)
	assert.Equal(t, int(DefaultTTL/time.Second), cookies[0].MaxAge)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-id"})
	got, ok, err := NewCookieStore(nil, next).Get(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cookie-id", got)
}

func TestCookieStoreWithoutWriter(t *testing.T) {
	s := NewCookieStore(nil, nil)
	_, ok, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	id, err := Resolve(context.Background(), s, nil)
	assert.ErrorIs(t, err, ErrNoResponseWriter)
	assert.Empty(t, id)
}

func TestRequestIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"client ip wins", map[string]string{"Client-Ip": "1.1.1.1", "X-Forwarded-For": "2.2.2.2"}, "3.3.3.3:80", "1.1.1.1"},
		{"forwarded", map[string]string{"X-Forwarded-For": "2.2.2.2"}, "3.3.3.3:80", "2.2.2.2"},
		{"remote addr", nil, "3.3.3.3:80", "3.3.3.3"},
		{"remote without port", nil, "3.3.3.3", "3.3.3.3"},
		{"nothing", nil, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := RequestIP(r); got != tt.want {
				t.Errorf("RequestIP() = %q, want %q", got, tt.want)
			}
			if got := FromRequest(r)(); got != tt.want {
				t.Errorf("FromRequest()() = %q, want %q", got, tt.want)
			}
		})
	}
	if got := RequestIP(nil); got != "" {
		t.Errorf("RequestIP(nil) = %q, want empty", got)
	}
	if got := StaticIP("9.9.9.9")(); got != "9.9.9.9" {
		t.Errorf("StaticIP()() = %q", got)
	}
}
