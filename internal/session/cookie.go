package session

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrNoResponseWriter is returned by CookieStore.Set when there is no
// response to attach the cookie to.
var ErrNoResponseWriter = errors.New("no response writer to set the tracking cookie on")

// CookieStore reads the id from the inbound request and sets it on the
// response. Set must run before the handler writes the response header.
type CookieStore struct {
	r   *http.Request
	w   http.ResponseWriter
	now func() time.Time
}

// NewCookieStore returns a store bound to one inbound request.
func NewCookieStore(w http.ResponseWriter, r *http.Request) *CookieStore {
	return &CookieStore{r: r, w: w, now: time.Now}
}

func (s *CookieStore) Get(_ context.Context) (string, bool, error) {
	if s.r == nil {
		return "", false, nil
	}
	c, err := s.r.Cookie(CookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return c.Value, c.Value != "", nil
}

func (s *CookieStore) Set(_ context.Context, id string, ttl time.Duration) error {
	if s.w == nil {
		return ErrNoResponseWriter
	}
	http.SetCookie(s.w, &http.Cookie{
		Name:    CookieName,
		Value:   id,
		Path:    "/",
		Expires: s.now().Add(ttl),
		MaxAge:  int(ttl / time.Second),
	})
	return nil
}
