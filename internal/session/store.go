// Package session resolves the per-visitor tracking identifier ("abcid") sent
// with every API request, and the visitor's IP address.
//
// The identifier should stay stable for one end user across calls. Where it
// lives depends on how the client is embedded: a cookie on the inbound
// request for web handlers, Redis for a fleet of servers, a file for the CLI.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// CookieName is the cookie and key name under which the id is kept.
	CookieName = "abcid"
	// DefaultTTL is how long a freshly minted id is kept.
	DefaultTTL = 200 * 24 * time.Hour
)

// Store persists one tracking id.
type Store interface {
	// Get returns the stored id, or ok=false when none is stored.
	Get(ctx context.Context) (id string, ok bool, err error)
	// Set stores id for ttl.
	Set(ctx context.Context, id string, ttl time.Duration) error
}

// NewID mints an opaque unique id.
func NewID() string {
	return uuid.NewString()
}

// Resolve returns the id held by store, minting and storing a new one when
// the store is empty. A nil store yields an empty id. A nil mint uses NewID.
func Resolve(ctx context.Context, store Store, mint func() string) (string, error) {
	if store == nil {
		return "", nil
	}
	if mint == nil {
		mint = NewID
	}

	id, ok, err := store.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read tracking id: %w", err)
	}
	if ok && id != "" {
		return id, nil
	}

	id = mint()
	if err := store.Set(ctx, id, DefaultTTL); err != nil {
		return "", fmt.Errorf("failed to store tracking id: %w", err)
	}
	return id, nil
}
