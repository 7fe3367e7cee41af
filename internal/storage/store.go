// Package storage persists the client-side state a browser would keep for the
// portal: the refresh-token cookie and a small localStorage-style key/value
// area for user preferences.
package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("storage: not found")

// Preference keys kept in LocalStorage.
const (
	PrefLanguage = "i18nextLng"
	PrefDarkMode = "darkMode"
)

// Store is the root data access interface. Drivers expose the two areas as
// sub-repositories.
type Store interface {
	Cookies() Cookies
	LocalStorage() LocalStorage

	ApplyMigrations() error

	// Close releases the underlying database handle.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Cookie is a persisted cookie. A zero Expires never expires.
type Cookie struct {
	Name    string
	Value   string
	Path    string
	Expires time.Time
}

// Expired reports whether the cookie is past its expiry at now.
func (c Cookie) Expired(now time.Time) bool {
	return !c.Expires.IsZero() && !now.Before(c.Expires)
}

type Cookies interface {
	// Get returns a live cookie. Missing and expired cookies both yield
	// ErrNotFound.
	Get(ctx context.Context, name string) (Cookie, error)

	// Set inserts or replaces the cookie with the same name.
	Set(ctx context.Context, c Cookie) error

	// Delete removes a cookie. Deleting a missing cookie is not an error.
	Delete(ctx context.Context, name string) error

	// DeleteIfValue removes the cookie only while it still holds value and
	// reports whether a row was removed.
	DeleteIfValue(ctx context.Context, name, value string) (bool, error)
}

type LocalStorage interface {
	// GetItem returns ErrNotFound when the key was never set.
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}
