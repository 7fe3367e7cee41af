package session

import (
	"context"
	"sync"

	"github.com/aussiebroadwan/tutorship/pkg/tutorsdk"
)

// Profiles caches the signed-in user's profile. The role list on it drives
// the admin view.
type Profiles struct {
	fetch func(ctx context.Context) (*tutorsdk.User, error)

	mu   sync.Mutex
	user *tutorsdk.User
	gen  uint64
}

func newProfiles(fetch func(ctx context.Context) (*tutorsdk.User, error)) *Profiles {
	return &Profiles{fetch: fetch}
}

// Get returns the cached profile, fetching it on first use. Failed fetches
// are not cached.
func (p *Profiles) Get(ctx context.Context) (*tutorsdk.User, error) {
	p.mu.Lock()
	if p.user != nil {
		u := p.user
		p.mu.Unlock()
		return u, nil
	}
	gen := p.gen
	p.mu.Unlock()

	u, err := p.fetch(ctx)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// A Clear during the fetch wins, the result belongs to the old session.
	if p.gen == gen {
		p.user = u
	}
	return u, nil
}

// Clear drops the cached profile.
func (p *Profiles) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.user = nil
	p.gen++
}
