// Package session owns the client-side authentication state: the
// process-wide access token, the persisted refresh-token cookie and the
// cached user profile.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/tutorship/internal/storage"
	"github.com/aussiebroadwan/tutorship/internal/tabsync"
	"github.com/aussiebroadwan/tutorship/pkg/jwtx"
	"github.com/aussiebroadwan/tutorship/pkg/tutorsdk"
)

const (
	// RefreshCookie names the persisted refresh-token cookie.
	RefreshCookie = "refreshToken"

	cookiePath     = "/"
	cookieLifetime = 100 * 365 * 24 * time.Hour
	clockSkew      = 30 * time.Second
)

var ErrNotAuthenticated = errors.New("session: not authenticated")

type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Snapshot is a consistent view of the session.
type Snapshot struct {
	State           State
	AccessToken     string
	RefreshToken    string
	AccessExpiresAt time.Time

	// Initializing is true until Start has returned.
	Initializing bool
}

// Client is the part of the API client the session needs.
type Client interface {
	Login(ctx context.Context, req tutorsdk.LoginRequest) (*tutorsdk.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*tutorsdk.TokenResponse, error)
	GetCurrentUser(ctx context.Context) (*tutorsdk.User, error)
}

type Config struct {
	Client  Client
	Cookies storage.Cookies

	// Bus carries logout between tabs. Nil keeps logout local to this
	// process.
	Bus tabsync.Bus

	Logger *slog.Logger
}

type Store struct {
	client   Client
	cookies  storage.Cookies
	logger   *slog.Logger
	logout   *tabsync.LogoutSync
	profiles *Profiles
	now      func() time.Time

	// authMu serialises cookie writes with the state change they belong
	// to, so a remote logout cannot land between the two.
	authMu sync.Mutex

	mu           sync.RWMutex
	state        State
	token        *string
	refresh      string
	expiresAt    time.Time
	initializing bool
}

func New(cfg Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	bus := cfg.Bus
	if bus == nil {
		bus = tabsync.NewMemoryBus()
	}

	s := &Store{
		client:       cfg.Client,
		cookies:      cfg.Cookies,
		logger:       logger,
		now:          time.Now,
		initializing: true,
	}
	s.profiles = newProfiles(cfg.Client.GetCurrentUser)
	s.logout = tabsync.New(bus, s.clear, logger)
	return s
}

// TabID identifies this session on the logout bus.
func (s *Store) TabID() string { return s.logout.TabID() }

// Start listens for logouts from other tabs and restores a persisted
// session. A refresh failure of any kind leaves the store unauthenticated
// and is not returned; only storage and bus errors are.
func (s *Store) Start(ctx context.Context) error {
	defer func() {
		s.mu.Lock()
		s.initializing = false
		s.mu.Unlock()
	}()

	if err := s.logout.Start(ctx); err != nil {
		return err
	}

	cookie, err := s.cookies.Get(ctx, RefreshCookie)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.DebugContext(ctx, "no persisted session")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read refresh cookie: %w", err)
	}

	tok, err := s.client.Refresh(ctx, cookie.Value)
	if err == nil {
		err = s.Authorize(ctx, tok)
	}
	if err != nil {
		s.logger.InfoContext(ctx, "persisted session could not be restored", "error", err)
		return s.abandon(ctx, cookie.Value, err)
	}

	s.logger.InfoContext(ctx, "session restored")
	return nil
}

// Authorize installs a fresh token pair. The access token is decoded for its
// expiry only, it is not verified.
func (s *Store) Authorize(ctx context.Context, tok *tutorsdk.TokenResponse) error {
	if tok == nil {
		return errors.New("session: nil token response")
	}

	claims, err := jwtx.DecodeUnverified(tok.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to decode access token: %w", err)
	}
	exp, err := claims.Expiry()
	if err != nil {
		return fmt.Errorf("failed to decode access token: %w", err)
	}
	if err := claims.ValidateExpiryWithLeeway(s.now(), clockSkew); err != nil {
		// Installed anyway; the backend decides validity.
		s.logger.WarnContext(ctx, "access token outside its validity window", "error", err)
	}

	s.authMu.Lock()
	defer s.authMu.Unlock()

	err = s.cookies.Set(ctx, storage.Cookie{
		Name:    RefreshCookie,
		Value:   tok.RefreshToken,
		Path:    cookiePath,
		Expires: s.now().Add(cookieLifetime),
	})
	if err != nil {
		return fmt.Errorf("failed to persist refresh cookie: %w", err)
	}

	s.mu.Lock()
	s.token = installAccessToken(tok.AccessToken)
	s.state = Authenticated
	s.refresh = tok.RefreshToken
	s.expiresAt = exp
	s.mu.Unlock()

	// Roles may differ from the previous session.
	s.profiles.Clear()

	s.logger.DebugContext(ctx, "session authorized",
		"subject", claims.Subject,
		"email", claims.Email,
		"roles", claims.Roles,
		"access_expires_at", exp,
	)
	return nil
}

// Unauthorize signs out here and in every other tab. It is idempotent.
func (s *Store) Unauthorize(ctx context.Context) error {
	return s.logout.Logout(ctx)
}

// clear drops all session state in this tab without broadcasting. It runs
// for local and remote logouts, so the shared cookie goes with it.
func (s *Store) clear(ctx context.Context) error {
	s.authMu.Lock()
	defer s.authMu.Unlock()

	wasAuthenticated := s.reset()

	if err := s.cookies.Delete(ctx, RefreshCookie); err != nil {
		return fmt.Errorf("failed to remove refresh cookie: %w", err)
	}

	if wasAuthenticated {
		s.logger.InfoContext(ctx, "session cleared")
	}
	return nil
}

// abandon gives up on a persisted session after the startup refresh failed.
// Only this store is reset. The cookie is removed when the backend rejected
// it and no other tab has replaced it since; a transport failure proves
// nothing about the token, so the cookie stays.
func (s *Store) abandon(ctx context.Context, tried string, cause error) error {
	s.authMu.Lock()
	defer s.authMu.Unlock()

	s.reset()

	var reqErr *tutorsdk.RequestError
	if !errors.As(cause, &reqErr) {
		return nil
	}

	deleted, err := s.cookies.DeleteIfValue(ctx, RefreshCookie, tried)
	if err != nil {
		return fmt.Errorf("failed to remove refresh cookie: %w", err)
	}
	if deleted {
		s.logger.DebugContext(ctx, "rejected refresh cookie removed")
	}
	return nil
}

// reset returns this store to Unauthenticated and reports whether it was
// signed in. The process-wide token is only released if this store owns it.
func (s *Store) reset() bool {
	s.mu.Lock()
	wasAuthenticated := s.state == Authenticated
	releaseAccessToken(s.token)
	s.token = nil
	s.state = Unauthenticated
	s.refresh = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()

	s.profiles.Clear()
	return wasAuthenticated
}

// RefreshToken reads the persisted cookie so that a token written by
// another tab is picked up.
func (s *Store) RefreshToken(ctx context.Context) (string, bool) {
	c, err := s.cookies.Get(ctx, RefreshCookie)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to read refresh cookie", "error", err)
		}
		return "", false
	}
	return c.Value, c.Value != ""
}

var _ tutorsdk.CredentialSource = (*Store)(nil)

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var access string
	if s.token != nil {
		access = *s.token
	}
	return Snapshot{
		State:           s.state,
		AccessToken:     access,
		RefreshToken:    s.refresh,
		AccessExpiresAt: s.expiresAt,
		Initializing:    s.initializing,
	}
}

// IsAuthenticated reports the session state.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == Authenticated
}

// Login signs in with credentials.
func (s *Store) Login(ctx context.Context, req tutorsdk.LoginRequest) error {
	tok, err := s.client.Login(ctx, req)
	if err != nil {
		return err
	}
	return s.Authorize(ctx, tok)
}

// Profile returns the signed-in user's cached profile.
func (s *Store) Profile(ctx context.Context) (*tutorsdk.User, error) {
	if !s.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	return s.profiles.Get(ctx)
}

// IsAdmin is true iff the signed-in user's profile holds the admin role. A
// failed profile fetch counts as not admin.
func (s *Store) IsAdmin(ctx context.Context) bool {
	u, err := s.Profile(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotAuthenticated) {
			s.logger.WarnContext(ctx, "failed to load profile", "error", err)
		}
		return false
	}
	return u.IsAdmin()
}

// Close stops listening for remote logouts.
func (s *Store) Close() error {
	return s.logout.Close()
}

// InvalidateProfile drops the cached profile after it changed upstream.
func (s *Store) InvalidateProfile() {
	s.profiles.Clear()
}
