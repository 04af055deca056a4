// Package session gates mutating operations behind operator credentials.
//
// Credentials come from an injected CredentialProvider; the package holds no
// global credential table. A successful Login yields a Session whose id is a
// random UUID. Authorize is a pure predicate and never touches graph or
// registry state.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Sentinel errors for the gate.
var (
	// ErrInvalidCredentials is returned for an unknown user or wrong password.
	ErrInvalidCredentials = errors.New("session: invalid credentials")

	// ErrUnauthorized is returned by Authorize for an unknown or expired session.
	ErrUnauthorized = errors.New("session: unauthorized")
)

// CredentialProvider looks up the bcrypt hash stored for a user.
type CredentialProvider interface {
	Lookup(user string) (hash []byte, ok bool)
}

// StaticProvider is a fixed user → bcrypt hash table, usually built from
// configuration.
type StaticProvider map[string][]byte

// Lookup implements CredentialProvider.
func (p StaticProvider) Lookup(user string) ([]byte, bool) {
	h, ok := p[user]

	return h, ok
}

// HashPassword returns a bcrypt hash of password at the default cost.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("session: hash password: %w", err)
	}

	return string(h), nil
}

// Session is an authenticated operator.
type Session struct {
	ID      string
	User    string
	Expires time.Time
}

// Option configures a Gate.
type Option func(*Gate)

// WithTTL sets how long a session stays valid. Zero means no expiry.
func WithTTL(d time.Duration) Option {
	return func(g *Gate) { g.ttl = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// Gate checks credentials and tracks live sessions. Safe for concurrent use.
type Gate struct {
	provider CredentialProvider
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]Session
}

// NewGate returns a Gate backed by provider.
func NewGate(provider CredentialProvider, opts ...Option) *Gate {
	g := &Gate{
		provider: provider,
		now:      time.Now,
		sessions: make(map[string]Session),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Login verifies user and password against the provider.
func (g *Gate) Login(user, password string) (Session, error) {
	hash, ok := g.provider.Lookup(user)
	if !ok {
		return Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	s := Session{ID: uuid.NewString(), User: user}
	if g.ttl > 0 {
		s.Expires = g.now().Add(g.ttl)
	}
	g.mu.Lock()
	g.sessions[s.ID] = s
	g.mu.Unlock()

	return s, nil
}

// Authorize reports whether s may perform op. Every live session may perform
// every mutating operation; op only enriches the error.
func (g *Gate) Authorize(s Session, op string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	live, ok := g.sessions[s.ID]
	if !ok || live.User != s.User {
		return fmt.Errorf("%w: %s", ErrUnauthorized, op)
	}
	if !live.Expires.IsZero() && !g.now().Before(live.Expires) {
		delete(g.sessions, s.ID)

		return fmt.Errorf("%w: %s: session expired", ErrUnauthorized, op)
	}

	return nil
}

// Logout ends the session. Unknown ids are ignored.
func (g *Gate) Logout(s Session) {
	g.mu.Lock()
	delete(g.sessions, s.ID)
	g.mu.Unlock()
}
