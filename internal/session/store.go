// Package session holds the client-side authenticated identity. The session
// is a tagged state — anonymous or authenticated — and changes only through
// validated transitions (Begin, Clear). No code path may set the user and
// token fields independently.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/helixdash/helixdash/internal/api"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
)

// Snapshot is a read-only view of the current session.
type Snapshot struct {
	Authenticated bool
	User          api.User
	Token         string
}

// Store is the process-wide session state. The zero value is anonymous.
// Store implements api.TokenSource.
type Store struct {
	mu        sync.RWMutex
	user      *api.User
	token     string
	expiresAt time.Time // zero when the token carries no exp claim

	now func() time.Time // test seam
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// Begin transitions the store to the authenticated state. The token must be
// a well-formed JWT; an expired exp claim is rejected. On error the previous
// state is left untouched.
func (s *Store) Begin(user api.User, token string) error {
	if token == "" {
		return ErrInvalidToken
	}

	claims := jwt.RegisteredClaims{}
	// The signature is verified by the backend; the client only inspects
	// the expiry to keep token validity and authenticated state coupled.
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
		if !expiresAt.After(s.now()) {
			return ErrTokenExpired
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.user = &u
	s.token = token
	s.expiresAt = expiresAt
	return nil
}

// Clear transitions the store back to anonymous.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.token = ""
	s.expiresAt = time.Time{}
}

// Authenticated reports whether a live session exists. A session whose token
// expiry has passed is no longer authenticated.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.liveLocked()
}

func (s *Store) liveLocked() bool {
	if s.user == nil {
		return false
	}
	if !s.expiresAt.IsZero() && !s.expiresAt.After(s.now()) {
		return false
	}
	return true
}

// Token implements api.TokenSource. Expired sessions yield no token.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.liveLocked() {
		return "", false
	}
	return s.token, true
}

// Current returns the authenticated user, if any.
func (s *Store) Current() (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.liveLocked() {
		return api.User{}, false
	}
	return *s.user, true
}

// Get returns a point-in-time view of the session.
func (s *Store) Get() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.liveLocked() {
		return Snapshot{}
	}
	return Snapshot{Authenticated: true, User: *s.user, Token: s.token}
}

// RequireRole is the route-guard check: ErrUnauthenticated without a live
// session, ErrForbidden when role is non-empty and does not match the
// user's role.
func (s *Store) RequireRole(role string) error {
	user, ok := s.Current()
	if !ok {
		return ErrUnauthenticated
	}
	if role != "" && user.Role != role {
		return fmt.Errorf("%w: requires role %q", ErrForbidden, role)
	}
	return nil
}
