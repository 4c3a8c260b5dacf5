package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixdash/helixdash/internal/api"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "u1"}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func testUser(role string) api.User {
	return api.User{ID: "u1", Email: "a@b.c", Username: "alice", Role: role, IsActive: true}
}

func TestBegin_ValidTokenAuthenticates(t *testing.T) {
	s := NewStore()
	tok := signedToken(t, time.Now().Add(time.Hour))

	require.NoError(t, s.Begin(testUser("user"), tok))

	assert.True(t, s.Authenticated())
	got, ok := s.Token()
	require.True(t, ok)
	assert.Equal(t, tok, got)

	u, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "alice", u.Username)
}

func TestBegin_RejectsExpiredToken(t *testing.T) {
	s := NewStore()
	err := s.Begin(testUser("user"), signedToken(t, time.Now().Add(-time.Minute)))
	require.ErrorIs(t, err, ErrTokenExpired)
	assert.False(t, s.Authenticated())
}

func TestBegin_RejectsMalformedToken(t *testing.T) {
	s := NewStore()

	require.ErrorIs(t, s.Begin(testUser("user"), "not-a-jwt"), ErrInvalidToken)
	require.ErrorIs(t, s.Begin(testUser("user"), ""), ErrInvalidToken)
	assert.False(t, s.Authenticated())
}

func TestBegin_FailureKeepsPriorState(t *testing.T) {
	s := NewStore()
	good := signedToken(t, time.Now().Add(time.Hour))
	require.NoError(t, s.Begin(testUser("user"), good))

	require.Error(t, s.Begin(testUser("user"), "garbage"))

	got, ok := s.Token()
	require.True(t, ok)
	assert.Equal(t, good, got)
}

func TestBegin_TokenWithoutExpIsAccepted(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Begin(testUser("user"), signedToken(t, time.Time{})))
	assert.True(t, s.Authenticated())
}

func TestAuthenticated_FlipsWhenTokenExpires(t *testing.T) {
	s := NewStore()
	now := time.Now()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Begin(testUser("user"), signedToken(t, now.Add(time.Minute))))
	require.True(t, s.Authenticated())

	now = now.Add(2 * time.Minute)
	assert.False(t, s.Authenticated())

	_, ok := s.Token()
	assert.False(t, ok, "expired session must not hand out its token")
}

func TestClear_ReturnsToAnonymous(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Begin(testUser("user"), signedToken(t, time.Now().Add(time.Hour))))

	s.Clear()

	assert.False(t, s.Authenticated())
	_, ok := s.Current()
	assert.False(t, ok)
	assert.Equal(t, Snapshot{}, s.Get())
}

func TestRequireRole(t *testing.T) {
	s := NewStore()

	require.ErrorIs(t, s.RequireRole("user"), ErrUnauthenticated)

	require.NoError(t, s.Begin(testUser("user"), signedToken(t, time.Now().Add(time.Hour))))

	assert.NoError(t, s.RequireRole(""))
	assert.NoError(t, s.RequireRole("user"))
	assert.ErrorIs(t, s.RequireRole("admin"), ErrForbidden)
}

func TestGet_SnapshotIsDetached(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Begin(testUser("user"), signedToken(t, time.Now().Add(time.Hour))))

	snap := s.Get()
	require.True(t, snap.Authenticated)

	s.Clear()
	assert.Equal(t, "alice", snap.User.Username, "snapshot must not change after Clear")
}
