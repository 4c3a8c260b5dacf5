package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixdash/helixdash/internal/api"
	"github.com/helixdash/helixdash/internal/session"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestAuthService_LoginPopulatesSession(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	client := &fakeClient{
		loginFn: func(_ context.Context, email, password string) (*api.AuthResult, error) {
			assert.Equal(t, "ada@example.com", email)
			assert.Equal(t, "s3cret", password)
			return &api.AuthResult{
				Token: token,
				User:  api.User{ID: "user-1", Email: email, Role: "patient"},
			}, nil
		},
	}

	sessions := session.NewStore()
	svc := NewAuthService(client, sessions, nil)

	user, err := svc.Login(context.Background(), "ada@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)

	require.True(t, sessions.Authenticated())
	got, ok := sessions.Token()
	require.True(t, ok)
	assert.Equal(t, token, got)
}

func TestAuthService_LoginFailureLeavesSessionAnonymous(t *testing.T) {
	client := &fakeClient{
		loginFn: func(context.Context, string, string) (*api.AuthResult, error) {
			return nil, api.ErrUnauthorized
		},
	}

	sessions := session.NewStore()
	svc := NewAuthService(client, sessions, nil)

	_, err := svc.Login(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.False(t, sessions.Authenticated())
}

func TestAuthService_LoginRejectsMalformedToken(t *testing.T) {
	client := &fakeClient{
		loginFn: func(context.Context, string, string) (*api.AuthResult, error) {
			return &api.AuthResult{Token: "not-a-jwt", User: api.User{ID: "user-1"}}, nil
		},
	}

	sessions := session.NewStore()
	svc := NewAuthService(client, sessions, nil)

	_, err := svc.Login(context.Background(), "ada@example.com", "s3cret")
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrInvalidToken)
	assert.False(t, sessions.Authenticated())
}

func TestAuthService_RegisterStartsSession(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	client := &fakeClient{
		registerFn: func(_ context.Context, req api.RegisterRequest) (*api.AuthResult, error) {
			return &api.AuthResult{
				Token: token,
				User:  api.User{ID: "user-2", Email: req.Email, Username: req.Username},
			}, nil
		},
	}

	sessions := session.NewStore()
	svc := NewAuthService(client, sessions, nil)

	user, err := svc.Register(context.Background(), api.RegisterRequest{
		Email:    "grace@example.com",
		Username: "grace",
		Password: "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, "grace", user.Username)
	assert.True(t, sessions.Authenticated())
}

func TestAuthService_RegisterFailure(t *testing.T) {
	wantErr := errors.New("email already registered")
	client := &fakeClient{
		registerFn: func(context.Context, api.RegisterRequest) (*api.AuthResult, error) {
			return nil, wantErr
		},
	}

	sessions := session.NewStore()
	svc := NewAuthService(client, sessions, nil)

	_, err := svc.Register(context.Background(), api.RegisterRequest{Email: "grace@example.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
	assert.False(t, sessions.Authenticated())
}

func TestAuthService_LogoutClearsSession(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	client := &fakeClient{
		loginFn: func(context.Context, string, string) (*api.AuthResult, error) {
			return &api.AuthResult{Token: token, User: api.User{ID: "user-1"}}, nil
		},
	}

	sessions := session.NewStore()
	svc := NewAuthService(client, sessions, nil)

	_, err := svc.Login(context.Background(), "ada@example.com", "s3cret")
	require.NoError(t, err)
	require.True(t, sessions.Authenticated())

	svc.Logout(context.Background())
	assert.False(t, sessions.Authenticated())
	_, ok := sessions.Token()
	assert.False(t, ok)
}
