package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixdash/helixdash/internal/api"
	"github.com/helixdash/helixdash/internal/logging"
	"github.com/helixdash/helixdash/internal/services"
	"github.com/helixdash/helixdash/internal/session"
)

// fakeAPI embeds api.Client; only the overridden methods may be called.
type fakeAPI struct {
	api.Client

	loginFn    func(ctx context.Context, email, password string) (*api.AuthResult, error)
	registerFn func(ctx context.Context, req api.RegisterRequest) (*api.AuthResult, error)
	pingFn     func(ctx context.Context) error
	variantsFn func(ctx context.Context, userID string) ([]api.Variant, error)
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*api.AuthResult, error) {
	return f.loginFn(ctx, email, password)
}

func (f *fakeAPI) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResult, error) {
	return f.registerFn(ctx, req)
}

func (f *fakeAPI) Ping(ctx context.Context) error {
	return f.pingFn(ctx)
}

func (f *fakeAPI) Variants(ctx context.Context, userID string) ([]api.Variant, error) {
	return f.variantsFn(ctx, userID)
}

func testToken(t *testing.T) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func newTestApp(client api.Client) *App {
	sessions := session.NewStore()
	return &App{
		log:      logging.Nop(),
		sessions: sessions,
		auth:     services.NewAuthService(client, sessions, nil),
		reader:   bufio.NewReader(strings.NewReader("")),
	}
}

func stubInputs(t *testing.T, text string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return text, nil }
	getPassword = func(_ io.Writer) ([]byte, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func TestApp_LoginSuccess(t *testing.T) {
	stubInputs(t, "ada@example.com", []byte("s3cret"))

	token := testToken(t)
	client := &fakeAPI{
		loginFn: func(_ context.Context, email, password string) (*api.AuthResult, error) {
			assert.Equal(t, "ada@example.com", email)
			assert.Equal(t, "s3cret", password)
			return &api.AuthResult{Token: token, User: api.User{ID: "user-1", Email: email, Role: "patient"}}, nil
		},
	}

	app := newTestApp(client)
	require.NoError(t, app.Login(context.Background()))

	assert.True(t, app.isLoggedIn())
	assert.Equal(t, ModeOnline, app.Mode)
}

func TestApp_LoginUnavailableFlipsOffline(t *testing.T) {
	stubInputs(t, "ada@example.com", []byte("s3cret"))

	client := &fakeAPI{
		loginFn: func(context.Context, string, string) (*api.AuthResult, error) {
			return nil, api.ErrUnavailable
		},
	}

	app := newTestApp(client)
	err := app.Login(context.Background())
	require.Error(t, err)

	assert.False(t, app.isLoggedIn())
	assert.Equal(t, ModeOffline, app.Mode)
}

func TestApp_LoginBadCredentials(t *testing.T) {
	stubInputs(t, "ada@example.com", []byte("wrong"))

	client := &fakeAPI{
		loginFn: func(context.Context, string, string) (*api.AuthResult, error) {
			return nil, api.ErrUnauthorized
		},
	}

	app := newTestApp(client)
	err := app.Login(context.Background())
	require.Error(t, err)

	assert.False(t, app.isLoggedIn())
	assert.NotEqual(t, ModeOffline, app.Mode)
}

func TestApp_RegisterSuccess(t *testing.T) {
	stubInputs(t, "grace", []byte("s3cret"))

	token := testToken(t)
	client := &fakeAPI{
		registerFn: func(_ context.Context, req api.RegisterRequest) (*api.AuthResult, error) {
			return &api.AuthResult{Token: token, User: api.User{ID: "user-2", Username: req.Username}}, nil
		},
	}

	app := newTestApp(client)
	require.NoError(t, app.Register(context.Background()))
	assert.True(t, app.isLoggedIn())
}

func TestApp_LogoutClearsSessionAndChat(t *testing.T) {
	stubInputs(t, "ada@example.com", []byte("s3cret"))

	token := testToken(t)
	client := &fakeAPI{
		loginFn: func(context.Context, string, string) (*api.AuthResult, error) {
			return &api.AuthResult{Token: token, User: api.User{ID: "user-1"}}, nil
		},
	}

	app := newTestApp(client)
	app.chats = services.NewChatService(client, nil)
	require.NoError(t, app.Login(context.Background()))
	app.chat = app.chats.NewSession("user-1")

	require.NoError(t, app.Logout(context.Background()))
	assert.False(t, app.isLoggedIn())
	assert.Nil(t, app.chat)
}

func TestApp_PingModes(t *testing.T) {
	up := false
	client := &fakeAPI{
		pingFn: func(context.Context) error {
			if up {
				return nil
			}
			return api.ErrUnavailable
		},
	}

	app := newTestApp(client)
	require.Error(t, app.Ping(context.Background()))
	up = true
	require.NoError(t, app.Ping(context.Background()))
}
