package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/helixdash/helixdash/internal/api"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func wipeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Register prompts for email, username and password and creates an account.
// A successful registration starts a session immediately.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer wipeBytes(password)

	user, err := a.auth.Register(ctx, api.RegisterRequest{
		Email:    email,
		Username: username,
		Password: string(password),
	})
	if err != nil {
		a.log.Error(ctx, "registration failed", "err", err)
		return err
	}

	a.setMode(ModeOnline)
	fmt.Printf("Welcome, %s!\n", user.Username)
	return nil
}

// Login prompts for credentials and authenticates. An unreachable backend
// flips Mode to offline; bad credentials are reported and leave the session
// anonymous.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer wipeBytes(password)

	user, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			a.log.Warn(ctx, "server unavailable")
			a.setMode(ModeOffline)
		} else {
			a.log.Error(ctx, "login failed", "err", err)
		}
		return err
	}

	a.setMode(ModeOnline)
	fmt.Printf("Logged in as %s (%s)\n", user.Email, user.Role)
	return nil
}

// Logout clears the session and the per-session chat transcript.
func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	a.chat = nil
	fmt.Println("Logged out")
	return nil
}

// WhoAmI prints the authenticated account.
func (a *App) WhoAmI(ctx context.Context) error {
	user, ok := a.sessions.Current()
	if !ok {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("%s (%s), role %s, verified: %v\n", user.Username, user.Email, user.Role, user.IsVerified)
	return nil
}
