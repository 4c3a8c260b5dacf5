// Package services contains the feature services of the dashboard client:
// authentication, genomic data, risk scores, MRI scans, the chatbot, and
// presigned storage uploads. Services sit between the CLI and the transport
// client and own the client-side state each feature needs.
package services

import (
	"context"
	"fmt"

	"github.com/helixdash/helixdash/internal/api"
	"github.com/helixdash/helixdash/internal/logging"
	"github.com/helixdash/helixdash/internal/session"
)

// AuthService owns the session lifecycle. Login and Register are the only
// paths that populate the session store; failures leave the prior state
// untouched.
type AuthService struct {
	client   api.Client
	sessions *session.Store
	log      logging.Logger
}

func NewAuthService(client api.Client, sessions *session.Store, log logging.Logger) *AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &AuthService{client: client, sessions: sessions, log: log}
}

// Login authenticates against the backend and, on success, transitions the
// session store to the authenticated state.
func (s *AuthService) Login(ctx context.Context, email, password string) (*api.User, error) {
	res, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := s.sessions.Begin(res.User, res.Token); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info(ctx, "logged in", "user", res.User.Email, "role", res.User.Role)
	return &res.User, nil
}

// Register creates an account and starts a session with the returned token.
func (s *AuthService) Register(ctx context.Context, req api.RegisterRequest) (*api.User, error) {
	res, err := s.client.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	if err := s.sessions.Begin(res.User, res.Token); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info(ctx, "registered", "user", res.User.Email)
	return &res.User, nil
}

// Logout clears the session. The backend holds no client-side session state
// to revoke.
func (s *AuthService) Logout(ctx context.Context) {
	s.sessions.Clear()
	s.log.Info(ctx, "logged out")
}

// Ping probes backend liveness.
func (s *AuthService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
