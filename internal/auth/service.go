package auth

import (
	"context"
	"fmt"

	"github.com/andrewzhng2/TRVL/internal/user"
)

// UserSessions is the store surface the auth service needs: user upsert
// plus session lifecycle.
type UserSessions interface {
	UpsertByGoogleSub(ctx context.Context, sub, email, name, picture string) (*user.User, error)
	CreateSession(ctx context.Context, userID int64) (string, *user.Session, error)
	GetSessionUser(ctx context.Context, token string) (*user.User, error)
	DeleteSession(ctx context.Context, token string) error
}

// Service exchanges external identity tokens for internal sessions and
// resolves bearer tokens back to users.
type Service struct {
	verifier TokenVerifier
	sessions UserSessions
}

// NewService creates an auth service.
func NewService(verifier TokenVerifier, sessions UserSessions) *Service {
	return &Service{verifier: verifier, sessions: sessions}
}

// Login verifies the external ID token, upserts the user by subject, and
// issues a fresh opaque session token. Multiple concurrent sessions per
// user are allowed.
func (s *Service) Login(ctx context.Context, idToken string) (string, *user.User, error) {
	claims, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return "", nil, err
	}

	u, err := s.sessions.UpsertByGoogleSub(ctx, claims.Subject, claims.Email, claims.Name, claims.Picture)
	if err != nil {
		return "", nil, fmt.Errorf("upserting user on login: %w", err)
	}

	token, _, err := s.sessions.CreateSession(ctx, u.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issuing session: %w", err)
	}

	return token, u, nil
}

// Resolve maps a bearer token to a user. It returns (nil, nil) for missing,
// unknown, or expired tokens; endpoints that permit anonymous access treat
// that as "no user", not an error.
func (s *Service) Resolve(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, nil
	}
	return s.sessions.GetSessionUser(ctx, token)
}

// Logout removes the session for the given token if one exists. It is
// idempotent and succeeds for unknown tokens.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.DeleteSession(ctx, token)
}
