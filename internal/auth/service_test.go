package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/andrewzhng2/TRVL/internal/user"
)

type fakeVerifier struct {
	claims *Claims
	err    error
}

func (f *fakeVerifier) Verify(context.Context, string) (*Claims, error) {
	return f.claims, f.err
}

type fakeSessions struct {
	usersBySub map[string]*user.User
	sessions   map[string]int64
	nextID     int64
	deletes    int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		usersBySub: make(map[string]*user.User),
		sessions:   make(map[string]int64),
	}
}

func (f *fakeSessions) UpsertByGoogleSub(_ context.Context, sub, email, name, picture string) (*user.User, error) {
	if u, ok := f.usersBySub[sub]; ok {
		u.Name = name
		u.Picture = picture
		return u, nil
	}
	f.nextID++
	u := &user.User{ID: f.nextID, GoogleSub: sub, Email: email, Name: name, Picture: picture}
	f.usersBySub[sub] = u
	return u, nil
}

func (f *fakeSessions) CreateSession(_ context.Context, userID int64) (string, *user.Session, error) {
	token := "tok-" + string(rune('a'+len(f.sessions)))
	f.sessions[token] = userID
	return token, &user.Session{UserID: userID}, nil
}

func (f *fakeSessions) GetSessionUser(_ context.Context, token string) (*user.User, error) {
	uid, ok := f.sessions[token]
	if !ok {
		return nil, nil
	}
	for _, u := range f.usersBySub {
		if u.ID == uid {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeSessions) DeleteSession(_ context.Context, token string) error {
	delete(f.sessions, token)
	f.deletes++
	return nil
}

func TestService_Login_UpsertsAndIssuesToken(t *testing.T) {
	sessions := newFakeSessions()
	svc := NewService(&fakeVerifier{claims: &Claims{Subject: "g-1", Email: "a@example.com", Name: "Ada"}}, sessions)

	token, u, err := svc.Login(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if token == "" {
		t.Error("expected non-empty session token")
	}
	if u.Email != "a@example.com" {
		t.Errorf("unexpected user: %+v", u)
	}

	// Repeat login refreshes profile and keeps the same user.
	svc2 := NewService(&fakeVerifier{claims: &Claims{Subject: "g-1", Email: "a@example.com", Name: "Ada L."}}, sessions)
	_, u2, err := svc2.Login(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("second Login() error: %v", err)
	}
	if u2.ID != u.ID {
		t.Errorf("expected same user id on repeat login, got %d and %d", u.ID, u2.ID)
	}
	if u2.Name != "Ada L." {
		t.Errorf("expected refreshed name, got %q", u2.Name)
	}
	if len(sessions.sessions) != 2 {
		t.Errorf("expected two concurrent sessions, got %d", len(sessions.sessions))
	}
}

func TestService_Login_VerifierFailure(t *testing.T) {
	svc := NewService(&fakeVerifier{err: ErrInvalidToken}, newFakeSessions())
	if _, _, err := svc.Login(context.Background(), "bad"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestService_Resolve(t *testing.T) {
	sessions := newFakeSessions()
	svc := NewService(&fakeVerifier{claims: &Claims{Subject: "g-1", Email: "a@example.com"}}, sessions)

	token, u, err := svc.Login(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	got, err := svc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got == nil || got.ID != u.ID {
		t.Errorf("expected user %d, got %+v", u.ID, got)
	}

	if got, _ := svc.Resolve(context.Background(), "unknown"); got != nil {
		t.Errorf("expected nil user for unknown token, got %+v", got)
	}
	if got, _ := svc.Resolve(context.Background(), ""); got != nil {
		t.Errorf("expected nil user for empty token, got %+v", got)
	}
}

func TestService_Logout_Idempotent(t *testing.T) {
	sessions := newFakeSessions()
	svc := NewService(&fakeVerifier{claims: &Claims{Subject: "g-1", Email: "a@example.com"}}, sessions)

	token, _, err := svc.Login(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("first Logout() error: %v", err)
	}
	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("second Logout() error: %v", err)
	}
	if got, _ := svc.Resolve(context.Background(), token); got != nil {
		t.Errorf("expected session gone after logout, got %+v", got)
	}
}
