package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andrewzhng2/TRVL/internal/user"
)

// --- mock resolver ---

type mockResolver struct {
	users map[string]*user.User
	err   error
}

func (m *mockResolver) Resolve(_ context.Context, token string) (*user.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users[token], nil
}

func okHandler(t *testing.T, wantUser bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := UserFromContext(r.Context())
		if wantUser && u == nil {
			t.Error("expected user in context")
		}
		if !wantUser && u != nil {
			t.Error("expected no user in context")
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireUser(t *testing.T) {
	resolver := &mockResolver{users: map[string]*user.User{
		"good-token": {ID: 7, Email: "a@example.com"},
	}}

	tests := []struct {
		name       string
		authHeader string
		resolver   SessionResolver
		wantStatus int
		wantUser   bool
	}{
		{"valid token", "Bearer good-token", resolver, http.StatusOK, true},
		{"missing header", "", resolver, http.StatusUnauthorized, false},
		{"malformed header", "good-token", resolver, http.StatusUnauthorized, false},
		{"wrong scheme", "Basic abc", resolver, http.StatusUnauthorized, false},
		{"unknown token", "Bearer nope", resolver, http.StatusUnauthorized, false},
		{"resolver error", "Bearer good-token", &mockResolver{err: errors.New("db down")}, http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireUser(tt.resolver)(okHandler(t, tt.wantUser))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestOptionalUser(t *testing.T) {
	resolver := &mockResolver{users: map[string]*user.User{
		"good-token": {ID: 7, Email: "a@example.com"},
	}}

	tests := []struct {
		name       string
		authHeader string
		resolver   SessionResolver
		wantUser   bool
	}{
		{"valid token injects user", "Bearer good-token", resolver, true},
		{"anonymous passes through", "", resolver, false},
		{"unknown token passes through", "Bearer nope", resolver, false},
		{"resolver error passes through", "Bearer good-token", &mockResolver{err: errors.New("db down")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := OptionalUser(tt.resolver)(okHandler(t, tt.wantUser))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("optional auth must never reject, got %d", rec.Code)
			}
		})
	}
}

func TestUserFromContext_Empty(t *testing.T) {
	if u := UserFromContext(context.Background()); u != nil {
		t.Errorf("expected nil user from empty context, got %+v", u)
	}
}
