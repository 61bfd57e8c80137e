package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func tokenInfoServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id_token") == "" {
			t.Error("expected id_token query parameter")
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGoogleVerifier_Verify(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		clientID string
		wantErr  bool
		wantSub  string
	}{
		{
			name:    "valid token",
			status:  http.StatusOK,
			body:    `{"sub":"g-123","email":"a@example.com","name":"Ada","picture":"https://p/x.png","aud":"client-1"}`,
			wantSub: "g-123",
		},
		{
			name:     "audience match",
			status:   http.StatusOK,
			body:     `{"sub":"g-123","email":"a@example.com","aud":"client-1"}`,
			clientID: "client-1",
			wantSub:  "g-123",
		},
		{
			name:     "audience mismatch",
			status:   http.StatusOK,
			body:     `{"sub":"g-123","email":"a@example.com","aud":"someone-else"}`,
			clientID: "client-1",
			wantErr:  true,
		},
		{
			name:    "provider rejects token",
			status:  http.StatusBadRequest,
			body:    `{"error":"invalid_token"}`,
			wantErr: true,
		},
		{
			name:    "missing subject",
			status:  http.StatusOK,
			body:    `{"email":"a@example.com"}`,
			wantErr: true,
		},
		{
			name:    "missing email",
			status:  http.StatusOK,
			body:    `{"sub":"g-123"}`,
			wantErr: true,
		},
		{
			name:    "malformed response body",
			status:  http.StatusOK,
			body:    `not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := tokenInfoServer(t, tt.status, tt.body)
			v := NewGoogleVerifier(srv.URL, tt.clientID, time.Second)

			claims, err := v.Verify(context.Background(), "some-id-token")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidToken) {
					t.Errorf("expected ErrInvalidToken, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Verify() error: %v", err)
			}
			if claims.Subject != tt.wantSub {
				t.Errorf("expected subject %q, got %q", tt.wantSub, claims.Subject)
			}
		})
	}
}

func TestGoogleVerifier_EmptyToken(t *testing.T) {
	v := NewGoogleVerifier("http://unused", "", time.Second)
	if _, err := v.Verify(context.Background(), ""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for empty token, got %v", err)
	}
}

func TestGoogleVerifier_TimeoutFailsClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	v := NewGoogleVerifier(srv.URL, "", 20*time.Millisecond)
	if _, err := v.Verify(context.Background(), "tok"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken on timeout, got %v", err)
	}
}
