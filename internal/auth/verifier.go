package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrInvalidToken is returned for any identity token that cannot be
// positively verified: bad token, provider error, timeout, audience
// mismatch, or missing claims. Verification always fails closed.
var ErrInvalidToken = errors.New("invalid identity token")

// Claims are the identity fields extracted from a verified Google ID token.
type Claims struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// TokenVerifier verifies an external identity token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*Claims, error)
}

// GoogleVerifier verifies Google ID tokens against the tokeninfo endpoint.
type GoogleVerifier struct {
	client       *http.Client
	tokenInfoURL string
	clientID     string
}

// NewGoogleVerifier creates a verifier with a bounded request timeout.
// clientID may be empty, in which case the audience check is skipped.
func NewGoogleVerifier(tokenInfoURL, clientID string, timeout time.Duration) *GoogleVerifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GoogleVerifier{
		client:       &http.Client{Timeout: timeout},
		tokenInfoURL: tokenInfoURL,
		clientID:     clientID,
	}
}

// Verify calls the tokeninfo endpoint and extracts the identity claims.
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*Claims, error) {
	if idToken == "" {
		return nil, ErrInvalidToken
	}

	reqURL := v.tokenInfoURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building tokeninfo request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: tokeninfo returned %d", ErrInvalidToken, resp.StatusCode)
	}

	var info struct {
		Sub     string `json:"sub"`
		Aud     string `json:"aud"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: decoding tokeninfo response: %v", ErrInvalidToken, err)
	}

	if v.clientID != "" && info.Aud != v.clientID {
		return nil, fmt.Errorf("%w: audience mismatch", ErrInvalidToken)
	}
	if info.Sub == "" || info.Email == "" {
		return nil, fmt.Errorf("%w: missing subject or email claim", ErrInvalidToken)
	}

	return &Claims{
		Subject: info.Sub,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
