package user

import "time"

// User is an account created from a verified Google identity.
type User struct {
	ID        int64     `json:"id"`
	GoogleSub string    `json:"-"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session is a bearer-token session. Only the SHA-256 hash of the opaque
// token is stored; the plaintext exists only in the login response.
type Session struct {
	ID        int64
	UserID    int64
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}
