package user

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultSessionTTL is the session lifetime used when none is configured.
const DefaultSessionTTL = 7 * 24 * time.Hour

// ErrEmailTaken reports a login whose email is already registered under a
// different Google subject. One account per email.
var ErrEmailTaken = errors.New("email already registered")

// Store provides database operations for users and sessions.
type Store struct {
	pool       *pgxpool.Pool
	sessionTTL time.Duration
}

// NewStore creates a user store backed by the given connection pool.
// A non-positive ttl falls back to DefaultSessionTTL.
func NewStore(pool *pgxpool.Pool, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Store{pool: pool, sessionTTL: ttl}
}

const userColumns = `id, google_sub, email, name, picture, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.GoogleSub, &u.Email, &u.Name, &u.Picture, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpsertByGoogleSub inserts a user on first sight of a Google subject and
// refreshes name/picture on repeat logins. A new subject carrying an email
// that already belongs to another account yields ErrEmailTaken.
func (s *Store) UpsertByGoogleSub(ctx context.Context, sub, email, name, picture string) (*User, error) {
	query := fmt.Sprintf(`INSERT INTO users (google_sub, email, name, picture)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (google_sub) DO UPDATE
		SET name = EXCLUDED.name, picture = EXCLUDED.picture, updated_at = now()
		RETURNING %s`, userColumns)

	u, err := scanUser(s.pool.QueryRow(ctx, query, sub, email, name, picture))
	if err != nil {
		// ON CONFLICT absorbs google_sub collisions, so a unique violation
		// here can only be the email key.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("upserting user: %w", err)
	}
	return u, nil
}

// CreateSession creates a new session for the given user. It returns the
// opaque plaintext token (to be sent to the client) and the stored session.
func (s *Store) CreateSession(ctx context.Context, userID int64) (string, *Session, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", nil, fmt.Errorf("generating session token: %w", err)
	}
	plaintext := hex.EncodeToString(b)
	tokenHash := hashToken(plaintext)

	now := time.Now()
	expiresAt := now.Add(s.sessionTTL)

	sess := &Session{}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO sessions (token_hash, user_id, created_at, expires_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, token_hash, user_id, created_at, expires_at`,
		tokenHash, userID, now, expiresAt,
	).Scan(&sess.ID, &sess.TokenHash, &sess.UserID, &sess.CreatedAt, &sess.ExpiresAt)
	if err != nil {
		return "", nil, fmt.Errorf("creating session: %w", err)
	}

	return plaintext, sess, nil
}

// GetSessionUser looks up a session by its plaintext token and returns the
// associated user. An unknown or expired token yields (nil, nil): callers
// treat that as anonymous, not as a failure.
func (s *Store) GetSessionUser(ctx context.Context, plaintext string) (*User, error) {
	tokenHash := hashToken(plaintext)

	query := fmt.Sprintf(`SELECT %s FROM users u
		 JOIN sessions s ON s.user_id = u.id
		 WHERE s.token_hash = $1 AND s.expires_at > now()`,
		prefixColumns("u"))

	u, err := scanUser(s.pool.QueryRow(ctx, query, tokenHash))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting session user: %w", err)
	}
	return u, nil
}

// DeleteSession removes a session by its plaintext token. Deleting an
// unknown token is not an error.
func (s *Store) DeleteSession(ctx context.Context, plaintext string) error {
	tokenHash := hashToken(plaintext)
	if _, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// CleanExpiredSessions deletes all sessions that have expired.
func (s *Store) CleanExpiredSessions(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, fmt.Errorf("cleaning expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func hashToken(plaintext string) string {
	h := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(h[:])
}

// prefixColumns qualifies userColumns with a table alias for joins.
func prefixColumns(alias string) string {
	return fmt.Sprintf("%[1]s.id, %[1]s.google_sub, %[1]s.email, %[1]s.name, %[1]s.picture, %[1]s.created_at, %[1]s.updated_at", alias)
}
