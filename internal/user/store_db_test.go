package user

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
)

// testStore connects to the database named by TRVL_TEST_DATABASE_URL,
// applies migrations, and truncates the users table (sessions cascade).
// Tests using it are skipped when the variable is unset.
func testStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TRVL_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TRVL_TEST_DATABASE_URL not set")
	}

	m, err := migrate.New("file://../../migrations", url)
	if err != nil {
		t.Fatalf("opening migrations: %v", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("applying migrations: %v", err)
	}
	m.Close()

	pool, err := pgxpool.New(context.Background(), url)
	if err != nil {
		t.Fatalf("connecting to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(context.Background(), `TRUNCATE users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncating users: %v", err)
	}
	return NewStore(pool, 0)
}

func TestUpsertByGoogleSub_DuplicateEmail(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	first, err := store.UpsertByGoogleSub(ctx, "sub-a", "ada@example.com", "Ada", "")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}

	// A repeat login from the same subject is fine and refreshes profile
	// fields.
	again, err := store.UpsertByGoogleSub(ctx, "sub-a", "ada@example.com", "Ada Lovelace", "pic")
	if err != nil {
		t.Fatalf("repeat login: %v", err)
	}
	if again.ID != first.ID {
		t.Errorf("repeat login changed user id: %d then %d", first.ID, again.ID)
	}
	if again.Name != "Ada Lovelace" {
		t.Errorf("expected refreshed name, got %q", again.Name)
	}

	// A different subject with the same email is rejected: one account per
	// email.
	_, err = store.UpsertByGoogleSub(ctx, "sub-b", "ada@example.com", "Impostor", "")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestGetSessionUser_ExpiredSession(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	u, err := store.UpsertByGoogleSub(ctx, "sub-a", "ada@example.com", "Ada", "")
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}
	token, _, err := store.CreateSession(ctx, u.ID)
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}

	got, err := store.GetSessionUser(ctx, token)
	if err != nil {
		t.Fatalf("resolving fresh session: %v", err)
	}
	if got == nil || got.ID != u.ID {
		t.Fatalf("expected user %d, got %+v", u.ID, got)
	}

	if _, err := store.pool.Exec(ctx, `UPDATE sessions SET expires_at = now() - interval '1 minute'`); err != nil {
		t.Fatalf("expiring session: %v", err)
	}

	got, err = store.GetSessionUser(ctx, token)
	if err != nil {
		t.Fatalf("resolving expired session: %v", err)
	}
	if got != nil {
		t.Errorf("expected expired session to resolve to no user, got id %d", got.ID)
	}

	n, err := store.CleanExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("cleaning sessions: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 expired session cleaned, got %d", n)
	}
}
