package trip

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
// applies migrations, and truncates the tables so each test starts clean.
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

	_, err = pool.Exec(context.Background(),
		`TRUNCATE trips, backlog_cards, users RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("truncating tables: %v", err)
	}
	return NewStore(pool)
}

func insertCard(t *testing.T, s *Store, title string) int64 {
	t.Helper()
	var id int64
	err := s.pool.QueryRow(context.Background(),
		`INSERT INTO backlog_cards (title) VALUES ($1) RETURNING id`, title).Scan(&id)
	if err != nil {
		t.Fatalf("inserting card: %v", err)
	}
	return id
}

func TestOverwriteSchedule_DuplicateSlotKeepsPriorGrid(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	tr, err := store.CreateTrip(ctx, CreateTripInput{Name: "Japan"}, "invite-japan", nil)
	if err != nil {
		t.Fatalf("creating trip: %v", err)
	}
	cardA := insertCard(t, store, "teamLab Planets")
	cardB := insertCard(t, store, "Fushimi Inari")

	_, err = store.OverwriteSchedule(ctx, tr.ID, []SlotInput{
		{CardID: cardA, DayIndex: 0, Hour: 9},
		{CardID: cardB, DayIndex: 1, Hour: 14},
	}, nil)
	if err != nil {
		t.Fatalf("seeding schedule: %v", err)
	}

	// Two cards in the same slot violate uq_schedule_slot; the whole
	// overwrite must roll back.
	_, err = store.OverwriteSchedule(ctx, tr.ID, []SlotInput{
		{CardID: cardA, DayIndex: 2, Hour: 10},
		{CardID: cardB, DayIndex: 2, Hour: 10},
	}, nil)
	if !errors.Is(err, ErrDuplicateSlot) {
		t.Fatalf("expected ErrDuplicateSlot, got %v", err)
	}

	events, err := store.ListSchedule(ctx, tr.ID)
	if err != nil {
		t.Fatalf("listing schedule: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected prior grid of 2 events, got %d", len(events))
	}
	if events[0].CardID != cardA || events[0].DayIndex != 0 || events[0].Hour != 9 {
		t.Errorf("first slot changed: %+v", events[0])
	}
	if events[1].CardID != cardB || events[1].DayIndex != 1 || events[1].Hour != 14 {
		t.Errorf("second slot changed: %+v", events[1])
	}
}

func TestDeleteTrip_CascadesChildRows(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	var userID int64
	err := store.pool.QueryRow(ctx,
		`INSERT INTO users (google_sub, email) VALUES ('sub-1', 'ada@example.com') RETURNING id`).Scan(&userID)
	if err != nil {
		t.Fatalf("inserting user: %v", err)
	}

	tr, err := store.CreateTrip(ctx, CreateTripInput{Name: "Japan"}, "invite-japan", &userID)
	if err != nil {
		t.Fatalf("creating trip: %v", err)
	}
	leg, err := store.CreateLeg(ctx, tr.ID, CreateLegInput{Name: "Tokyo"})
	if err != nil {
		t.Fatalf("creating leg: %v", err)
	}
	_, err = store.CreateSegment(ctx, tr.ID, CreateSegmentInput{
		EdgeType:      EdgeDeparture,
		ToLegID:       &leg.ID,
		TransportType: "plane",
	})
	if err != nil {
		t.Fatalf("creating segment: %v", err)
	}
	card := insertCard(t, store, "Ghibli Museum")
	_, err = store.OverwriteSchedule(ctx, tr.ID, []SlotInput{{CardID: card, DayIndex: 0, Hour: 9}}, &userID)
	if err != nil {
		t.Fatalf("seeding schedule: %v", err)
	}

	if err := store.DeleteTrip(ctx, tr.ID); err != nil {
		t.Fatalf("deleting trip: %v", err)
	}

	for _, table := range []string{"trip_sections", "trip_legs", "travel_segments", "scheduled_events", "trip_users"} {
		var n int
		if err := store.pool.QueryRow(ctx, `SELECT count(*) FROM `+table).Scan(&n); err != nil {
			t.Fatalf("counting %s: %v", table, err)
		}
		if n != 0 {
			t.Errorf("expected %s empty after trip delete, got %d rows", table, n)
		}
	}
}
