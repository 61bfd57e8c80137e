package trip

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the SQLSTATE for unique-constraint violations.
const uniqueViolation = "23505"

// Store provides database operations for trips, legs, travel segments, the
// schedule grid, and memberships.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a trip store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const tripColumns = `id, name, start_date, end_date, invite_code, created_by, created_at`

func scanTrip(row pgx.Row) (*Trip, error) {
	t := &Trip{}
	err := row.Scan(&t.ID, &t.Name, &t.StartDate, &t.EndDate, &t.InviteCode, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// CreateTrip inserts the trip, seeds one section per fixed kind, and adds
// the creator membership, all in a single transaction.
func (s *Store) CreateTrip(ctx context.Context, input CreateTripInput, inviteCode string, createdBy *int64) (*Trip, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning trip create: %w", err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`INSERT INTO trips (name, start_date, end_date, invite_code, created_by)
		VALUES ($1, $2, $3, $4, $5) RETURNING %s`, tripColumns)
	t, err := scanTrip(tx.QueryRow(ctx, query, input.Name, input.StartDate, input.EndDate, inviteCode, createdBy))
	if err != nil {
		return nil, fmt.Errorf("creating trip: %w", err)
	}

	for _, kind := range SectionKinds {
		if _, err := tx.Exec(ctx,
			`INSERT INTO trip_sections (trip_id, kind) VALUES ($1, $2)`, t.ID, kind); err != nil {
			return nil, fmt.Errorf("seeding %s section: %w", kind, err)
		}
	}

	if createdBy != nil {
		if _, err := tx.Exec(ctx,
			`INSERT INTO trip_users (trip_id, user_id) VALUES ($1, $2)`, t.ID, *createdBy); err != nil {
			return nil, fmt.Errorf("adding creator membership: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing trip create: %w", err)
	}
	return t, nil
}

// GetTrip retrieves a trip by id.
func (s *Store) GetTrip(ctx context.Context, id int64) (*Trip, error) {
	query := fmt.Sprintf(`SELECT %s FROM trips WHERE id = $1`, tripColumns)
	return scanTrip(s.pool.QueryRow(ctx, query, id))
}

// ListTrips returns all trips, newest first.
func (s *Store) ListTrips(ctx context.Context) ([]*Trip, error) {
	query := fmt.Sprintf(`SELECT %s FROM trips ORDER BY created_at DESC, id DESC`, tripColumns)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing trips: %w", err)
	}
	defer rows.Close()

	trips := []*Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning trip: %w", err)
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

// UpdateTrip applies a partial update and returns the updated row.
func (s *Store) UpdateTrip(ctx context.Context, id int64, input UpdateTripInput) (*Trip, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if input.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *input.Name)
		argIdx++
	}
	if input.StartDate.Set {
		setClauses = append(setClauses, fmt.Sprintf("start_date = $%d", argIdx))
		args = append(args, input.StartDate.Ptr())
		argIdx++
	}
	if input.EndDate.Set {
		setClauses = append(setClauses, fmt.Sprintf("end_date = $%d", argIdx))
		args = append(args, input.EndDate.Ptr())
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetTrip(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE trips SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, tripColumns)
	return scanTrip(s.pool.QueryRow(ctx, query, args...))
}

// DeleteTrip removes a trip. Sections, legs, travel segments, schedule
// entries, and memberships go with it via ON DELETE CASCADE.
func (s *Store) DeleteTrip(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListSections returns the seeded sections for a trip in id order.
func (s *Store) ListSections(ctx context.Context, tripID int64) ([]*Section, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, trip_id, kind FROM trip_sections WHERE trip_id = $1 ORDER BY id ASC`, tripID)
	if err != nil {
		return nil, fmt.Errorf("listing sections: %w", err)
	}
	defer rows.Close()

	sections := []*Section{}
	for rows.Next() {
		sec := &Section{}
		if err := rows.Scan(&sec.ID, &sec.TripID, &sec.Kind); err != nil {
			return nil, fmt.Errorf("scanning section: %w", err)
		}
		sections = append(sections, sec)
	}
	return sections, rows.Err()
}

// --- legs ---

const legColumns = `id, trip_id, name, start_date, end_date, order_index`

func scanLeg(row pgx.Row) (*Leg, error) {
	l := &Leg{}
	err := row.Scan(&l.ID, &l.TripID, &l.Name, &l.StartDate, &l.EndDate, &l.OrderIndex)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ListLegs returns a trip's legs ordered by order_index.
func (s *Store) ListLegs(ctx context.Context, tripID int64) ([]*Leg, error) {
	query := fmt.Sprintf(`SELECT %s FROM trip_legs WHERE trip_id = $1 ORDER BY order_index ASC, id ASC`, legColumns)
	rows, err := s.pool.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("listing legs: %w", err)
	}
	defer rows.Close()

	legs := []*Leg{}
	for rows.Next() {
		l, err := scanLeg(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning leg: %w", err)
		}
		legs = append(legs, l)
	}
	return legs, rows.Err()
}

// CreateLeg inserts a leg. When input.OrderIndex is nil the index defaults
// to the current leg count (append). The count-then-insert is not
// serialized per trip; see the service for the rationale.
func (s *Store) CreateLeg(ctx context.Context, tripID int64, input CreateLegInput) (*Leg, error) {
	orderIndex := 0
	if input.OrderIndex != nil {
		orderIndex = *input.OrderIndex
	} else {
		if err := s.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM trip_legs WHERE trip_id = $1`, tripID).Scan(&orderIndex); err != nil {
			return nil, fmt.Errorf("counting legs: %w", err)
		}
	}

	query := fmt.Sprintf(`INSERT INTO trip_legs (trip_id, name, start_date, end_date, order_index)
		VALUES ($1, $2, $3, $4, $5) RETURNING %s`, legColumns)
	l, err := scanLeg(s.pool.QueryRow(ctx, query, tripID, input.Name, input.StartDate, input.EndDate, orderIndex))
	if err != nil {
		return nil, fmt.Errorf("creating leg: %w", err)
	}
	return l, nil
}

// GetLeg retrieves a leg scoped to its parent trip; a leg id from another
// trip yields pgx.ErrNoRows.
func (s *Store) GetLeg(ctx context.Context, tripID, legID int64) (*Leg, error) {
	query := fmt.Sprintf(`SELECT %s FROM trip_legs WHERE id = $1 AND trip_id = $2`, legColumns)
	return scanLeg(s.pool.QueryRow(ctx, query, legID, tripID))
}

// UpdateLeg applies a partial update. Reordering is a direct index
// overwrite; sibling legs are never shifted.
func (s *Store) UpdateLeg(ctx context.Context, tripID, legID int64, input UpdateLegInput) (*Leg, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if input.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *input.Name)
		argIdx++
	}
	if input.StartDate.Set {
		setClauses = append(setClauses, fmt.Sprintf("start_date = $%d", argIdx))
		args = append(args, input.StartDate.Ptr())
		argIdx++
	}
	if input.EndDate.Set {
		setClauses = append(setClauses, fmt.Sprintf("end_date = $%d", argIdx))
		args = append(args, input.EndDate.Ptr())
		argIdx++
	}
	if input.OrderIndex != nil {
		setClauses = append(setClauses, fmt.Sprintf("order_index = $%d", argIdx))
		args = append(args, *input.OrderIndex)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetLeg(ctx, tripID, legID)
	}

	args = append(args, legID, tripID)
	query := fmt.Sprintf(`UPDATE trip_legs SET %s WHERE id = $%d AND trip_id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, argIdx+1, legColumns)
	return scanLeg(s.pool.QueryRow(ctx, query, args...))
}

// DeleteLeg removes a leg scoped to its parent trip.
func (s *Store) DeleteLeg(ctx context.Context, tripID, legID int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM trip_legs WHERE id = $1 AND trip_id = $2`, legID, tripID)
	if err != nil {
		return fmt.Errorf("deleting leg: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// --- travel segments ---

const segmentColumns = `id, trip_id, edge_type, from_leg_id, to_leg_id, order_index,
	transport_type, title, badge, start_date, end_date, created_at`

func scanSegment(row pgx.Row) (*TravelSegment, error) {
	seg := &TravelSegment{}
	err := row.Scan(
		&seg.ID,
		&seg.TripID,
		&seg.EdgeType,
		&seg.FromLegID,
		&seg.ToLegID,
		&seg.OrderIndex,
		&seg.TransportType,
		&seg.Title,
		&seg.Badge,
		&seg.StartDate,
		&seg.EndDate,
		&seg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return seg, nil
}

// ListSegments returns a trip's travel segments ordered by order_index.
func (s *Store) ListSegments(ctx context.Context, tripID int64) ([]*TravelSegment, error) {
	query := fmt.Sprintf(`SELECT %s FROM travel_segments WHERE trip_id = $1 ORDER BY order_index ASC, id ASC`, segmentColumns)
	rows, err := s.pool.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("listing travel segments: %w", err)
	}
	defer rows.Close()

	segments := []*TravelSegment{}
	for rows.Next() {
		seg, err := scanSegment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning travel segment: %w", err)
		}
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}

// CreateSegment inserts a travel segment. Leg references are FK-checked
// only; nothing verifies they belong to the same trip (unguarded in the
// original data model, kept as-is).
func (s *Store) CreateSegment(ctx context.Context, tripID int64, input CreateSegmentInput) (*TravelSegment, error) {
	query := fmt.Sprintf(`INSERT INTO travel_segments
		(trip_id, edge_type, from_leg_id, to_leg_id, order_index,
		 transport_type, title, badge, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`, segmentColumns)

	seg, err := scanSegment(s.pool.QueryRow(ctx, query,
		tripID,
		input.EdgeType,
		input.FromLegID,
		input.ToLegID,
		input.OrderIndex,
		input.TransportType,
		input.Title,
		input.Badge,
		input.StartDate,
		input.EndDate,
	))
	if err != nil {
		return nil, fmt.Errorf("creating travel segment: %w", err)
	}
	return seg, nil
}

// GetSegment retrieves a segment scoped to its parent trip.
func (s *Store) GetSegment(ctx context.Context, tripID, segmentID int64) (*TravelSegment, error) {
	query := fmt.Sprintf(`SELECT %s FROM travel_segments WHERE id = $1 AND trip_id = $2`, segmentColumns)
	return scanSegment(s.pool.QueryRow(ctx, query, segmentID, tripID))
}

// UpdateSegment applies a partial update scoped to the parent trip.
func (s *Store) UpdateSegment(ctx context.Context, tripID, segmentID int64, input UpdateSegmentInput) (*TravelSegment, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	set := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if input.EdgeType != nil {
		set("edge_type", *input.EdgeType)
	}
	if input.FromLegID.Set {
		set("from_leg_id", input.FromLegID.Ptr())
	}
	if input.ToLegID.Set {
		set("to_leg_id", input.ToLegID.Ptr())
	}
	if input.OrderIndex != nil {
		set("order_index", *input.OrderIndex)
	}
	if input.TransportType != nil {
		set("transport_type", *input.TransportType)
	}
	if input.Title != nil {
		set("title", *input.Title)
	}
	if input.Badge != nil {
		set("badge", *input.Badge)
	}
	if input.StartDate.Set {
		set("start_date", input.StartDate.Ptr())
	}
	if input.EndDate.Set {
		set("end_date", input.EndDate.Ptr())
	}

	if len(setClauses) == 0 {
		return s.GetSegment(ctx, tripID, segmentID)
	}

	args = append(args, segmentID, tripID)
	query := fmt.Sprintf(`UPDATE travel_segments SET %s WHERE id = $%d AND trip_id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, argIdx+1, segmentColumns)
	return scanSegment(s.pool.QueryRow(ctx, query, args...))
}

// DeleteSegment removes a segment scoped to its parent trip.
func (s *Store) DeleteSegment(ctx context.Context, tripID, segmentID int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM travel_segments WHERE id = $1 AND trip_id = $2`, segmentID, tripID)
	if err != nil {
		return fmt.Errorf("deleting travel segment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// --- schedule grid ---

const eventColumns = `id, trip_id, card_id, day_index, hour, created_by, created_at`

func scanEvent(row pgx.Row) (*ScheduledEvent, error) {
	e := &ScheduledEvent{}
	err := row.Scan(&e.ID, &e.TripID, &e.CardID, &e.DayIndex, &e.Hour, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListSchedule returns the trip's schedule grid, ordered by (day, hour)
// for stable output.
func (s *Store) ListSchedule(ctx context.Context, tripID int64) ([]*ScheduledEvent, error) {
	query := fmt.Sprintf(`SELECT %s FROM scheduled_events WHERE trip_id = $1 ORDER BY day_index ASC, hour ASC`, eventColumns)
	rows, err := s.pool.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("listing schedule: %w", err)
	}
	defer rows.Close()

	events := []*ScheduledEvent{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning scheduled event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// OverwriteSchedule replaces every scheduled event of the trip with the
// supplied slots inside a single transaction. A duplicate (day, hour) slot
// trips the uq_schedule_slot constraint and the whole transaction rolls
// back, leaving the previous grid untouched.
func (s *Store) OverwriteSchedule(ctx context.Context, tripID int64, slots []SlotInput, createdBy *int64) ([]*ScheduledEvent, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning schedule overwrite: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM scheduled_events WHERE trip_id = $1`, tripID); err != nil {
		return nil, fmt.Errorf("clearing schedule: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO scheduled_events (trip_id, card_id, day_index, hour, created_by)
		VALUES ($1, $2, $3, $4, $5) RETURNING %s`, eventColumns)

	events := make([]*ScheduledEvent, 0, len(slots))
	for _, slot := range slots {
		e, err := scanEvent(tx.QueryRow(ctx, query, tripID, slot.CardID, slot.DayIndex, slot.Hour, createdBy))
		if err != nil {
			if isUniqueViolation(err) {
				return nil, fmt.Errorf("%w: day %d hour %d", ErrDuplicateSlot, slot.DayIndex, slot.Hour)
			}
			return nil, fmt.Errorf("inserting scheduled event: %w", err)
		}
		events = append(events, e)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing schedule overwrite: %w", err)
	}
	return events, nil
}

// --- membership ---

// GetTripByInviteCode retrieves the trip matching an invite code.
func (s *Store) GetTripByInviteCode(ctx context.Context, code string) (*Trip, error) {
	query := fmt.Sprintf(`SELECT %s FROM trips WHERE invite_code = $1`, tripColumns)
	return scanTrip(s.pool.QueryRow(ctx, query, code))
}

// AddMember adds a user to a trip. Adding an existing member is a no-op
// (ON CONFLICT DO NOTHING on uq_trip_user).
func (s *Store) AddMember(ctx context.Context, tripID, userID int64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO trip_users (trip_id, user_id) VALUES ($1, $2)
		 ON CONFLICT (trip_id, user_id) DO NOTHING`, tripID, userID)
	if err != nil {
		return fmt.Errorf("adding trip member: %w", err)
	}
	return nil
}

// ListMembers returns the trip's members with user attribution, oldest
// membership first.
func (s *Store) ListMembers(ctx context.Context, tripID int64) ([]*Member, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT u.id, u.email, u.name, u.picture, tu.created_at
		 FROM trip_users tu JOIN users u ON u.id = tu.user_id
		 WHERE tu.trip_id = $1 ORDER BY tu.created_at ASC, u.id ASC`, tripID)
	if err != nil {
		return nil, fmt.Errorf("listing trip members: %w", err)
	}
	defer rows.Close()

	members := []*Member{}
	for rows.Next() {
		m := &Member{}
		if err := rows.Scan(&m.UserID, &m.Email, &m.Name, &m.Picture, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("scanning trip member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
