package backlog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for backlog cards.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a card store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const cardColumns = `id, category, title, location, distance_from_hotel_km, cost,
	rating, desire_to_go, requires_reservation, description, reserved,
	reservation_date, locked_in, created_by, created_at`

func scanCard(row pgx.Row) (*Card, error) {
	c := &Card{}
	err := row.Scan(
		&c.ID,
		&c.Category,
		&c.Title,
		&c.Location,
		&c.DistanceFromHotelKm,
		&c.Cost,
		&c.Rating,
		&c.DesireToGo,
		&c.RequiresReservation,
		&c.Description,
		&c.Reserved,
		&c.ReservationDate,
		&c.LockedIn,
		&c.CreatedBy,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new card and returns the full row.
func (s *Store) Create(ctx context.Context, input CreateCardInput, createdBy *int64) (*Card, error) {
	query := fmt.Sprintf(`INSERT INTO backlog_cards
		(category, title, location, distance_from_hotel_km, cost, rating,
		 desire_to_go, requires_reservation, description, reserved,
		 reservation_date, locked_in, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING %s`, cardColumns)

	row := s.pool.QueryRow(ctx, query,
		input.Category,
		input.Title,
		input.Location,
		input.DistanceFromHotelKm,
		input.Cost,
		input.Rating,
		input.DesireToGo,
		input.RequiresReservation,
		input.Description,
		input.Reserved,
		input.ReservationDate,
		input.LockedIn,
		createdBy,
	)
	c, err := scanCard(row)
	if err != nil {
		return nil, fmt.Errorf("creating card: %w", err)
	}
	return c, nil
}

// GetByID retrieves a card by its id.
func (s *Store) GetByID(ctx context.Context, id int64) (*Card, error) {
	query := fmt.Sprintf(`SELECT %s FROM backlog_cards WHERE id = $1`, cardColumns)
	return scanCard(s.pool.QueryRow(ctx, query, id))
}

// List returns all cards ordered by ascending id.
func (s *Store) List(ctx context.Context) ([]*Card, error) {
	query := fmt.Sprintf(`SELECT %s FROM backlog_cards ORDER BY id ASC`, cardColumns)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}
	defer rows.Close()

	cards := []*Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// Update applies a partial update and returns the updated row. Only fields
// present in the input are written.
func (s *Store) Update(ctx context.Context, id int64, input UpdateCardInput) (*Card, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	set := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if input.Category != nil {
		set("category", *input.Category)
	}
	if input.Title != nil {
		set("title", *input.Title)
	}
	if input.Location != nil {
		set("location", *input.Location)
	}
	if input.DistanceFromHotelKm.Set {
		set("distance_from_hotel_km", input.DistanceFromHotelKm.Ptr())
	}
	if input.Cost.Set {
		set("cost", input.Cost.Ptr())
	}
	if input.Rating.Set {
		set("rating", input.Rating.Ptr())
	}
	if input.DesireToGo.Set {
		set("desire_to_go", input.DesireToGo.Ptr())
	}
	if input.RequiresReservation != nil {
		set("requires_reservation", *input.RequiresReservation)
	}
	if input.Description != nil {
		set("description", *input.Description)
	}
	if input.Reserved != nil {
		set("reserved", *input.Reserved)
	}
	if input.ReservationDate.Set {
		set("reservation_date", input.ReservationDate.Ptr())
	}
	if input.LockedIn != nil {
		set("locked_in", *input.LockedIn)
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE backlog_cards SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, cardColumns)

	return scanCard(s.pool.QueryRow(ctx, query, args...))
}

// Delete removes a card by id. Schedule entries referencing the card are
// removed by the FK cascade.
func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM backlog_cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting card: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
