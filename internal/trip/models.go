package trip

import (
	"time"

	"github.com/andrewzhng2/TRVL/internal/opt"
)

// Trip is a planned journey: an owner, a date range, seeded sections, and
// an invite code for joining.
type Trip struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	StartDate  *string   `json:"start_date"`
	EndDate    *string   `json:"end_date"`
	InviteCode string    `json:"invite_code"`
	CreatedBy  *int64    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// Section is one of the four fixed planning boards seeded on trip creation.
type Section struct {
	ID     int64  `json:"id"`
	TripID int64  `json:"trip_id"`
	Kind   string `json:"kind"`
}

// SectionKinds is the fixed set seeded for every new trip, in seed order.
var SectionKinds = []string{"backlog", "schedule", "travel", "packing"}

// Leg is a named span of a trip (a city stay) with an ordering position.
type Leg struct {
	ID         int64   `json:"id"`
	TripID     int64   `json:"trip_id"`
	Name       string  `json:"name"`
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`
	OrderIndex int     `json:"order_index"`
}

// Travel segment edge types.
const (
	EdgeDeparture = "departure" // typically only a to_leg
	EdgeBetween   = "between"   // from_leg and to_leg
	EdgeReturn    = "return"    // typically only a from_leg
)

// TravelSegment is a transit hop anchored to the departure side, the return
// side, or between two legs.
type TravelSegment struct {
	ID            int64     `json:"id"`
	TripID        int64     `json:"trip_id"`
	EdgeType      string    `json:"edge_type"`
	FromLegID     *int64    `json:"from_leg_id"`
	ToLegID       *int64    `json:"to_leg_id"`
	OrderIndex    int       `json:"order_index"`
	TransportType string    `json:"transport_type"`
	Title         string    `json:"title"`
	Badge         string    `json:"badge"`
	StartDate     *string   `json:"start_date"`
	EndDate       *string   `json:"end_date"`
	CreatedAt     time.Time `json:"created_at"`
}

// ScheduledEvent places a backlog card into a (day, hour) slot of the
// schedule grid. At most one card per slot per trip.
type ScheduledEvent struct {
	ID        int64     `json:"id"`
	TripID    int64     `json:"trip_id"`
	CardID    int64     `json:"card_id"`
	DayIndex  int       `json:"day_index"`
	Hour      int       `json:"hour"`
	CreatedBy *int64    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Member is a trip membership row joined with user attribution.
type Member struct {
	UserID   int64     `json:"user_id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Picture  string    `json:"picture"`
	JoinedAt time.Time `json:"joined_at"`
}

// CreateTripInput holds the fields accepted when creating a trip.
type CreateTripInput struct {
	Name      string  `json:"name"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// UpdateTripInput holds the fields that can be patched on a trip.
type UpdateTripInput struct {
	Name      *string           `json:"name"`
	StartDate opt.Field[string] `json:"start_date"`
	EndDate   opt.Field[string] `json:"end_date"`
}

// CreateLegInput holds the fields accepted when creating a leg. A nil
// OrderIndex means "append after the current last leg".
type CreateLegInput struct {
	Name       string  `json:"name"`
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`
	OrderIndex *int    `json:"order_index"`
}

// UpdateLegInput holds the fields that can be patched on a leg. Supplying
// OrderIndex overwrites the index directly; siblings are never shifted.
type UpdateLegInput struct {
	Name       *string           `json:"name"`
	StartDate  opt.Field[string] `json:"start_date"`
	EndDate    opt.Field[string] `json:"end_date"`
	OrderIndex *int              `json:"order_index"`
}

// CreateSegmentInput holds the fields accepted when creating a travel
// segment.
type CreateSegmentInput struct {
	EdgeType      string  `json:"edge_type"`
	FromLegID     *int64  `json:"from_leg_id"`
	ToLegID       *int64  `json:"to_leg_id"`
	OrderIndex    int     `json:"order_index"`
	TransportType string  `json:"transport_type"`
	Title         string  `json:"title"`
	Badge         string  `json:"badge"`
	StartDate     *string `json:"start_date"`
	EndDate       *string `json:"end_date"`
}

// UpdateSegmentInput holds the fields that can be patched on a travel
// segment.
type UpdateSegmentInput struct {
	EdgeType      *string           `json:"edge_type"`
	FromLegID     opt.Field[int64]  `json:"from_leg_id"`
	ToLegID       opt.Field[int64]  `json:"to_leg_id"`
	OrderIndex    *int              `json:"order_index"`
	TransportType *string           `json:"transport_type"`
	Title         *string           `json:"title"`
	Badge         *string           `json:"badge"`
	StartDate     opt.Field[string] `json:"start_date"`
	EndDate       opt.Field[string] `json:"end_date"`
}

// SlotInput is one entry of a schedule overwrite: a card placed at a
// (day, hour) coordinate.
type SlotInput struct {
	CardID   int64 `json:"card_id"`
	DayIndex int   `json:"day_index"`
	Hour     int   `json:"hour"`
}
