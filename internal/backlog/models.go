package backlog

import (
	"time"

	"github.com/andrewzhng2/TRVL/internal/opt"
)

// Card is a candidate activity on the trip backlog board.
type Card struct {
	ID                  int64     `json:"id"`
	Category            string    `json:"category"`
	Title               string    `json:"title"`
	Location            string    `json:"location"`
	DistanceFromHotelKm *float64  `json:"distance_from_hotel_km"`
	Cost                *float64  `json:"cost"`
	Rating              *float64  `json:"rating"`
	DesireToGo          *float64  `json:"desire_to_go"`
	RequiresReservation bool      `json:"requires_reservation"`
	Description         string    `json:"description"`
	Reserved            bool      `json:"reserved"`
	ReservationDate     *string   `json:"reservation_date"`
	LockedIn            bool      `json:"locked_in"`
	CreatedBy           *int64    `json:"created_by"`
	CreatedAt           time.Time `json:"created_at"`
}

// CreateCardInput holds the fields accepted when creating a card. Only
// Title is required; everything else has a stated default.
type CreateCardInput struct {
	Category            string   `json:"category"`
	Title               string   `json:"title"`
	Location            string   `json:"location"`
	DistanceFromHotelKm *float64 `json:"distance_from_hotel_km"`
	Cost                *float64 `json:"cost"`
	Rating              *float64 `json:"rating"`
	DesireToGo          *float64 `json:"desire_to_go"`
	RequiresReservation bool     `json:"requires_reservation"`
	Description         string   `json:"description"`
	Reserved            bool     `json:"reserved"`
	ReservationDate     *string  `json:"reservation_date"`
	LockedIn            bool     `json:"locked_in"`
}

// UpdateCardInput holds the fields that can be patched on a card. Plain
// pointers cover non-nullable columns; nullable columns use opt.Field so an
// explicit null clears the value while an omitted field leaves it alone.
type UpdateCardInput struct {
	Category            *string            `json:"category"`
	Title               *string            `json:"title"`
	Location            *string            `json:"location"`
	DistanceFromHotelKm opt.Field[float64] `json:"distance_from_hotel_km"`
	Cost                opt.Field[float64] `json:"cost"`
	Rating              opt.Field[float64] `json:"rating"`
	DesireToGo          opt.Field[float64] `json:"desire_to_go"`
	RequiresReservation *bool              `json:"requires_reservation"`
	Description         *string            `json:"description"`
	Reserved            *bool              `json:"reserved"`
	ReservationDate     opt.Field[string]  `json:"reservation_date"`
	LockedIn            *bool              `json:"locked_in"`
}
