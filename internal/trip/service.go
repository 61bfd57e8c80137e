package trip

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNameRequired is returned when a trip is created or renamed with a
	// name that is empty after trimming.
	ErrNameRequired = errors.New("trip name is required")

	// ErrLegNameRequired is returned when a leg is created or renamed with
	// an empty name.
	ErrLegNameRequired = errors.New("leg name is required")

	// ErrEdgeTypeInvalid is returned for a travel segment edge type outside
	// {departure, between, return}.
	ErrEdgeTypeInvalid = errors.New("edge type must be departure, between, or return")

	// ErrDuplicateSlot is returned when a schedule overwrite contains, or
	// would create, two cards in the same (day, hour) slot.
	ErrDuplicateSlot = errors.New("duplicate schedule slot")
)

const defaultTransportType = "plane"

// Service wraps the store with validation, defaulting, and invite-code
// generation.
type Service struct {
	store *Store
}

// NewService creates a trip service.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// --- trips ---

func (s *Service) ListTrips(ctx context.Context) ([]*Trip, error) {
	return s.store.ListTrips(ctx)
}

func (s *Service) GetTrip(ctx context.Context, id int64) (*Trip, error) {
	return s.store.GetTrip(ctx, id)
}

// CreateTrip validates the name, generates an invite code, and creates the
// trip with its four seeded sections in one transaction. When createdBy is
// set the creator is also added as a member.
func (s *Service) CreateTrip(ctx context.Context, input CreateTripInput, createdBy *int64) (*Trip, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	input.Name = name

	code, err := generateInviteCode()
	if err != nil {
		return nil, err
	}

	return s.store.CreateTrip(ctx, input, code, createdBy)
}

func (s *Service) UpdateTrip(ctx context.Context, id int64, input UpdateTripInput) (*Trip, error) {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		input.Name = &name
	}
	return s.store.UpdateTrip(ctx, id, input)
}

func (s *Service) DeleteTrip(ctx context.Context, id int64) error {
	return s.store.DeleteTrip(ctx, id)
}

func (s *Service) ListSections(ctx context.Context, tripID int64) ([]*Section, error) {
	return s.store.ListSections(ctx, tripID)
}

// --- legs ---

func (s *Service) ListLegs(ctx context.Context, tripID int64) ([]*Leg, error) {
	return s.store.ListLegs(ctx, tripID)
}

// CreateLeg validates the name and inserts the leg. When no order index is
// supplied the leg is appended: its index becomes the current leg count.
// Two concurrent creations can observe the same count and collide on an
// index; the data model tolerates that, so it is not serialized here.
func (s *Service) CreateLeg(ctx context.Context, tripID int64, input CreateLegInput) (*Leg, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrLegNameRequired
	}
	input.Name = name
	return s.store.CreateLeg(ctx, tripID, input)
}

func (s *Service) UpdateLeg(ctx context.Context, tripID, legID int64, input UpdateLegInput) (*Leg, error) {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrLegNameRequired
		}
		input.Name = &name
	}
	return s.store.UpdateLeg(ctx, tripID, legID, input)
}

func (s *Service) DeleteLeg(ctx context.Context, tripID, legID int64) error {
	return s.store.DeleteLeg(ctx, tripID, legID)
}

// --- travel segments ---

func (s *Service) ListSegments(ctx context.Context, tripID int64) ([]*TravelSegment, error) {
	return s.store.ListSegments(ctx, tripID)
}

func (s *Service) CreateSegment(ctx context.Context, tripID int64, input CreateSegmentInput) (*TravelSegment, error) {
	if !validEdgeType(input.EdgeType) {
		return nil, ErrEdgeTypeInvalid
	}
	if input.TransportType == "" {
		input.TransportType = defaultTransportType
	}
	return s.store.CreateSegment(ctx, tripID, input)
}

func (s *Service) UpdateSegment(ctx context.Context, tripID, segmentID int64, input UpdateSegmentInput) (*TravelSegment, error) {
	if input.EdgeType != nil && !validEdgeType(*input.EdgeType) {
		return nil, ErrEdgeTypeInvalid
	}
	return s.store.UpdateSegment(ctx, tripID, segmentID, input)
}

func (s *Service) DeleteSegment(ctx context.Context, tripID, segmentID int64) error {
	return s.store.DeleteSegment(ctx, tripID, segmentID)
}

// --- schedule grid ---

func (s *Service) ListSchedule(ctx context.Context, tripID int64) ([]*ScheduledEvent, error) {
	return s.store.ListSchedule(ctx, tripID)
}

// OverwriteSchedule replaces the whole grid for a trip. The input is
// rejected up front if it places two cards in one slot; the store then
// performs the delete-and-insert in a single transaction, so the previous
// grid survives any failure and readers never see a partial grid.
func (s *Service) OverwriteSchedule(ctx context.Context, tripID int64, slots []SlotInput, createdBy *int64) ([]*ScheduledEvent, error) {
	if err := validateSlots(slots); err != nil {
		return nil, err
	}
	return s.store.OverwriteSchedule(ctx, tripID, slots, createdBy)
}

// --- membership ---

// Join adds the user to the trip matching the invite code. Joining a trip
// twice is a no-op.
func (s *Service) Join(ctx context.Context, inviteCode string, userID int64) (*Trip, error) {
	t, err := s.store.GetTripByInviteCode(ctx, inviteCode)
	if err != nil {
		return nil, err
	}
	if err := s.store.AddMember(ctx, t.ID, userID); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) ListMembers(ctx context.Context, tripID int64) ([]*Member, error) {
	return s.store.ListMembers(ctx, tripID)
}

// --- helpers ---

func validEdgeType(edgeType string) bool {
	switch edgeType {
	case EdgeDeparture, EdgeBetween, EdgeReturn:
		return true
	}
	return false
}

func validateSlots(slots []SlotInput) error {
	seen := make(map[[2]int]struct{}, len(slots))
	for _, slot := range slots {
		key := [2]int{slot.DayIndex, slot.Hour}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: day %d hour %d", ErrDuplicateSlot, slot.DayIndex, slot.Hour)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// generateInviteCode produces a 16-character URL-safe code from 12 random
// bytes.
func generateInviteCode() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating invite code: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
