package backlog

import (
	"context"
	"errors"
	"strings"
)

// ErrTitleRequired is returned when a card is created or renamed with an
// empty title.
var ErrTitleRequired = errors.New("card title is required")

const defaultCategory = "activities"

// Service wraps the store with input validation and defaulting.
type Service struct {
	store *Store
}

// NewService creates a backlog service.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// List returns all cards ordered by ascending id.
func (s *Service) List(ctx context.Context) ([]*Card, error) {
	return s.store.List(ctx)
}

// Create validates and inserts a new card. createdBy may be nil for
// anonymous callers.
func (s *Service) Create(ctx context.Context, input CreateCardInput, createdBy *int64) (*Card, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}
	input.Title = strings.TrimSpace(input.Title)
	if input.Category == "" {
		input.Category = defaultCategory
	}
	return s.store.Create(ctx, input, createdBy)
}

// Update applies a partial update to the card with the given id.
func (s *Service) Update(ctx context.Context, id int64, input UpdateCardInput) (*Card, error) {
	if err := validateUpdate(input); err != nil {
		return nil, err
	}
	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		input.Title = &trimmed
	}
	return s.store.Update(ctx, id, input)
}

// Delete removes the card with the given id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

func validateCreate(input CreateCardInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return ErrTitleRequired
	}
	return nil
}

func validateUpdate(input UpdateCardInput) error {
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return ErrTitleRequired
	}
	return nil
}
