package service

import (
	"context"
	"fmt"
	"time"

	"github.com/PierreVega17/Backend-Finanzas/internal/domain"
)

// MovementService handles movement CRUD and validation. Every operation is
// scoped to the owning user.
type MovementService struct {
	movements domain.MovementRepository
}

// NewMovementService creates a new MovementService.
func NewMovementService(movements domain.MovementRepository) *MovementService {
	return &MovementService{movements: movements}
}

// Create stores a new movement for the user. The date defaults to now and the
// currency to "$" when not supplied.
func (s *MovementService) Create(ctx context.Context, userID int64, m *domain.Movement) error {
	m.UserID = userID
	if m.Currency == "" {
		m.Currency = domain.DefaultCurrency
	}
	if m.Date.IsZero() {
		m.Date = time.Now().UTC()
	}
	if err := validateMovement(m); err != nil {
		return err
	}

	if err := s.movements.Create(ctx, m); err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// ListByUser returns the user's movements, newest first, optionally filtered
// to a year or a year and month.
func (s *MovementService) ListByUser(ctx context.Context, userID int64, filter domain.MovementFilter) ([]domain.Movement, error) {
	if filter.Month != 0 && filter.Year == 0 {
		return nil, fmt.Errorf("%w: month filter requires a year", domain.ErrInvalidInput)
	}
	if filter.Month < 0 || filter.Month > 12 {
		return nil, fmt.Errorf("%w: invalid month %d", domain.ErrInvalidInput, filter.Month)
	}
	return s.movements.ListByUser(ctx, userID, filter)
}

// Update applies the provided fields to the user's movement. Absent fields
// keep their stored values; in particular an absent currency never blanks the
// stored one.
func (s *MovementService) Update(ctx context.Context, userID, id int64, patch domain.MovementPatch) (*domain.Movement, error) {
	m, err := s.movements.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Type != nil {
		m.Type = *patch.Type
	}
	if patch.Amount != nil {
		m.Amount = *patch.Amount
	}
	if patch.Currency != nil && *patch.Currency != "" {
		m.Currency = *patch.Currency
	}
	if patch.Category != nil {
		m.Category = *patch.Category
	}
	if patch.Description != nil {
		m.Description = *patch.Description
	}
	if patch.Date != nil {
		m.Date = *patch.Date
	}
	if err := validateMovement(m); err != nil {
		return nil, err
	}

	if err := s.movements.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("update movement: %w", err)
	}
	return m, nil
}

// Delete removes the user's movement. A foreign or unknown id is ErrNotFound.
func (s *MovementService) Delete(ctx context.Context, userID, id int64) error {
	return s.movements.Delete(ctx, userID, id)
}

func validateMovement(m *domain.Movement) error {
	if !m.Type.Valid() {
		return fmt.Errorf("%w: invalid movement type %q", domain.ErrInvalidInput, m.Type)
	}
	if m.Amount <= 0 {
		return fmt.Errorf("%w: amount must be greater than 0", domain.ErrInvalidInput)
	}
	if !domain.ValidCurrency(m.Currency) {
		return fmt.Errorf("%w: invalid currency %q", domain.ErrInvalidInput, m.Currency)
	}
	if len(m.Category) > 50 {
		return fmt.Errorf("%w: category must be at most 50 characters", domain.ErrInvalidInput)
	}
	if len(m.Description) > 200 {
		return fmt.Errorf("%w: description must be at most 200 characters", domain.ErrInvalidInput)
	}
	return nil
}
