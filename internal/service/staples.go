package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vbonduro/kitchenflow/internal/domain"
)

// PantryStaples lists the device's staples, lowest stock first.
func (s *KitchenService) PantryStaples(ctx context.Context) ([]domain.PantryStaple, error) {
	if s.staples == nil {
		return nil, ErrRemoteUnavailable
	}
	return s.staples.ListByDevice(ctx, s.identity.DeviceID())
}

// AddPantryStaple rejects a score outside [0,100] before anything is written.
func (s *KitchenService) AddPantryStaple(ctx context.Context, name string, score int) (*domain.PantryStaple, error) {
	if err := domain.ValidateScore(score); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrEmptyName
	}
	if s.staples == nil {
		return nil, ErrRemoteUnavailable
	}
	return s.staples.Create(ctx, s.identity.DeviceID(), name, score)
}

// UpdatePantryScore sets the stock level of staple id.
func (s *KitchenService) UpdatePantryScore(ctx context.Context, id string, score int) (*domain.PantryStaple, error) {
	if err := domain.ValidateScore(score); err != nil {
		return nil, err
	}
	if s.staples == nil {
		return nil, ErrRemoteUnavailable
	}
	return s.staples.UpdateScore(ctx, id, score)
}

// IncrementPantryScore raises a staple's stock by step, or by the default
// increment when step is not positive, stopping at the maximum.
func (s *KitchenService) IncrementPantryScore(ctx context.Context, id string, step int) (*domain.PantryStaple, error) {
	if step <= 0 {
		step = domain.DefaultIncrement
	}
	return s.adjustPantryScore(ctx, id, step)
}

// DecrementPantryScore lowers a staple's stock by step, or by the default
// decrement when step is not positive, stopping at the minimum.
func (s *KitchenService) DecrementPantryScore(ctx context.Context, id string, step int) (*domain.PantryStaple, error) {
	if step <= 0 {
		step = domain.DefaultDecrement
	}
	return s.adjustPantryScore(ctx, id, -step)
}

func (s *KitchenService) adjustPantryScore(ctx context.Context, id string, delta int) (*domain.PantryStaple, error) {
	if s.staples == nil {
		return nil, ErrRemoteUnavailable
	}
	staple, err := s.staples.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if staple == nil {
		return nil, fmt.Errorf("pantry staple %s: %w", id, domain.ErrNotFound)
	}
	score := min(max(staple.Score+delta, domain.MinScore), domain.MaxScore)
	if score == staple.Score {
		return staple, nil
	}
	return s.staples.UpdateScore(ctx, id, score)
}

func (s *KitchenService) DeletePantryStaple(ctx context.Context, id string) error {
	if s.staples == nil {
		return ErrRemoteUnavailable
	}
	return s.staples.Delete(ctx, id)
}
