package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/vbonduro/kitchenflow/internal/domain"
)

// Cravings lists saved cravings, newest first. They live only in the local
// cache.
func (s *KitchenService) Cravings(ctx context.Context) ([]domain.Craving, error) {
	return s.cravings.Load(ctx)
}

func (s *KitchenService) AddCraving(ctx context.Context, c domain.Craving) (*domain.Craving, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, domain.ErrEmptyName
	}
	if c.ID == "" {
		c.ID = s.newID()
	}
	if c.AddedAt == 0 {
		c.AddedAt = s.timestamp()
	}
	if c.Type == "" {
		c.Type = domain.CravingEdit
	}

	cravings, err := s.cravings.Load(ctx)
	if err != nil {
		return nil, err
	}
	cravings = slices.Insert(cravings, 0, c)
	if err := s.cravings.Save(ctx, cravings); err != nil {
		return nil, fmt.Errorf("failed to save craving: %w", err)
	}
	return &c, nil
}

func (s *KitchenService) RemoveCraving(ctx context.Context, id string) error {
	cravings, err := s.cravings.Load(ctx)
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(cravings, func(c domain.Craving) bool { return c.ID == id })
	if len(kept) == len(cravings) {
		return fmt.Errorf("craving %s: %w", id, domain.ErrNotFound)
	}
	return s.cravings.Save(ctx, kept)
}

// CaptureCraving names the dish behind a typed text or a link, fetches its
// recipe and saves the craving. A missing recipe does not stop the craving
// from being saved.
func (s *KitchenService) CaptureCraving(ctx context.Context, kind domain.CravingType, input string) (*domain.Craving, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, domain.ErrEmptyName
	}

	var (
		name string
		err  error
	)
	switch kind {
	case domain.CravingLink:
		name, err = s.IdentifyCravingFromLink(ctx, input)
	default:
		kind = domain.CravingEdit
		name, err = s.IdentifyCravingFromText(ctx, input)
	}
	if err != nil {
		return nil, err
	}

	recipe, err := s.RecipeDetails(ctx, name)
	if err != nil {
		s.logger.Warn("failed to fetch recipe for craving", "craving", name, "error", err)
		recipe = nil
	}
	return s.AddCraving(ctx, domain.Craving{Name: name, Type: kind, Recipe: recipe})
}
