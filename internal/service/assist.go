package service

import (
	"context"

	"github.com/vbonduro/kitchenflow/internal/domain"
)

func (s *KitchenService) IdentifyCravingFromText(ctx context.Context, text string) (string, error) {
	if s.assistant == nil {
		return "", ErrAssistantUnavailable
	}
	name, err := s.assistant.IdentifyCravingFromText(ctx, text)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", domain.ErrEmptyName
	}
	return name, nil
}

func (s *KitchenService) IdentifyCravingFromLink(ctx context.Context, link string) (string, error) {
	if s.assistant == nil {
		return "", ErrAssistantUnavailable
	}
	name, err := s.assistant.IdentifyCravingFromLink(ctx, link)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", domain.ErrEmptyName
	}
	return name, nil
}

func (s *KitchenService) RecipeDetails(ctx context.Context, foodName string) (*domain.RecipeDetails, error) {
	if s.assistant == nil {
		return nil, ErrAssistantUnavailable
	}
	return s.assistant.RecipeDetails(ctx, foodName)
}

func (s *KitchenService) ScanFridge(ctx context.Context, images []domain.Image) (*domain.FridgeSnapshot, error) {
	if s.assistant == nil {
		return nil, ErrAssistantUnavailable
	}
	return s.assistant.ScanFridge(ctx, images)
}
