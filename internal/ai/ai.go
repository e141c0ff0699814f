// Package ai turns photos, free text and links into kitchen data using a
// generative model.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vbonduro/kitchenflow/internal/domain"
)

// Model generates a text reply for a prompt and optional images.
type Model interface {
	Generate(ctx context.Context, prompt string, images []domain.Image) (string, error)
}

type Assistant struct {
	model   Model
	fetcher *PageFetcher
	logger  *slog.Logger
}

func NewAssistant(model Model, fetcher *PageFetcher, logger *slog.Logger) *Assistant {
	if fetcher == nil {
		fetcher = NewPageFetcher(nil, logger)
	}
	return &Assistant{model: model, fetcher: fetcher, logger: logger}
}

func (a *Assistant) IdentifyCravingFromText(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", domain.ErrEmptyName
	}
	reply, err := a.model.Generate(ctx, cravingFromTextPrompt(text), nil)
	if err != nil {
		return "", fmt.Errorf("failed to identify craving: %w", err)
	}
	return parseFoodName(reply)
}

// IdentifyCravingFromLink reads the linked page and names its dish. When the
// page cannot be read the model guesses from the URL alone.
func (a *Assistant) IdentifyCravingFromLink(ctx context.Context, link string) (string, error) {
	if link == "" {
		return "", domain.ErrEmptyName
	}

	prompt := cravingFromURLPrompt(link)
	page, err := a.fetcher.Fetch(ctx, link)
	switch {
	case err != nil:
		a.logger.Warn("failed to scrape link, using url only", "url", link, "error", err)
	case page.empty():
		a.logger.Debug("linked page has no text, using url only", "url", link)
	default:
		prompt = cravingFromPagePrompt(page)
	}

	reply, err := a.model.Generate(ctx, prompt, nil)
	if err != nil {
		return "", fmt.Errorf("failed to identify craving: %w", err)
	}
	return parseFoodName(reply)
}

func (a *Assistant) RecipeDetails(ctx context.Context, foodName string) (*domain.RecipeDetails, error) {
	if foodName == "" {
		return nil, domain.ErrEmptyName
	}
	reply, err := a.model.Generate(ctx, recipePrompt(foodName), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate recipe: %w", err)
	}
	return parseRecipe(reply)
}

func (a *Assistant) ScanFridge(ctx context.Context, images []domain.Image) (*domain.FridgeSnapshot, error) {
	if len(images) == 0 {
		return nil, errors.New("at least one image is required")
	}
	reply, err := a.model.Generate(ctx, FridgePrompt, images)
	if err != nil {
		return nil, fmt.Errorf("failed to scan fridge: %w", err)
	}
	snap, err := parseFridge(reply)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scan result: %w", err)
	}
	a.logger.Info("scanned fridge", "images", len(images), "items", len(snap.Items), "quality", snap.ScanQuality)
	return snap, nil
}
