package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/kitchenflow/internal/domain"
)

func TestCravings(t *testing.T) {
	f := newFixture(t, fixtureOptions{offline: true})
	ctx := context.Background()

	first, err := f.svc.AddCraving(ctx, domain.Craving{Name: "Ramen"})
	require.NoError(t, err)
	assert.Equal(t, domain.CravingEdit, first.Type)
	_, err = f.svc.AddCraving(ctx, domain.Craving{Name: "Tacos", Type: domain.CravingLink})
	require.NoError(t, err)

	cravings, err := f.svc.Cravings(ctx)
	require.NoError(t, err)
	require.Len(t, cravings, 2)
	assert.Equal(t, "Tacos", cravings[0].Name)

	require.NoError(t, f.svc.RemoveCraving(ctx, first.ID))
	assert.ErrorIs(t, f.svc.RemoveCraving(ctx, first.ID), domain.ErrNotFound)

	_, err = f.svc.AddCraving(ctx, domain.Craving{})
	assert.ErrorIs(t, err, domain.ErrEmptyName)
}

func TestCaptureCraving(t *testing.T) {
	recipe := &domain.RecipeDetails{DishName: "Laksa", Ingredients: []domain.Ingredient{}, Steps: []string{}}
	a := &stubAssistant{name: "Laksa", recipe: recipe}
	f := newFixture(t, fixtureOptions{offline: true, assistant: a})
	ctx := context.Background()

	c, err := f.svc.CaptureCraving(ctx, domain.CravingLink, "https://example.com/laksa")
	require.NoError(t, err)
	assert.Equal(t, "Laksa", c.Name)
	assert.Equal(t, domain.CravingLink, c.Type)
	assert.Equal(t, recipe, c.Recipe)
	assert.Equal(t, []string{"https://example.com/laksa"}, a.gotLink)

	a.recErr = errors.New("quota")
	c, err = f.svc.CaptureCraving(ctx, domain.CravingEdit, "something spicy")
	require.NoError(t, err)
	assert.Nil(t, c.Recipe)
	assert.Equal(t, []string{"something spicy"}, a.gotText)

	cravings, err := f.svc.Cravings(ctx)
	require.NoError(t, err)
	assert.Len(t, cravings, 2)
}

func TestAssistantUnavailable(t *testing.T) {
	f := newFixture(t, fixtureOptions{offline: true})
	ctx := context.Background()

	_, err := f.svc.IdentifyCravingFromText(ctx, "burger")
	assert.ErrorIs(t, err, ErrAssistantUnavailable)
	_, err = f.svc.RecipeDetails(ctx, "burger")
	assert.ErrorIs(t, err, ErrAssistantUnavailable)
	_, err = f.svc.ScanFridge(ctx, nil)
	assert.ErrorIs(t, err, ErrAssistantUnavailable)
	_, err = f.svc.CaptureCraving(ctx, domain.CravingEdit, "burger")
	assert.ErrorIs(t, err, ErrAssistantUnavailable)
}

func TestIdentifyCravingEmptyAnswer(t *testing.T) {
	f := newFixture(t, fixtureOptions{offline: true, assistant: &stubAssistant{}})

	_, err := f.svc.IdentifyCravingFromLink(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, domain.ErrEmptyName)
}
