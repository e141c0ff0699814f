package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/kitchenflow/internal/domain"
)

func TestAddInventoryItemDefaults(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	ctx := context.Background()

	item, err := f.svc.AddInventoryItem(ctx, domain.InventoryItem{Name: " Yoghurt ", Location: "FREEZER", Freshness: "odd"})
	require.NoError(t, err)
	assert.Equal(t, "Yoghurt", item.Name)
	assert.Equal(t, 1.0, item.Quantity)
	assert.Equal(t, "pcs", item.Unit)
	assert.Equal(t, domain.FreshnessFresh, item.Freshness)
	assert.Equal(t, "freezer", item.Location)

	remote, err := f.inventory.ListByDevice(ctx, f.identity.DeviceID())
	require.NoError(t, err)
	require.Len(t, remote, 1)
	assert.Equal(t, *item, remote[0])

	_, err = f.svc.AddInventoryItem(ctx, domain.InventoryItem{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrEmptyName)
}

func TestAddScanResults(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	ctx := context.Background()

	snap := &domain.FridgeSnapshot{
		Items: []domain.FreshItem{
			{Name: "Spinach", Quantity: 1, Unit: "bag", Freshness: domain.FreshnessUseSoon},
			{Name: "Peas", Quantity: 2, Unit: "bags", StorageLocation: "Freezer"},
			{Name: " "},
		},
		ScanQuality: "good",
	}
	added, err := f.svc.AddScanResults(ctx, snap, "")
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.Equal(t, domain.DefaultLocation, added[0].Location)
	assert.Equal(t, domain.FreshnessUseSoon, added[0].Freshness)
	assert.Equal(t, "freezer", added[1].Location)

	items, err := f.svc.Inventory(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	none, err := f.svc.AddScanResults(ctx, nil, "fridge")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEditInventory(t *testing.T) {
	f := newFixture(t, fixtureOptions{offline: true})
	ctx := context.Background()

	item, err := f.svc.AddInventoryItem(ctx, domain.InventoryItem{Name: "Eggs", Quantity: 6})
	require.NoError(t, err)

	renamed, err := f.svc.RenameInventoryItem(ctx, item.ID, "Free-range eggs")
	require.NoError(t, err)
	assert.Equal(t, "Free-range eggs", renamed.Name)

	updated, err := f.svc.SetInventoryQuantity(ctx, item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4.0, updated.Quantity)

	gone, err := f.svc.SetInventoryQuantity(ctx, item.ID, 0)
	require.NoError(t, err)
	assert.Nil(t, gone)

	items, err := f.svc.Inventory(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = f.svc.RenameInventoryItem(ctx, item.ID, "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.svc.RemoveInventoryItem(ctx, item.ID), domain.ErrNotFound)
}
