package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/kitchenflow/internal/domain"
	"github.com/vbonduro/kitchenflow/internal/localcache"
	"github.com/vbonduro/kitchenflow/internal/reconcile"
)

func names(items []domain.ShoppingItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func TestAddShoppingItemsClassifies(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	ctx := context.Background()

	added, err := f.svc.AddShoppingItems(ctx, "milk, 老干妈 and kimchi")
	require.NoError(t, err)
	require.Len(t, added, 3)
	assert.Equal(t, []string{"milk", "老干妈", "kimchi"}, names(added))
	assert.Equal(t, domain.StoreAny, added[0].Store)
	assert.Equal(t, domain.Store("Chinese Supermarket"), added[1].Store)
	assert.Equal(t, domain.Store("Korean Mart"), added[2].Store)

	remote := f.remoteShopping(t)
	assert.Equal(t, []string{"milk", "老干妈", "kimchi"}, names(remote))
	assert.Equal(t, names(remote), names(f.localShopping(t)))
}

func TestAddShoppingItemsHintBecomesPreference(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	ctx := context.Background()

	added, err := f.svc.AddShoppingItems(ctx, "milk at Tesco")
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, domain.Store("Tesco"), added[0].Store)

	f.classify.ClearCache()
	assert.Equal(t, domain.Store("Tesco"), f.classify.Classify(ctx, "Milk", ""))
}

func TestAddShoppingItemsSkipsDuplicates(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	ctx := context.Background()

	_, err := f.svc.AddShoppingItems(ctx, "Milk, eggs")
	require.NoError(t, err)

	added, err := f.svc.AddShoppingItems(ctx, "milk, bread, BREAD")
	require.NoError(t, err)
	assert.Equal(t, []string{"bread"}, names(added))

	list, err := f.svc.ShoppingList(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestAddShoppingItemsEmptyInput(t *testing.T) {
	f := newFixture(t, fixtureOptions{})

	_, err := f.svc.AddShoppingItems(context.Background(), " , and ")
	assert.ErrorIs(t, err, domain.ErrEmptyName)
}

func TestAddShoppingNames(t *testing.T) {
	f := newFixture(t, fixtureOptions{offline: true})

	added, err := f.svc.AddShoppingNames(context.Background(), []string{"rice noodles", " ", "peanuts"})
	require.NoError(t, err)
	assert.Equal(t, []string{"rice noodles", "peanuts"}, names(added))

	_, err = f.svc.AddShoppingNames(context.Background(), []string{""})
	assert.ErrorIs(t, err, domain.ErrEmptyName)
}

func TestToggleRemoveAndClear(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	ctx := context.Background()

	added, err := f.svc.AddShoppingItems(ctx, "milk, eggs, bread")
	require.NoError(t, err)

	toggled, err := f.svc.ToggleShoppingItem(ctx, added[0].ID)
	require.NoError(t, err)
	assert.True(t, toggled.Checked)
	_, err = f.svc.ToggleShoppingItem(ctx, added[1].ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveShoppingItem(ctx, added[2].ID))
	assert.ErrorIs(t, f.svc.RemoveShoppingItem(ctx, added[2].ID), domain.ErrNotFound)

	removed, err := f.svc.ClearCompleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Empty(t, f.remoteShopping(t))
	assert.Empty(t, f.localShopping(t))

	_, err = f.svc.ToggleShoppingItem(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetShoppingListPrunes(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	ctx := context.Background()

	added, err := f.svc.AddShoppingItems(ctx, "milk, eggs, bread")
	require.NoError(t, err)

	require.NoError(t, f.svc.SetShoppingList(ctx, added[1:2]))
	assert.Equal(t, []string{"eggs"}, names(f.remoteShopping(t)))

	require.NoError(t, f.svc.SetShoppingList(ctx, nil))
	assert.Empty(t, f.remoteShopping(t))
}

func TestFirstConnectMigratesLocalList(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	ctx := context.Background()

	local := []domain.ShoppingItem{{ID: "a", Name: "tofu", AddedAt: 1}, {ID: "b", Name: "rice", AddedAt: 2}}
	require.NoError(t, f.cache.Set(localcache.KeyShopping, local))

	list, err := f.svc.ShoppingList(ctx)
	require.NoError(t, err)
	assert.Equal(t, local, list)
	assert.Equal(t, []string{"tofu", "rice"}, names(f.remoteShopping(t)))
}

func TestOfflineShoppingUsesLocalCache(t *testing.T) {
	f := newFixture(t, fixtureOptions{offline: true})
	ctx := context.Background()

	_, err := f.svc.AddShoppingItems(ctx, "milk")
	require.NoError(t, err)
	assert.Equal(t, []string{"milk"}, names(f.localShopping(t)))

	list, err := f.svc.ShoppingList(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"milk"}, names(list))
}

func TestUnreachableRemoteFallsBackToLocalCache(t *testing.T) {
	f := newFixture(t, fixtureOptions{offline: true, remoteErr: errors.New("failed to ping database")})
	ctx := context.Background()

	_, err := f.svc.AddShoppingItems(ctx, "milk")
	require.NoError(t, err)
	assert.Equal(t, []string{"milk"}, names(f.localShopping(t)))

	list, err := f.svc.ShoppingList(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"milk"}, names(list))

	_, err = f.svc.AddInventoryItem(ctx, domain.InventoryItem{Name: "eggs", Quantity: 6})
	require.NoError(t, err)
	inv, err := f.svc.Inventory(ctx)
	require.NoError(t, err)
	require.Len(t, inv, 1)
	assert.Equal(t, "eggs", inv[0].Name)
}

func TestRESTFailureIsSurfacedAfterLocalWrite(t *testing.T) {
	f := newFixture(t, fixtureOptions{offline: true, rest: failingShopping{}})

	added, err := f.svc.AddShoppingItems(context.Background(), "milk")
	require.Error(t, err)
	var werr *reconcile.WriteError
	require.True(t, errors.As(err, &werr))
	assert.True(t, werr.LocalSaved)

	assert.Equal(t, []string{"milk"}, names(added))
	assert.Equal(t, []string{"milk"}, names(f.localShopping(t)))
}

func TestShoppingLinkAndRoute(t *testing.T) {
	f := newFixture(t, fixtureOptions{offline: true})
	ctx := context.Background()

	_, err := f.svc.AddShoppingItems(ctx, "milk, eggs at Asda")
	require.NoError(t, err)
	_, err = f.svc.AddShoppingItems(ctx, "kimchi")
	require.NoError(t, err)

	store, link, err := f.svc.ShoppingLink(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Store("Asda"), store)
	assert.Contains(t, link, "milk+eggs+kimchi")

	stops, err := f.svc.ShoppingRoute(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Asda", "Korean Mart"}, stops)
}
