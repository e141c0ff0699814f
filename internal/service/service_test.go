package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vbonduro/kitchenflow/internal/classifier"
	"github.com/vbonduro/kitchenflow/internal/db"
	"github.com/vbonduro/kitchenflow/internal/device"
	"github.com/vbonduro/kitchenflow/internal/domain"
	"github.com/vbonduro/kitchenflow/internal/localcache"
	"github.com/vbonduro/kitchenflow/internal/preference"
	"github.com/vbonduro/kitchenflow/internal/realtime"
	"github.com/vbonduro/kitchenflow/internal/reconcile"
	"github.com/vbonduro/kitchenflow/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubAssistant answers every question with canned values.
type stubAssistant struct {
	name    string
	recipe  *domain.RecipeDetails
	snap    *domain.FridgeSnapshot
	err     error
	recErr  error
	gotText []string
	gotLink []string
}

func (s *stubAssistant) IdentifyCravingFromText(_ context.Context, text string) (string, error) {
	s.gotText = append(s.gotText, text)
	return s.name, s.err
}

func (s *stubAssistant) IdentifyCravingFromLink(_ context.Context, link string) (string, error) {
	s.gotLink = append(s.gotLink, link)
	return s.name, s.err
}

func (s *stubAssistant) RecipeDetails(_ context.Context, _ string) (*domain.RecipeDetails, error) {
	return s.recipe, s.recErr
}

func (s *stubAssistant) ScanFridge(_ context.Context, _ []domain.Image) (*domain.FridgeSnapshot, error) {
	return s.snap, s.err
}

// failingShopping is a REST tier that is always down.
type failingShopping struct{}

func (failingShopping) ShoppingItems(context.Context) ([]domain.ShoppingItem, error) {
	return nil, errors.New("backend down")
}

func (failingShopping) PutShoppingItems(context.Context, []domain.ShoppingItem) error {
	return errors.New("backend down")
}

type fixture struct {
	svc       *KitchenService
	db        *sql.DB
	cache     *localcache.Cache
	identity  *device.Provider
	classify  *classifier.Classifier
	shopping  *store.ShoppingItemStore
	inventory *store.InventoryItemStore
	hub       *realtime.Hub
}

type fixtureOptions struct {
	offline   bool
	remoteErr error // with offline, the remote store failed to open
	rest      shoppingClient
	assistant Assistant
}

func newFixture(t *testing.T, opts fixtureOptions) *fixture {
	t.Helper()
	logger := discardLogger()

	cache, err := localcache.New(t.TempDir(), logger)
	require.NoError(t, err)

	f := &fixture{cache: cache, hub: realtime.NewHub(logger)}

	deps := Deps{
		Cravings: localcache.NewCollection[domain.Craving](cache, localcache.KeyCravings),
		Changes:  f.hub,
		Logger:   logger,
	}
	if opts.assistant != nil {
		deps.Assistant = opts.assistant
	}

	var (
		shoppingTiers  []reconcile.Tier[domain.ShoppingItem]
		inventoryTiers []reconcile.Tier[domain.InventoryItem]
		prefs          *preference.Adapter
	)
	if opts.offline {
		f.identity = device.NewProvider(cache, nil, logger)
		prefs = preference.New(nil, f.identity, logger)
		if opts.remoteErr != nil {
			shoppingTiers = append(shoppingTiers, UnavailableTier[domain.ShoppingItem](opts.remoteErr))
			inventoryTiers = append(inventoryTiers, UnavailableTier[domain.InventoryItem](opts.remoteErr))
		}
	} else {
		d, err := db.OpenForTesting()
		require.NoError(t, err)
		t.Cleanup(func() { _ = d.Close() })
		f.db = d

		notify := store.WithNotifier(f.hub)
		f.identity = device.NewProvider(cache, store.NewDeviceStore(d, db.DialectSQLite), logger)
		f.shopping = store.NewShoppingItemStore(d, db.DialectSQLite, notify)
		f.inventory = store.NewInventoryItemStore(d, db.DialectSQLite, notify)
		prefs = preference.New(store.NewPreferenceStore(d, db.DialectSQLite), f.identity, logger)
		deps.Staples = store.NewStapleStore(d, db.DialectSQLite, notify)

		shoppingTiers = append(shoppingTiers, RemoteShoppingTier(f.shopping, f.identity))
		inventoryTiers = append(inventoryTiers, RemoteInventoryTier(f.inventory, f.identity))
	}
	if opts.rest != nil {
		shoppingTiers = append(shoppingTiers, RESTShoppingTier(opts.rest))
	}

	kb, err := classifier.DefaultKnowledge()
	require.NoError(t, err)
	f.classify, err = classifier.New(kb, prefs, 0, logger)
	require.NoError(t, err)

	deps.Identity = f.identity
	deps.Classifier = f.classify
	deps.Shopping = reconcile.New("shopping", localcache.NewCollection[domain.ShoppingItem](cache, localcache.KeyShopping), logger, shoppingTiers...)
	deps.Inventory = reconcile.New("inventory", localcache.NewCollection[domain.InventoryItem](cache, localcache.KeyInventory), logger, inventoryTiers...)

	f.svc = NewKitchenService(deps)
	n := 0
	f.svc.newID = func() string {
		n++
		return fmt.Sprintf("id-%02d", n)
	}
	return f
}

func (f *fixture) localShopping(t *testing.T) []domain.ShoppingItem {
	t.Helper()
	var items []domain.ShoppingItem
	f.cache.Get(localcache.KeyShopping, &items)
	return items
}

func (f *fixture) remoteShopping(t *testing.T) []domain.ShoppingItem {
	t.Helper()
	listID, err := f.identity.ListID(context.Background())
	require.NoError(t, err)
	items, err := f.shopping.ListByList(context.Background(), listID)
	require.NoError(t, err)
	return items
}
