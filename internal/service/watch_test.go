package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/kitchenflow/internal/domain"
	"github.com/vbonduro/kitchenflow/internal/realtime"
	"github.com/vbonduro/kitchenflow/internal/store"
)

func TestWatchShoppingListReloads(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Resolve the list before subscribing so the owner filter is known.
	_, err := f.identity.ListID(ctx)
	require.NoError(t, err)

	got := make(chan []domain.ShoppingItem, 64)
	done := make(chan error, 1)
	go func() {
		done <- f.svc.WatchShoppingList(ctx, func(items []domain.ShoppingItem) { got <- items })
	}()

	// Wait for the subscription before writing.
	require.Eventually(t, func() bool {
		f.hub.Publish(realtime.Change{Table: store.TableShoppingItems, Owner: "someone-else"})
		milk := []domain.ShoppingItem{{ID: "milk", Name: "milk", AddedAt: 1}}
		if err := f.svc.SetShoppingList(context.Background(), milk); err != nil {
			return false
		}
		select {
		case items := <-got:
			return len(items) > 0
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatchInventorySkipsOtherOwners(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan []domain.InventoryItem, 64)
	done := make(chan error, 1)
	go func() {
		done <- f.svc.WatchInventory(ctx, func(items []domain.InventoryItem) { got <- items })
	}()

	require.Eventually(t, func() bool {
		f.hub.Publish(realtime.Change{Table: store.TableInventoryItems, Owner: f.identity.DeviceID()})
		select {
		case <-got:
			return true
		case <-time.After(20 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	// Let reloads from earlier attempts settle.
drain:
	for {
		select {
		case <-got:
		case <-time.After(100 * time.Millisecond):
			break drain
		}
	}

	f.hub.Publish(realtime.Change{Table: store.TableInventoryItems, Owner: "other-device"})
	select {
	case <-got:
		t.Fatal("reloaded for another device")
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatchWithoutChanges(t *testing.T) {
	f := newFixture(t, fixtureOptions{offline: true})
	f.svc.changes = nil

	err := f.svc.WatchInventory(context.Background(), func([]domain.InventoryItem) {})
	assert.ErrorIs(t, err, ErrRealtimeUnavailable)
}
