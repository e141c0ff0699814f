package service

import (
	"context"

	"github.com/vbonduro/kitchenflow/internal/domain"
	"github.com/vbonduro/kitchenflow/internal/store"
)

// WatchShoppingList calls onChange with a freshly loaded list after every
// remote change to it until ctx is done. Reloads run in their own goroutine
// and are not waited for.
func (s *KitchenService) WatchShoppingList(ctx context.Context, onChange func([]domain.ShoppingItem)) error {
	owner, err := s.identity.ListID(ctx)
	if err != nil {
		owner = ""
	}
	return s.watch(ctx, store.TableShoppingItems, owner, func() {
		items, err := s.ShoppingList(ctx)
		if err != nil {
			s.logger.Warn("failed to reload shopping list", "error", err)
			return
		}
		onChange(items)
	})
}

// WatchInventory is WatchShoppingList for the inventory.
func (s *KitchenService) WatchInventory(ctx context.Context, onChange func([]domain.InventoryItem)) error {
	return s.watch(ctx, store.TableInventoryItems, s.identity.DeviceID(), func() {
		items, err := s.Inventory(ctx)
		if err != nil {
			s.logger.Warn("failed to reload inventory", "error", err)
			return
		}
		onChange(items)
	})
}

// watch reloads on every change to table. Changes for another owner are
// skipped when owner is known.
func (s *KitchenService) watch(ctx context.Context, table, owner string, reload func()) error {
	if s.changes == nil {
		return ErrRealtimeUnavailable
	}
	ch, cancel := s.changes.Subscribe(table)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c, ok := <-ch:
			if !ok {
				return nil
			}
			if owner != "" && c.Owner != "" && c.Owner != owner {
				continue
			}
			s.logger.Debug("reloading after change", "table", table, "owner", c.Owner)
			go reload()
		}
	}
}
