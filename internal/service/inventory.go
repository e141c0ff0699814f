package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/vbonduro/kitchenflow/internal/domain"
)

const defaultUnit = "pcs"

func (s *KitchenService) Inventory(ctx context.Context) ([]domain.InventoryItem, error) {
	return s.inventory.Load(ctx)
}

// SetInventory replaces the whole inventory.
func (s *KitchenService) SetInventory(ctx context.Context, items []domain.InventoryItem) error {
	return s.inventory.Save(ctx, items)
}

// AddInventoryItem appends item with a fresh id and timestamp. Empty fields
// get defaults: quantity 1, unit pcs, freshness fresh, location fridge.
func (s *KitchenService) AddInventoryItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return nil, domain.ErrEmptyName
	}

	items, err := s.inventory.Load(ctx)
	if err != nil {
		return nil, err
	}
	added := s.newInventoryItem(item)
	if err := s.inventory.Save(ctx, append(items, added)); err != nil {
		return &added, err
	}
	return &added, nil
}

// AddScanResults stores every item of a fridge scan. An item's own storage
// location wins over location.
func (s *KitchenService) AddScanResults(ctx context.Context, snap *domain.FridgeSnapshot, location string) ([]domain.InventoryItem, error) {
	if snap == nil || len(snap.Items) == 0 {
		return []domain.InventoryItem{}, nil
	}

	items, err := s.inventory.Load(ctx)
	if err != nil {
		return nil, err
	}

	added := make([]domain.InventoryItem, 0, len(snap.Items))
	for _, fi := range snap.Items {
		name := strings.TrimSpace(fi.Name)
		if name == "" {
			continue
		}
		loc := fi.StorageLocation
		if strings.TrimSpace(loc) == "" {
			loc = location
		}
		added = append(added, s.newInventoryItem(domain.InventoryItem{
			Name:      name,
			Quantity:  fi.Quantity,
			Unit:      fi.Unit,
			Freshness: fi.Freshness,
			Location:  loc,
		}))
	}
	if len(added) == 0 {
		return added, nil
	}

	s.logger.Info("adding scan results", "count", len(added), "location", location)
	if err := s.inventory.Save(ctx, append(items, added...)); err != nil {
		return added, err
	}
	return added, nil
}

func (s *KitchenService) newInventoryItem(item domain.InventoryItem) domain.InventoryItem {
	item.ID = s.newID()
	item.AddedAt = s.timestamp()
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if item.Unit = strings.TrimSpace(item.Unit); item.Unit == "" {
		item.Unit = defaultUnit
	}
	item.Freshness = domain.ParseFreshness(string(item.Freshness))
	item.Location = domain.NormalizeLocation(item.Location)
	return item
}

func (s *KitchenService) RenameInventoryItem(ctx context.Context, id, name string) (*domain.InventoryItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrEmptyName
	}
	return s.updateInventoryItem(ctx, id, func(it *domain.InventoryItem) { it.Name = name })
}

// SetInventoryQuantity changes the quantity of item id. A quantity of zero or
// less removes the item.
func (s *KitchenService) SetInventoryQuantity(ctx context.Context, id string, quantity float64) (*domain.InventoryItem, error) {
	if quantity <= 0 {
		return nil, s.RemoveInventoryItem(ctx, id)
	}
	return s.updateInventoryItem(ctx, id, func(it *domain.InventoryItem) { it.Quantity = quantity })
}

func (s *KitchenService) updateInventoryItem(ctx context.Context, id string, update func(*domain.InventoryItem)) (*domain.InventoryItem, error) {
	items, err := s.inventory.Load(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(items, func(it domain.InventoryItem) bool { return it.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("inventory item %s: %w", id, domain.ErrNotFound)
	}
	update(&items[i])
	updated := items[i]
	if err := s.inventory.Save(ctx, items); err != nil {
		return &updated, err
	}
	return &updated, nil
}

func (s *KitchenService) RemoveInventoryItem(ctx context.Context, id string) error {
	items, err := s.inventory.Load(ctx)
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(items, func(it domain.InventoryItem) bool { return it.ID == id })
	if len(kept) == len(items) {
		return fmt.Errorf("inventory item %s: %w", id, domain.ErrNotFound)
	}
	return s.inventory.Save(ctx, kept)
}
