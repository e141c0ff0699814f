package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vbonduro/kitchenflow/internal/classifier"
	"github.com/vbonduro/kitchenflow/internal/domain"
)

// classifyConcurrency bounds parallel classification of one batch.
const classifyConcurrency = 8

func (s *KitchenService) ShoppingList(ctx context.Context) ([]domain.ShoppingItem, error) {
	return s.shopping.Load(ctx)
}

// SetShoppingList replaces the whole shopping list.
func (s *KitchenService) SetShoppingList(ctx context.Context, items []domain.ShoppingItem) error {
	return s.shopping.Save(ctx, items)
}

// AddShoppingItems parses free text such as "milk, eggs at Tesco", classifies
// every name not already on the list and appends them. The new items are
// returned even when the write only reached the local cache.
func (s *KitchenService) AddShoppingItems(ctx context.Context, input string) ([]domain.ShoppingItem, error) {
	hint, names := classifier.ParseShoppingInput(input)
	if len(names) == 0 {
		return nil, domain.ErrEmptyName
	}
	return s.addShopping(ctx, names, hint)
}

// AddShoppingNames appends names, e.g. the ingredients of a recipe, without a
// store hint.
func (s *KitchenService) AddShoppingNames(ctx context.Context, names []string) ([]domain.ShoppingItem, error) {
	var clean []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			clean = append(clean, n)
		}
	}
	if len(clean) == 0 {
		return nil, domain.ErrEmptyName
	}
	return s.addShopping(ctx, clean, "")
}

func (s *KitchenService) addShopping(ctx context.Context, names []string, hint string) ([]domain.ShoppingItem, error) {
	current, err := s.shopping.Load(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(current)+len(names))
	for _, item := range current {
		seen[domain.Fold(item.Name)] = true
	}
	var fresh []string
	for _, name := range names {
		key := domain.Fold(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		fresh = append(fresh, name)
	}
	if len(fresh) == 0 {
		return []domain.ShoppingItem{}, nil
	}

	stores := s.classifyAll(ctx, fresh, hint)
	added := make([]domain.ShoppingItem, len(fresh))
	now := s.timestamp()
	for i, name := range fresh {
		added[i] = domain.ShoppingItem{
			ID:      s.newID(),
			Name:    name,
			AddedAt: now,
			Store:   stores[i],
		}
	}

	s.logger.Info("adding shopping items", "count", len(added), "hint", hint)
	if err := s.shopping.Save(ctx, append(current, added...)); err != nil {
		return added, err
	}
	return added, nil
}

func (s *KitchenService) classifyAll(ctx context.Context, names []string, hint string) []domain.Store {
	stores := make([]domain.Store, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(classifyConcurrency)
	for i, name := range names {
		g.Go(func() error {
			stores[i] = s.classifier.Classify(gctx, name, hint)
			return nil
		})
	}
	_ = g.Wait()
	return stores
}

// ToggleShoppingItem flips the checked state of item id.
func (s *KitchenService) ToggleShoppingItem(ctx context.Context, id string) (*domain.ShoppingItem, error) {
	items, err := s.shopping.Load(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(items, func(it domain.ShoppingItem) bool { return it.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("shopping item %s: %w", id, domain.ErrNotFound)
	}
	items[i].Checked = !items[i].Checked
	toggled := items[i]
	if err := s.shopping.Save(ctx, items); err != nil {
		return &toggled, err
	}
	return &toggled, nil
}

func (s *KitchenService) RemoveShoppingItem(ctx context.Context, id string) error {
	items, err := s.shopping.Load(ctx)
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(items, func(it domain.ShoppingItem) bool { return it.ID == id })
	if len(kept) == len(items) {
		return fmt.Errorf("shopping item %s: %w", id, domain.ErrNotFound)
	}
	return s.shopping.Save(ctx, kept)
}

// ClearCompleted drops every checked item and reports how many were removed.
func (s *KitchenService) ClearCompleted(ctx context.Context) (int, error) {
	items, err := s.shopping.Load(ctx)
	if err != nil {
		return 0, err
	}
	before := len(items)
	kept := slices.DeleteFunc(items, func(it domain.ShoppingItem) bool { return it.Checked })
	removed := before - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, s.shopping.Save(ctx, kept)
}

// ShoppingLink returns the store to shop online for the unchecked items and
// its search URL.
func (s *KitchenService) ShoppingLink(ctx context.Context) (domain.Store, string, error) {
	items, err := s.shopping.Load(ctx)
	if err != nil {
		return "", "", err
	}
	pending := slices.DeleteFunc(items, func(it domain.ShoppingItem) bool { return it.Checked })

	kb := s.classifier.Knowledge()
	primary := kb.PrimaryStore(pending)
	names := make([]string, len(pending))
	for i, it := range pending {
		names[i] = it.Name
	}
	return primary, kb.StoreURL(primary, strings.Join(names, " ")), nil
}

// ShoppingRoute lists the stores to visit for the unchecked items.
func (s *KitchenService) ShoppingRoute(ctx context.Context) ([]string, error) {
	items, err := s.shopping.Load(ctx)
	if err != nil {
		return nil, err
	}
	pending := slices.DeleteFunc(items, func(it domain.ShoppingItem) bool { return it.Checked })
	return classifier.RouteStops(pending), nil
}
