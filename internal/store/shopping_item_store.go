package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vbonduro/kitchenflow/internal/db"
	"github.com/vbonduro/kitchenflow/internal/domain"
)

type ShoppingItemStore struct {
	base
}

func NewShoppingItemStore(d *sql.DB, dialect db.Dialect, opts ...Option) *ShoppingItemStore {
	return &ShoppingItemStore{base: newBase(d, dialect, opts)}
}

// ListByList returns the items on listID, oldest first.
func (s *ShoppingItemStore) ListByList(ctx context.Context, listID string) ([]domain.ShoppingItem, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT id, name, quantity, checked, store, added_at FROM shopping_items
		WHERE list_id = ? ORDER BY added_at ASC, id ASC
	`), listID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping items: %w", err)
	}
	defer closeRows(rows)

	items := []domain.ShoppingItem{}
	for rows.Next() {
		var item domain.ShoppingItem
		var store string
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.Checked, &store, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shopping item: %w", err)
		}
		item.Store = domain.Store(store)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shopping items: %w", err)
	}

	return items, nil
}

// ReplaceForList makes the rows of listID exactly equal to items.
func (s *ShoppingItemStore) ReplaceForList(ctx context.Context, listID string, items []domain.ShoppingItem) error {
	keep := make([]string, 0, len(items))
	for _, item := range items {
		keep = append(keep, item.ID)
	}

	return s.replaceOwned(ctx, TableShoppingItems, "list_id", listID, keep, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, s.q(`
			INSERT INTO shopping_items (id, list_id, name, quantity, checked, store, added_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				quantity = excluded.quantity,
				checked = excluded.checked,
				store = excluded.store,
				added_at = excluded.added_at
			WHERE shopping_items.list_id = excluded.list_id
		`))
		if err != nil {
			return fmt.Errorf("failed to prepare shopping item upsert: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, item := range items {
			res, err := stmt.ExecContext(ctx, item.ID, listID, item.Name, item.Quantity, item.Checked, string(item.Store), item.AddedAt)
			if err != nil {
				return fmt.Errorf("failed to upsert shopping item %s: %w", item.ID, err)
			}
			if err := requireUpserted(res, item.ID); err != nil {
				return err
			}
		}
		return nil
	})
}
