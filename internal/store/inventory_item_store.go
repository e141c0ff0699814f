package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vbonduro/kitchenflow/internal/db"
	"github.com/vbonduro/kitchenflow/internal/domain"
)

type InventoryItemStore struct {
	base
}

func NewInventoryItemStore(d *sql.DB, dialect db.Dialect, opts ...Option) *InventoryItemStore {
	return &InventoryItemStore{base: newBase(d, dialect, opts)}
}

func (s *InventoryItemStore) ListByDevice(ctx context.Context, deviceID string) ([]domain.InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT id, name, quantity, unit, freshness, location, added_at FROM inventory_items
		WHERE device_id = ? ORDER BY added_at ASC, id ASC
	`), deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	defer closeRows(rows)

	items := []domain.InventoryItem{}
	for rows.Next() {
		var item domain.InventoryItem
		var freshness string
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.Unit, &freshness, &item.Location, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		item.Freshness = domain.ParseFreshness(freshness)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory items: %w", err)
	}

	return items, nil
}

// ReplaceForDevice makes the inventory rows of deviceID exactly equal to items.
func (s *InventoryItemStore) ReplaceForDevice(ctx context.Context, deviceID string, items []domain.InventoryItem) error {
	keep := make([]string, 0, len(items))
	for _, item := range items {
		keep = append(keep, item.ID)
	}

	return s.replaceOwned(ctx, TableInventoryItems, "device_id", deviceID, keep, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, s.q(`
			INSERT INTO inventory_items (id, device_id, name, quantity, unit, freshness, location, added_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				quantity = excluded.quantity,
				unit = excluded.unit,
				freshness = excluded.freshness,
				location = excluded.location,
				added_at = excluded.added_at
			WHERE inventory_items.device_id = excluded.device_id
		`))
		if err != nil {
			return fmt.Errorf("failed to prepare inventory upsert: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, item := range items {
			freshness := domain.ParseFreshness(string(item.Freshness))
			location := domain.NormalizeLocation(item.Location)
			res, err := stmt.ExecContext(ctx, item.ID, deviceID, item.Name, item.Quantity, item.Unit, string(freshness), location, item.AddedAt)
			if err != nil {
				return fmt.Errorf("failed to upsert inventory item %s: %w", item.ID, err)
			}
			if err := requireUpserted(res, item.ID); err != nil {
				return err
			}
		}
		return nil
	})
}
