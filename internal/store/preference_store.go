package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vbonduro/kitchenflow/internal/db"
	"github.com/vbonduro/kitchenflow/internal/domain"
)

type PreferenceStore struct {
	base
}

func NewPreferenceStore(d *sql.DB, dialect db.Dialect, opts ...Option) *PreferenceStore {
	return &PreferenceStore{base: newBase(d, dialect, opts)}
}

// Upsert stores p, replacing any preference for the same device and item.
func (s *PreferenceStore) Upsert(ctx context.Context, p domain.StorePreference) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO user_store_preferences (device_id, item_name, preferred_store, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(device_id, item_name) DO UPDATE SET
			preferred_store = excluded.preferred_store,
			updated_at = excluded.updated_at
	`), p.DeviceID, p.ItemName, string(p.PreferredStore), p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert store preference: %w", err)
	}

	s.notify(ctx, TableStorePreferences, p.DeviceID)
	return nil
}

// Get returns nil, nil when no preference exists.
func (s *PreferenceStore) Get(ctx context.Context, deviceID, itemName string) (*domain.StorePreference, error) {
	p := &domain.StorePreference{}
	var store string
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT device_id, item_name, preferred_store, updated_at FROM user_store_preferences
		WHERE device_id = ? AND item_name = ?
	`), deviceID, itemName).Scan(&p.DeviceID, &p.ItemName, &store, &p.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store preference: %w", err)
	}

	p.PreferredStore = domain.Store(store)
	return p, nil
}

// ListByDevice returns the device's preferences, most recently updated first.
func (s *PreferenceStore) ListByDevice(ctx context.Context, deviceID string) ([]domain.StorePreference, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT device_id, item_name, preferred_store, updated_at FROM user_store_preferences
		WHERE device_id = ? ORDER BY updated_at DESC, item_name ASC
	`), deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list store preferences: %w", err)
	}
	defer closeRows(rows)

	prefs := []domain.StorePreference{}
	for rows.Next() {
		var p domain.StorePreference
		var store string
		if err := rows.Scan(&p.DeviceID, &p.ItemName, &store, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan store preference: %w", err)
		}
		p.PreferredStore = domain.Store(store)
		prefs = append(prefs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating store preferences: %w", err)
	}

	return prefs, nil
}
