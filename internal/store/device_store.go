package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/kitchenflow/internal/db"
)

// DefaultListName names the list created for a device on first use.
const DefaultListName = "My Shopping List"

type DeviceStore struct {
	base
}

func NewDeviceStore(d *sql.DB, dialect db.Dialect, opts ...Option) *DeviceStore {
	return &DeviceStore{base: newBase(d, dialect, opts)}
}

// EnsureDevice registers id. Registering an existing device is a no-op.
func (s *DeviceStore) EnsureDevice(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO devices (id, created_at) VALUES (?, ?) ON CONFLICT(id) DO NOTHING
	`), id, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}
	return nil
}

// ActiveListID returns the oldest active list owned by deviceID, or "" if none.
func (s *DeviceStore) ActiveListID(ctx context.Context, deviceID string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT id FROM shopping_lists
		WHERE owner_device_id = ? AND is_active = TRUE
		ORDER BY created_at ASC, id ASC LIMIT 1
	`), deviceID).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get active list: %w", err)
	}
	return id, nil
}

func (s *DeviceStore) CreateList(ctx context.Context, deviceID, name string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO shopping_lists (id, owner_device_id, name, is_active, created_at) VALUES (?, ?, ?, TRUE, ?)
	`), id, deviceID, name, time.Now().UnixMilli())
	if err != nil {
		return "", fmt.Errorf("failed to create shopping list: %w", err)
	}
	return id, nil
}

// DefaultListID returns the device's active list, creating one if needed.
func (s *DeviceStore) DefaultListID(ctx context.Context, deviceID string) (string, error) {
	id, err := s.ActiveListID(ctx, deviceID)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	return s.CreateList(ctx, deviceID, DefaultListName)
}
