package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/kitchenflow/internal/db"
	"github.com/vbonduro/kitchenflow/internal/domain"
)

type StapleStore struct {
	base
}

func NewStapleStore(d *sql.DB, dialect db.Dialect, opts ...Option) *StapleStore {
	return &StapleStore{base: newBase(d, dialect, opts)}
}

func (s *StapleStore) Create(ctx context.Context, deviceID, name string, score int) (*domain.PantryStaple, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO pantry_staples (id, device_id, name, score, created_at) VALUES (?, ?, ?, ?, ?)
	`), id, deviceID, name, score, time.Now().UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to create pantry staple: %w", err)
	}

	s.notify(ctx, TablePantryStaples, deviceID)
	return s.GetByID(ctx, id)
}

// GetByID returns nil, nil when the staple does not exist.
func (s *StapleStore) GetByID(ctx context.Context, id string) (*domain.PantryStaple, error) {
	staple := &domain.PantryStaple{}
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT id, device_id, name, score, created_at FROM pantry_staples WHERE id = ?
	`), id).Scan(&staple.ID, &staple.DeviceID, &staple.Name, &staple.Score, &staple.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pantry staple: %w", err)
	}

	return staple, nil
}

// ListByDevice returns staples lowest stock first, then by name.
func (s *StapleStore) ListByDevice(ctx context.Context, deviceID string) ([]domain.PantryStaple, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT id, device_id, name, score, created_at FROM pantry_staples
		WHERE device_id = ? ORDER BY score ASC, name ASC
	`), deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pantry staples: %w", err)
	}
	defer closeRows(rows)

	staples := []domain.PantryStaple{}
	for rows.Next() {
		var staple domain.PantryStaple
		if err := rows.Scan(&staple.ID, &staple.DeviceID, &staple.Name, &staple.Score, &staple.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pantry staple: %w", err)
		}
		staples = append(staples, staple)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pantry staples: %w", err)
	}

	return staples, nil
}

func (s *StapleStore) UpdateScore(ctx context.Context, id string, score int) (*domain.PantryStaple, error) {
	result, err := s.db.ExecContext(ctx, s.q(`
		UPDATE pantry_staples SET score = ? WHERE id = ?
	`), score, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update pantry staple: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("pantry staple %s: %w", id, domain.ErrNotFound)
	}

	staple, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if staple != nil {
		s.notify(ctx, TablePantryStaples, staple.DeviceID)
	}
	return staple, nil
}

func (s *StapleStore) Delete(ctx context.Context, id string) error {
	staple, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if staple == nil {
		return fmt.Errorf("pantry staple %s: %w", id, domain.ErrNotFound)
	}

	if _, err := s.db.ExecContext(ctx, s.q(`DELETE FROM pantry_staples WHERE id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete pantry staple: %w", err)
	}

	s.notify(ctx, TablePantryStaples, staple.DeviceID)
	return nil
}
