// Package preference remembers which store the user bought an item from.
package preference

import (
	"context"
	"log/slog"
	"time"

	"github.com/vbonduro/kitchenflow/internal/domain"
)

// repository is the subset of store.PreferenceStore that Adapter requires.
type repository interface {
	Upsert(ctx context.Context, p domain.StorePreference) error
	Get(ctx context.Context, deviceID, itemName string) (*domain.StorePreference, error)
	ListByDevice(ctx context.Context, deviceID string) ([]domain.StorePreference, error)
}

type identity interface {
	DeviceID() string
}

// Adapter never fails. Without a repository every lookup is a miss and every
// write is dropped.
type Adapter struct {
	repo     repository
	identity identity
	logger   *slog.Logger
	now      func() time.Time
}

// New returns an adapter over repo. repo may be nil for offline use.
func New(repo repository, id identity, logger *slog.Logger) *Adapter {
	return &Adapter{repo: repo, identity: id, logger: logger, now: time.Now}
}

func (a *Adapter) Record(ctx context.Context, itemName string, store domain.Store) {
	name := domain.Fold(itemName)
	if name == "" || store == "" {
		return
	}
	if a.repo == nil {
		a.logger.Debug("store preference not recorded: no remote store", "item", name, "store", store)
		return
	}

	err := a.repo.Upsert(ctx, domain.StorePreference{
		DeviceID:       a.identity.DeviceID(),
		ItemName:       name,
		PreferredStore: store,
		UpdatedAt:      a.now().UnixMilli(),
	})
	if err != nil {
		a.logger.Warn("failed to record store preference", "item", name, "store", store, "error", err)
	}
}

func (a *Adapter) Get(ctx context.Context, itemName string) (domain.Store, bool) {
	name := domain.Fold(itemName)
	if name == "" || a.repo == nil {
		return "", false
	}

	p, err := a.repo.Get(ctx, a.identity.DeviceID(), name)
	if err != nil {
		a.logger.Warn("failed to look up store preference", "item", name, "error", err)
		return "", false
	}
	if p == nil || p.PreferredStore == "" {
		return "", false
	}
	return p.PreferredStore, true
}

// All lists the device's preferences, newest first.
func (a *Adapter) All(ctx context.Context) []domain.StorePreference {
	if a.repo == nil {
		return []domain.StorePreference{}
	}

	prefs, err := a.repo.ListByDevice(ctx, a.identity.DeviceID())
	if err != nil {
		a.logger.Warn("failed to list store preferences", "error", err)
		return []domain.StorePreference{}
	}
	return prefs
}
