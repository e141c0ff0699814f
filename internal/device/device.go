// Package device owns the stable identity of this installation.
package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/vbonduro/kitchenflow/internal/localcache"
)

// ErrNoRegistry is returned by ListID when no remote store is configured.
var ErrNoRegistry = errors.New("device registry not configured")

// registry is the subset of store.DeviceStore that Provider requires.
type registry interface {
	EnsureDevice(ctx context.Context, id string) error
	DefaultListID(ctx context.Context, deviceID string) (string, error)
}

type Provider struct {
	cache    *localcache.Cache
	registry registry
	logger   *slog.Logger

	mu     sync.Mutex
	id     string
	listID string
}

// NewProvider returns a provider persisting its id in cache. reg may be nil
// when running without a remote store.
func NewProvider(cache *localcache.Cache, reg registry, logger *slog.Logger) *Provider {
	return &Provider{cache: cache, registry: reg, logger: logger}
}

// DeviceID returns the installation's id, minting and persisting it on first
// use. If persisting fails the id is still stable for this process.
func (p *Provider) DeviceID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.deviceIDLocked()
}

func (p *Provider) deviceIDLocked() string {
	if p.id != "" {
		return p.id
	}

	var id string
	if p.cache.Get(localcache.KeyDeviceID, &id) && id != "" {
		p.id = id
		return id
	}

	id = uuid.NewString()
	if err := p.cache.Set(localcache.KeyDeviceID, id); err != nil {
		p.logger.Warn("failed to persist device id", "error", err)
	} else {
		p.logger.Info("minted device id", "device_id", id)
	}
	p.id = id
	return id
}

// ListID registers the device and returns the id of its default shopping
// list. The result is cached once resolved.
func (p *Provider) ListID(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.listID != "" {
		return p.listID, nil
	}
	if p.registry == nil {
		return "", ErrNoRegistry
	}

	id := p.deviceIDLocked()
	if err := p.registry.EnsureDevice(ctx, id); err != nil {
		return "", fmt.Errorf("failed to register device: %w", err)
	}
	listID, err := p.registry.DefaultListID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to resolve shopping list: %w", err)
	}

	p.listID = listID
	return listID, nil
}
