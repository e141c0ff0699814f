// Package localcache keeps JSON values in files under a data directory so the
// client keeps working offline.
package localcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	KeyShopping  = "kitchenflow-shopping"
	KeyInventory = "kitchenflow-inventory"
	KeyCravings  = "kitchenflow-cravings"
	KeyDeviceID  = "kitchenflow_device_id"
)

type Cache struct {
	basePath string
	logger   *slog.Logger
	mu       sync.Mutex
}

func New(basePath string, logger *slog.Logger) (*Cache, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{basePath: basePath, logger: logger}, nil
}

// Get decodes the value stored under key into v. It reports false when the
// key is missing or its contents cannot be decoded.
func (c *Cache) Get(key string, v any) bool {
	path, err := c.safeJoin(key)
	if err != nil {
		c.logger.Warn("rejected cache key", "key", key, "error", err)
		return false
	}

	c.mu.Lock()
	data, err := os.ReadFile(path)
	c.mu.Unlock()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.logger.Warn("failed to read cache entry", "key", key, "error", err)
		}
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		c.logger.Warn("ignoring corrupt cache entry", "key", key, "error", err)
		return false
	}
	return true
}

// Set replaces the value stored under key. The file is swapped in atomically.
func (c *Cache) Set(key string, v any) error {
	path, err := c.safeJoin(key)
	if err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.CreateTemp(c.basePath, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		if cerr := f.Close(); cerr != nil {
			c.logger.Error("failed to close file after write error", "error", cerr)
		}
		if rerr := os.Remove(tmp); rerr != nil {
			c.logger.Error("failed to remove file after write error", "error", rerr)
		}
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := f.Close(); err != nil {
		if rerr := os.Remove(tmp); rerr != nil {
			c.logger.Error("failed to remove file after close error", "error", rerr)
		}
		return fmt.Errorf("failed to close cache entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		if rerr := os.Remove(tmp); rerr != nil {
			c.logger.Error("failed to remove file after rename error", "error", rerr)
		}
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (c *Cache) Delete(key string) error {
	path, err := c.safeJoin(key)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// safeJoin maps key to its file under basePath and rejects directory traversal.
func (c *Cache) safeJoin(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty cache key")
	}

	absBase, err := filepath.Abs(c.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	absPath, err := filepath.Abs(filepath.Join(c.basePath, key+".json"))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal attempt")
	}
	return absPath, nil
}

// Collection is one JSON array in the cache. It is the last tier of a
// reconcile.Reconciler.
type Collection[T any] struct {
	cache *Cache
	key   string
}

func NewCollection[T any](cache *Cache, key string) *Collection[T] {
	return &Collection[T]{cache: cache, key: key}
}

func (c *Collection[T]) Name() string { return "local" }

// Load never fails; a missing or corrupt entry is an empty collection.
func (c *Collection[T]) Load(_ context.Context) ([]T, error) {
	var items []T
	if !c.cache.Get(c.key, &items) || items == nil {
		return []T{}, nil
	}
	return items, nil
}

func (c *Collection[T]) Save(_ context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	return c.cache.Set(c.key, items)
}
