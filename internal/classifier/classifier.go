// Package classifier decides which store an item should be bought from.
package classifier

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vbonduro/kitchenflow/internal/domain"
)

const DefaultCacheSize = 512

// preferences is the subset of preference.Adapter that Classifier requires.
type preferences interface {
	Record(ctx context.Context, itemName string, store domain.Store)
	Get(ctx context.Context, itemName string) (domain.Store, bool)
}

type Classifier struct {
	kb     *KnowledgeBase
	prefs  preferences
	cache  *lru.Cache[string, domain.Store]
	logger *slog.Logger
}

// New returns a classifier over kb. prefs may be nil.
func New(kb *KnowledgeBase, prefs preferences, cacheSize int, logger *slog.Logger) (*Classifier, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, domain.Store](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create classification cache: %w", err)
	}
	return &Classifier{kb: kb, prefs: prefs, cache: cache, logger: logger}, nil
}

func (c *Classifier) Knowledge() *KnowledgeBase {
	return c.kb
}

// Classify returns the store to buy itemName from. An explicit hint wins and
// is remembered as a preference; then learned preferences, then earlier
// results, then keywords. It never fails: anything unmatched is StoreAny.
func (c *Classifier) Classify(ctx context.Context, itemName, hint string) domain.Store {
	key := domain.Fold(itemName)

	if hint != "" {
		if s, ok := c.kb.NormalizeHint(hint); ok {
			if c.prefs != nil {
				c.prefs.Record(ctx, itemName, s)
			}
			c.logger.Debug("classified item", "item", itemName, "store", s, "tier", "hint")
			return c.remember(key, s)
		}
	}

	if c.prefs != nil {
		if s, ok := c.prefs.Get(ctx, itemName); ok {
			c.logger.Debug("classified item", "item", itemName, "store", s, "tier", "preference")
			return c.remember(key, s)
		}
	}

	if s, ok := c.cache.Get(key); ok {
		return s
	}

	if s, ok := c.kb.SpecialtyFor(key); ok {
		c.logger.Debug("classified item", "item", itemName, "store", s, "tier", "keyword")
		return c.remember(key, s)
	}

	tier := "default"
	if c.kb.IsGeneric(key) {
		tier = "generic"
	}
	c.logger.Debug("classified item", "item", itemName, "store", domain.StoreAny, "tier", tier)
	return c.remember(key, domain.StoreAny)
}

func (c *Classifier) remember(key string, s domain.Store) domain.Store {
	if key != "" {
		c.cache.Add(key, s)
	}
	return s
}

// ClearCache forgets every cached result.
func (c *Classifier) ClearCache() {
	c.cache.Purge()
}
