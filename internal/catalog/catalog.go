// Package catalog caches the static category reference data. One remote
// fetch per process; a failed fetch leaves the cache empty and is
// retried on the next access.
package catalog

import (
	"context"
	"sync"

	"github.com/civicfix/civicfix_client/internal/gateway"
	"github.com/civicfix/civicfix_client/internal/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrCategoryNotFound = errors.New("category not found")

type Catalog struct {
	mu     sync.Mutex
	source gateway.CategorySource
	logger *zap.Logger

	categories []model.Category
	loaded     bool
}

func New(source gateway.CategorySource, logger *zap.Logger) *Catalog {
	return &Catalog{source: source, logger: logger}
}

// Categories returns the cached catalog, fetching it on first use.
// Concurrent first callers serialize on the mutex and share one fetch.
func (c *Catalog) Categories(ctx context.Context) ([]model.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		categories, err := c.source.FetchCategories(ctx)
		if err != nil {
			c.logger.Warn("category catalog fetch failed", zap.Error(err))
			return nil, err
		}
		c.categories = categories
		c.loaded = true
		c.logger.Info("category catalog loaded", zap.Int("count", len(categories)))
	}

	out := make([]model.Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = cat.Clone()
	}
	return out, nil
}

// Find resolves a category id against the cache, fetching if needed.
func (c *Catalog) Find(ctx context.Context, id string) (model.Category, error) {
	categories, err := c.Categories(ctx)
	if err != nil {
		return model.Category{}, err
	}
	for _, cat := range categories {
		if cat.ID == id {
			return cat, nil
		}
	}
	return model.Category{}, errors.Wrapf(ErrCategoryNotFound, "%s", id)
}

// Invalidate drops the cache so the next access refetches.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.categories = nil
}
