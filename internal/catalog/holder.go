package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/fjod/go_cart/storefront-service/internal/domain"
)

// Holder owns the published catalog for the lifetime of the process.
// Until a load succeeds it holds nothing, and consumers must cope with that.
type Holder struct {
	mu      sync.RWMutex
	current *domain.Catalog
	sfg     singleflight.Group
	logger  *zap.Logger
}

func NewHolder(logger *zap.Logger) *Holder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Holder{logger: logger}
}

// Current returns the published catalog, if any.
func (h *Holder) Current() (*domain.Catalog, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current, h.current != nil
}

func (h *Holder) Publish(c *domain.Catalog) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = c
}

// Lookup resolves an id against the current catalog.
func (h *Holder) Lookup(id domain.ProductID) (domain.Product, bool) {
	c, _ := h.Current()
	return c.Lookup(id)
}

// LoadOnce loads and publishes the catalog unless one is already published.
// Concurrent callers share a single load. A failed load is logged, leaves the
// holder empty and is not retried.
func (h *Holder) LoadOnce(ctx context.Context, loader *Loader) error {
	if _, ok := h.Current(); ok {
		return nil
	}

	_, err, _ := h.sfg.Do("catalog", func() (interface{}, error) {
		if c, ok := h.Current(); ok {
			return c, nil
		}
		c, err := loader.Load(ctx)
		if err != nil {
			h.logger.Error("catalog unavailable", zap.Error(err))
			return nil, err
		}
		h.Publish(c)
		return c, nil
	})
	return err
}
