// Package catalog loads the standard and exclusive product collections and
// publishes them to the rest of the service.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fjod/go_cart/storefront-service/internal/domain"
)

var (
	ErrCatalogLoad = errors.New("catalog load failed")
	ErrDuplicateID = errors.New("duplicate product id")
)

// Loader fetches both collections. Either failure fails the whole load.
type Loader struct {
	standard  Source
	exclusive Source
	logger    *zap.Logger
	now       func() time.Time
}

func NewLoader(standard, exclusive Source, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		standard:  standard,
		exclusive: exclusive,
		logger:    logger,
		now:       time.Now,
	}
}

// Load fetches and validates both collections concurrently. No partial
// catalog is ever returned.
func (l *Loader) Load(ctx context.Context) (*domain.Catalog, error) {
	var standard, exclusive []domain.Product

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := fetchValidated(gctx, l.standard)
		standard = products
		return err
	})
	g.Go(func() error {
		products, err := fetchValidated(gctx, l.exclusive)
		exclusive = products
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := &domain.Catalog{
		Standard:  standard,
		Exclusive: exclusive,
		LoadedAt:  l.now(),
	}

	if shared := c.SharedIDs(); len(shared) > 0 {
		l.logger.Warn("product ids present in both collections, standard entries take precedence",
			zap.Stringers("product_ids", shared))
	}
	l.logger.Info("catalog loaded",
		zap.Int("standard", len(standard)),
		zap.Int("exclusive", len(exclusive)))

	return c, nil
}

func fetchValidated(ctx context.Context, src Source) ([]domain.Product, error) {
	products, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCatalogLoad, src.Name(), err)
	}
	if err := validate(products); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCatalogLoad, src.Name(), err)
	}
	return products, nil
}

func validate(products []domain.Product) error {
	seen := make(map[domain.ProductID]struct{}, len(products))
	for i, p := range products {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("record %d: %w %s", i, ErrDuplicateID, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
