package catalog

import (
	"context"
	"errors"

	"github.com/livemedia/linkgate/internal/core/domain"
)

// Catalog resolves a SKU to its product mapping.
type Catalog interface {
	// Lookup returns the product for a normalized SKU.
	// Returns domain.ErrUnknownProduct when no mapping exists.
	Lookup(ctx context.Context, sku string) (*domain.Product, error)
}

// Chain tries each catalog in order and returns the first hit.
type Chain []Catalog

// Lookup resolves the SKU against each source in order. Only
// not-found errors fall through; real failures stop the chain.
func (c Chain) Lookup(ctx context.Context, sku string) (*domain.Product, error) {
	for _, cat := range c {
		p, err := cat.Lookup(ctx, sku)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, domain.ErrUnknownProduct) {
			return nil, err
		}
	}
	return nil, domain.ErrUnknownProduct.WithDetails(sku)
}
