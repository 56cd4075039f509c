package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/livemedia/linkgate/internal/catalog"
	"github.com/livemedia/linkgate/internal/core/domain"
)

// ThankYouService assembles the product list shown on the
// post-purchase page.
//
// The page only presents what was bought; no grant is minted until the
// buyer clicks a download button, which posts to /issue. Page views
// (refreshes, prefetchers, crawlers hitting the return URL) therefore
// never write anything.
type ThankYouService struct {
	catalog catalog.Catalog
	logger  *slog.Logger
}

// NewThankYouService creates a ThankYouService.
func NewThankYouService(cat catalog.Catalog, logger *slog.Logger) *ThankYouService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ThankYouService{catalog: cat, logger: logger}
}

// ThankYouItem is one product on the page. Unavailable items (no
// catalog mapping) render disabled with a hint, not dropped: one stale
// storefront SKU must not blank the whole page.
type ThankYouItem struct {
	SKU       string
	Title     string
	Available bool
}

// Prepare resolves titles and availability for each SKU concurrently
// and independently, returning the items in request order.
func (s *ThankYouService) Prepare(ctx context.Context, skus []string) ([]ThankYouItem, error) {
	if len(skus) == 0 {
		return nil, domain.ErrMissingSKUList
	}

	type slot struct {
		item ThankYouItem
		err  error
	}
	slots := make([]slot, len(skus))

	var wg sync.WaitGroup
	for i, sku := range skus {
		wg.Add(1)
		go func(i int, sku string) {
			defer wg.Done()

			product, err := s.catalog.Lookup(ctx, sku)
			if err != nil {
				slots[i] = slot{err: err}
				return
			}

			slots[i] = slot{item: ThankYouItem{
				SKU:       product.SKU,
				Title:     product.DisplayTitle(),
				Available: true,
			}}
		}(i, sku)
	}
	wg.Wait()

	items := make([]ThankYouItem, 0, len(skus))
	for i, sl := range slots {
		if sl.err != nil {
			if domain.IsDomainError(sl.err, domain.ErrUnknownProduct.Code) ||
				domain.IsDomainError(sl.err, domain.ErrMissingSKU.Code) {
				s.logger.Warn("unmapped sku on thank-you page", "sku", skus[i])
				items = append(items, ThankYouItem{SKU: skus[i], Title: skus[i]})
				continue
			}
			// Storage failure: the page cannot pretend the purchase
			// delivered.
			return nil, sl.err
		}
		items = append(items, sl.item)
	}

	return items, nil
}
