package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/livemedia/linkgate/internal/core/domain"
	"github.com/livemedia/linkgate/internal/storage"
)

// KV key prefixes for catalog mappings.
const (
	FileKeyPrefix  = "sku:file:"
	TitleKeyPrefix = "sku:title:"
)

// KVCatalog stores SKU mappings in the shared KV store, so products
// can be added or repointed at runtime without a restart.
type KVCatalog struct {
	kv storage.KV
}

// NewKVCatalog creates a catalog over the given KV engine.
func NewKVCatalog(kv storage.KV) *KVCatalog {
	return &KVCatalog{kv: kv}
}

// Lookup resolves a SKU from the KV store.
func (c *KVCatalog) Lookup(ctx context.Context, sku string) (*domain.Product, error) {
	sku = domain.NormalizeSKU(sku)
	if sku == "" {
		return nil, domain.ErrMissingSKU
	}

	filename, err := c.kv.Get(ctx, FileKeyPrefix+sku)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, domain.ErrUnknownProduct.WithDetails(sku)
		}
		return nil, domain.ErrStorageError.WithDetails("catalog lookup").WithCause(err)
	}

	p := &domain.Product{SKU: sku, Filename: string(filename)}

	// Title is optional.
	if title, err := c.kv.Get(ctx, TitleKeyPrefix+sku); err == nil {
		p.Title = string(title)
	} else if !errors.Is(err, storage.ErrKeyNotFound) {
		return nil, domain.ErrStorageError.WithDetails("catalog title lookup").WithCause(err)
	}

	return p, nil
}

// Put writes or replaces a SKU mapping.
func (c *KVCatalog) Put(ctx context.Context, p *domain.Product) error {
	sku := domain.NormalizeSKU(p.SKU)
	if sku == "" {
		return domain.ErrMissingSKU
	}
	if strings.TrimSpace(p.Filename) == "" {
		return domain.ErrBadRequest.WithDetails("filename is empty")
	}

	if err := c.kv.Set(ctx, FileKeyPrefix+sku, []byte(p.Filename), 0); err != nil {
		return domain.ErrStorageError.WithDetails("catalog put").WithCause(err)
	}
	if p.Title != "" {
		if err := c.kv.Set(ctx, TitleKeyPrefix+sku, []byte(p.Title), 0); err != nil {
			return domain.ErrStorageError.WithDetails("catalog put title").WithCause(err)
		}
	}
	return nil
}

// Delete removes a SKU mapping.
func (c *KVCatalog) Delete(ctx context.Context, sku string) error {
	sku = domain.NormalizeSKU(sku)
	if sku == "" {
		return domain.ErrMissingSKU
	}

	if err := c.kv.Delete(ctx, FileKeyPrefix+sku); err != nil {
		return domain.ErrStorageError.WithDetails("catalog delete").WithCause(err)
	}
	if err := c.kv.Delete(ctx, TitleKeyPrefix+sku); err != nil {
		return domain.ErrStorageError.WithDetails("catalog delete title").WithCause(err)
	}
	return nil
}

// List returns all mapped products sorted by SKU.
func (c *KVCatalog) List(ctx context.Context) ([]*domain.Product, error) {
	var products []*domain.Product

	err := c.kv.Scan(ctx, FileKeyPrefix, func(key string, value []byte) bool {
		products = append(products, &domain.Product{
			SKU:      strings.TrimPrefix(key, FileKeyPrefix),
			Filename: string(value),
		})
		return true
	})
	if err != nil {
		return nil, domain.ErrStorageError.WithDetails("catalog list").WithCause(err)
	}

	for _, p := range products {
		if title, err := c.kv.Get(ctx, TitleKeyPrefix+p.SKU); err == nil {
			p.Title = string(title)
		}
	}

	return products, nil
}
