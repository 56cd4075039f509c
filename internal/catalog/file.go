package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/livemedia/linkgate/internal/core/domain"
	"github.com/livemedia/linkgate/internal/infra/confloader"
)

// fileEntry is the YAML shape of one product mapping.
type fileEntry struct {
	Filename string `koanf:"filename"`
	Title    string `koanf:"title"`
}

// FileCatalog serves SKU mappings from a YAML file:
//
//	products:
//	  EBOOK-01:
//	    filename: files/ebook_01.zip
//	    title: Practical Notes
//
// The file is reloaded on change; a broken edit keeps the last good
// mapping in service.
type FileCatalog struct {
	path    string
	logger  *slog.Logger
	watcher *confloader.Watcher

	// products holds map[string]*domain.Product, swapped atomically
	// on reload.
	products atomic.Value
}

// NewFileCatalog loads the catalog file and starts watching it.
func NewFileCatalog(path string, logger *slog.Logger) (*FileCatalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &FileCatalog{path: path, logger: logger}

	if err := c.load(); err != nil {
		return nil, err
	}

	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("catalog watcher: %w", err)
	}
	if err := watcher.Watch(path); err != nil {
		watcher.Stop()
		return nil, fmt.Errorf("catalog watch %s: %w", path, err)
	}

	watcher.OnChange(func(changed string) {
		if filepath.Base(changed) != filepath.Base(path) {
			return
		}
		if err := c.load(); err != nil {
			logger.Error("catalog reload failed, keeping previous mapping",
				"path", path,
				"error", err)
			return
		}
		logger.Info("catalog reloaded", "path", path, "products", len(c.snapshot()))
	})
	watcher.StartAsync()

	c.watcher = watcher
	return c, nil
}

// Lookup resolves a SKU from the loaded mapping.
func (c *FileCatalog) Lookup(_ context.Context, sku string) (*domain.Product, error) {
	sku = domain.NormalizeSKU(sku)
	if sku == "" {
		return nil, domain.ErrMissingSKU
	}

	p, ok := c.snapshot()[sku]
	if !ok {
		return nil, domain.ErrUnknownProduct.WithDetails(sku)
	}
	clone := *p
	return &clone, nil
}

// Len reports the number of loaded products.
func (c *FileCatalog) Len() int {
	return len(c.snapshot())
}

// Close stops the file watcher.
func (c *FileCatalog) Close() error {
	if c.watcher != nil {
		return c.watcher.Stop()
	}
	return nil
}

func (c *FileCatalog) snapshot() map[string]*domain.Product {
	m, _ := c.products.Load().(map[string]*domain.Product)
	return m
}

func (c *FileCatalog) load() error {
	k := koanf.New(".")
	if err := k.Load(file.Provider(c.path), yaml.Parser()); err != nil {
		return fmt.Errorf("catalog load %s: %w", c.path, err)
	}

	var entries map[string]fileEntry
	if err := k.Unmarshal("products", &entries); err != nil {
		return fmt.Errorf("catalog parse %s: %w", c.path, err)
	}

	products := make(map[string]*domain.Product, len(entries))
	for rawSKU, entry := range entries {
		sku := domain.NormalizeSKU(rawSKU)
		if sku == "" || entry.Filename == "" {
			return fmt.Errorf("catalog parse %s: product %q needs a sku and filename", c.path, rawSKU)
		}
		products[sku] = &domain.Product{
			SKU:      sku,
			Filename: entry.Filename,
			Title:    entry.Title,
		}
	}

	c.products.Store(products)
	return nil
}
