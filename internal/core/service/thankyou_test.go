package service

import (
	"context"
	"errors"
	"testing"

	"github.com/livemedia/linkgate/internal/catalog"
	"github.com/livemedia/linkgate/internal/core/domain"
	"github.com/livemedia/linkgate/internal/storage/memory"
)

func newThankYouFixture(t *testing.T) *ThankYouService {
	t.Helper()

	kv := memory.New()
	t.Cleanup(func() { kv.Close() })
	cat := catalog.NewKVCatalog(kv)
	ctx := context.Background()
	for _, p := range []*domain.Product{
		{SKU: "EBOOK-01", Filename: "files/ebook_01.zip", Title: "First"},
		{SKU: "EBOOK-02", Filename: "files/ebook_02.zip"},
	} {
		if err := cat.Put(ctx, p); err != nil {
			t.Fatalf("catalog put: %v", err)
		}
	}

	return NewThankYouService(cat, nil)
}

func TestPrepare(t *testing.T) {
	svc := newThankYouFixture(t)

	items, err := svc.Prepare(context.Background(), []string{"EBOOK-01", "EBOOK-02"})
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}

	// Order must match the request order regardless of goroutine
	// completion order.
	if items[0].SKU != "EBOOK-01" || items[1].SKU != "EBOOK-02" {
		t.Errorf("item order = %s, %s", items[0].SKU, items[1].SKU)
	}
	if items[0].Title != "First" {
		t.Errorf("title = %q, want First", items[0].Title)
	}
	// EBOOK-02 has no explicit title; it is derived from the filename.
	if items[1].Title != "Ebook 02" {
		t.Errorf("derived title = %q, want %q", items[1].Title, "Ebook 02")
	}
	for _, item := range items {
		if !item.Available {
			t.Errorf("%s marked unavailable", item.SKU)
		}
	}
}

func TestPrepareMarksUnmappedSKUs(t *testing.T) {
	svc := newThankYouFixture(t)

	items, err := svc.Prepare(context.Background(), []string{"EBOOK-01", "GHOST", "EBOOK-02"})
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	if items[1].SKU != "GHOST" || items[1].Available {
		t.Errorf("unmapped item = %+v, want unavailable GHOST", items[1])
	}
	if items[1].Title != "GHOST" {
		t.Errorf("unmapped title = %q, want the SKU itself", items[1].Title)
	}
	if !items[0].Available || !items[2].Available {
		t.Error("mapped items must stay available around an unmapped one")
	}
}

func TestPrepareEmptySKUs(t *testing.T) {
	svc := newThankYouFixture(t)

	_, err := svc.Prepare(context.Background(), nil)
	if !errors.Is(err, domain.ErrMissingSKUList) {
		t.Errorf("Prepare() error = %v, want ErrMissingSKUList", err)
	}
}
