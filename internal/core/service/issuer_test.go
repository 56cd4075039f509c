package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/livemedia/linkgate/internal/catalog"
	"github.com/livemedia/linkgate/internal/core/domain"
	"github.com/livemedia/linkgate/internal/storage"
	"github.com/livemedia/linkgate/internal/storage/memory"
)

func newIssueFixture(t *testing.T, ttl time.Duration) (*IssueService, *storage.GrantStore) {
	t.Helper()

	kv := memory.New()
	cat := catalog.NewKVCatalog(kv)
	if err := cat.Put(context.Background(), &domain.Product{
		SKU:      "EBOOK-01",
		Filename: "files/ebook_01.zip",
		Title:    "First Edition",
	}); err != nil {
		t.Fatalf("catalog put: %v", err)
	}

	grants := storage.NewGrantStore(memory.New())
	return NewIssueService(cat, grants, ttl, nil), grants
}

func TestIssue(t *testing.T) {
	svc, grants := newIssueFixture(t, time.Hour)

	resp, err := svc.Issue(context.Background(), &IssueRequest{
		SKU:     "ebook-01",
		OrderID: "1001",
		Email:   "buyer@example.com",
	})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	g := resp.Grant
	if len(g.Token) != 64 {
		t.Errorf("token length = %d, want 64", len(g.Token))
	}
	if g.SKU != "EBOOK-01" {
		t.Errorf("SKU = %q, want EBOOK-01", g.SKU)
	}
	if g.OrderID != "#1001" {
		t.Errorf("OrderID = %q, want #1001", g.OrderID)
	}
	if g.Filename != "files/ebook_01.zip" {
		t.Errorf("Filename = %q", g.Filename)
	}
	if resp.Product.Title != "First Edition" {
		t.Errorf("Product title = %q", resp.Product.Title)
	}

	// The grant must be retrievable by its token.
	stored, err := grants.Get(context.Background(), g.Token)
	if err != nil {
		t.Fatalf("stored grant not found: %v", err)
	}
	if stored.SKU != "EBOOK-01" {
		t.Errorf("stored SKU = %q", stored.SKU)
	}
}

func TestIssueTokensAreUnique(t *testing.T) {
	svc, _ := newIssueFixture(t, time.Hour)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		resp, err := svc.Issue(context.Background(), &IssueRequest{SKU: "EBOOK-01"})
		if err != nil {
			t.Fatalf("Issue() error: %v", err)
		}
		if seen[resp.Grant.Token] {
			t.Fatal("duplicate token issued")
		}
		seen[resp.Grant.Token] = true
	}
}

func TestIssueMissingSKU(t *testing.T) {
	svc, _ := newIssueFixture(t, time.Hour)

	_, err := svc.Issue(context.Background(), &IssueRequest{SKU: "  "})
	if !errors.Is(err, domain.ErrMissingSKU) {
		t.Errorf("Issue(blank sku) error = %v, want ErrMissingSKU", err)
	}
}

func TestIssueUnknownSKU(t *testing.T) {
	svc, _ := newIssueFixture(t, time.Hour)

	_, err := svc.Issue(context.Background(), &IssueRequest{SKU: "GHOST"})
	if !errors.Is(err, domain.ErrUnknownProduct) {
		t.Errorf("Issue(unknown sku) error = %v, want ErrUnknownProduct", err)
	}
}

func TestIssueDefaultTTL(t *testing.T) {
	svc, _ := newIssueFixture(t, 0)

	if svc.TTL() != DefaultGrantTTL {
		t.Errorf("TTL() = %v, want %v", svc.TTL(), DefaultGrantTTL)
	}

	resp, err := svc.Issue(context.Background(), &IssueRequest{SKU: "EBOOK-01"})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	remaining := resp.Grant.TTLRemaining()
	if remaining < DefaultGrantTTL-time.Minute || remaining > DefaultGrantTTL {
		t.Errorf("TTLRemaining() = %v, want about %v", remaining, DefaultGrantTTL)
	}
}
