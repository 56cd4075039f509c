package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/livemedia/linkgate/internal/catalog"
	"github.com/livemedia/linkgate/internal/core/domain"
)

// DefaultGrantTTL is the download window applied when none is
// configured: 1440 minutes.
const DefaultGrantTTL = 1440 * time.Minute

// GrantRepository defines the storage interface for download grants.
type GrantRepository interface {
	// Put persists a grant for its remaining lifetime.
	Put(ctx context.Context, grant *domain.DownloadGrant) error

	// Get retrieves a grant by token.
	// Returns domain.ErrGrantNotFound for absent or purged tokens.
	Get(ctx context.Context, token string) (*domain.DownloadGrant, error)

	// Delete removes a grant by token.
	Delete(ctx context.Context, token string) error
}

// IssueService mints download grants for purchased SKUs.
type IssueService struct {
	catalog catalog.Catalog
	grants  GrantRepository
	ttl     time.Duration
	logger  *slog.Logger
}

// NewIssueService creates an IssueService. A non-positive ttl falls
// back to DefaultGrantTTL.
func NewIssueService(cat catalog.Catalog, grants GrantRepository, ttl time.Duration, logger *slog.Logger) *IssueService {
	if ttl <= 0 {
		ttl = DefaultGrantTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IssueService{
		catalog: cat,
		grants:  grants,
		ttl:     ttl,
		logger:  logger,
	}
}

// TTL returns the configured grant lifetime.
func (s *IssueService) TTL() time.Duration {
	return s.ttl
}

// IssueRequest contains parameters for grant issuance.
type IssueRequest struct {
	SKU     string // Required
	OrderID string // Optional order reference
	Email   string // Optional buyer email
}

// IssueResponse contains the result of grant issuance.
type IssueResponse struct {
	Grant   *domain.DownloadGrant
	Product *domain.Product
}

// Issue validates the SKU against the catalog, mints a fresh grant
// and persists it for the configured TTL.
func (s *IssueService) Issue(ctx context.Context, req *IssueRequest) (*IssueResponse, error) {
	sku := domain.NormalizeSKU(req.SKU)
	if sku == "" {
		return nil, domain.ErrMissingSKU
	}

	product, err := s.catalog.Lookup(ctx, sku)
	if err != nil {
		return nil, err
	}

	grant, err := domain.NewDownloadGrant(
		domain.NormalizeOrderRef(req.OrderID),
		req.Email,
		sku,
		product.Filename,
		s.ttl,
	)
	if err != nil {
		return nil, err
	}

	if err := s.grants.Put(ctx, grant); err != nil {
		return nil, err
	}

	s.logger.Info("grant issued",
		"sku", sku,
		"order_id", grant.OrderID,
		"expires_at", grant.ExpiresAt)

	return &IssueResponse{Grant: grant, Product: product}, nil
}
