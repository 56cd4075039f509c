package service

import (
	"context"
	"log/slog"

	"github.com/livemedia/linkgate/internal/blob"
	"github.com/livemedia/linkgate/internal/core/domain"
	"github.com/livemedia/linkgate/pkg/token"
)

// DownloadService redeems tokens into file streams.
type DownloadService struct {
	grants    GrantRepository
	blobs     blob.Store
	singleUse bool
	logger    *slog.Logger
}

// DownloadOption configures the DownloadService.
type DownloadOption func(*DownloadService)

// WithSingleUse makes redemption consume the grant: the first
// successful download deletes it.
func WithSingleUse(enabled bool) DownloadOption {
	return func(s *DownloadService) {
		s.singleUse = enabled
	}
}

// NewDownloadService creates a DownloadService.
func NewDownloadService(grants GrantRepository, blobs blob.Store, logger *slog.Logger, opts ...DownloadOption) *DownloadService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &DownloadService{
		grants: grants,
		blobs:  blobs,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Delivery is a redeemed download: the object stream plus the
// filename to present to the client.
type Delivery struct {
	Object         *blob.Object
	AttachmentName string
	Grant          *domain.DownloadGrant
}

// Redeem exchanges a token for its file stream. The caller must close
// Delivery.Object.
//
// Expired grants are deleted eagerly; absent, purged and expired
// tokens are deliberately hard to tell apart from the outside.
func (s *DownloadService) Redeem(ctx context.Context, rawToken string) (*Delivery, error) {
	if rawToken == "" {
		return nil, domain.ErrMissingToken
	}

	// Malformed tokens cannot have been issued; skip the storage
	// round-trip.
	if !token.Valid(rawToken) {
		return nil, domain.ErrGrantNotFound
	}

	grant, err := s.grants.Get(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	if grant.IsExpired() {
		if err := s.grants.Delete(ctx, rawToken); err != nil {
			s.logger.Warn("failed to delete expired grant", "error", err)
		}
		return nil, domain.ErrGrantExpired
	}

	obj, err := s.blobs.Open(ctx, grant.Filename)
	if err != nil {
		s.logger.Error("grant points at missing object",
			"sku", grant.SKU,
			"filename", grant.Filename,
			"error", err)
		return nil, err
	}

	if s.singleUse {
		if err := s.grants.Delete(ctx, rawToken); err != nil {
			// The download still proceeds; losing single-use here is
			// better than refusing a paid customer.
			s.logger.Warn("failed to consume single-use grant", "error", err)
		}
	}

	s.logger.Info("grant redeemed",
		"sku", grant.SKU,
		"order_id", grant.OrderID,
		"size", obj.Size,
		"single_use", s.singleUse)

	return &Delivery{
		Object:         obj,
		AttachmentName: grant.AttachmentName(),
		Grant:          grant,
	}, nil
}
