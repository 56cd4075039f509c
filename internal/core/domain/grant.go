package domain

import (
	"path"
	"strings"
	"time"

	"github.com/livemedia/linkgate/pkg/token"
)

// DefaultAttachmentName is the download filename used when a grant's
// mapped filename has no usable basename.
const DefaultAttachmentName = "ebook.zip"

// DownloadGrant authorizes exactly one product download. It is keyed
// by an unguessable token and bounded by an expiry deadline; the token
// itself is the storage key and is never persisted inside the record.
type DownloadGrant struct {
	Token     string `json:"-"`
	OrderID   string `json:"orderId"`
	Email     string `json:"email"`
	SKU       string `json:"sku"`
	Filename  string `json:"filename"`
	ExpiresAt int64  `json:"exp"` // epoch milliseconds
}

// NewDownloadGrant creates a grant with a fresh random token and an
// expiry of now+ttl.
func NewDownloadGrant(orderID, email, sku, filename string, ttl time.Duration) (*DownloadGrant, error) {
	tok, err := token.Generate()
	if err != nil {
		return nil, ErrInternalServer.WithDetails("token generation failed").WithCause(err)
	}

	return &DownloadGrant{
		Token:     tok,
		OrderID:   orderID,
		Email:     email,
		SKU:       sku,
		Filename:  filename,
		ExpiresAt: time.Now().Add(ttl).UnixMilli(),
	}, nil
}

// Validate checks the grant invariants.
func (g *DownloadGrant) Validate() error {
	if strings.TrimSpace(g.SKU) == "" {
		return ErrGrantValidation.WithDetails("sku is empty")
	}
	if strings.TrimSpace(g.Filename) == "" {
		return ErrGrantValidation.WithDetails("filename is empty")
	}
	if g.ExpiresAt <= 0 {
		return ErrGrantValidation.WithDetails("expiry not set")
	}
	return nil
}

// IsExpired reports whether the grant's deadline has passed.
func (g *DownloadGrant) IsExpired() bool {
	return time.Now().UnixMilli() > g.ExpiresAt
}

// ExpiresAtTime returns the expiry deadline as a time.Time.
func (g *DownloadGrant) ExpiresAtTime() time.Time {
	return time.UnixMilli(g.ExpiresAt)
}

// TTLRemaining returns the time left before expiry, or zero if the
// grant is already expired.
func (g *DownloadGrant) TTLRemaining() time.Duration {
	remaining := time.Until(g.ExpiresAtTime())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AttachmentName returns the filename presented to the downloading
// client: the basename of the mapped object key.
func (g *DownloadGrant) AttachmentName() string {
	base := path.Base(g.Filename)
	if base == "" || base == "." || base == "/" {
		return DefaultAttachmentName
	}
	return base
}

// Clone returns a deep copy of the grant.
func (g *DownloadGrant) Clone() *DownloadGrant {
	clone := *g
	return &clone
}
