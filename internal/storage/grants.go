package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/livemedia/linkgate/internal/core/domain"
	"github.com/livemedia/linkgate/pkg/seal"
)

// GrantKeyPrefix namespaces grant records in the shared keyspace.
const GrantKeyPrefix = "t:"

// GrantStore persists download grants in a KV engine. Records are
// JSON-encoded under "t:"+token; when a Sealer is configured the JSON
// is encrypted at rest with the storage key as additional data, so a
// sealed record copied to another key fails to open.
type GrantStore struct {
	kv     KV
	sealer *seal.Sealer
}

// GrantStoreOption configures the GrantStore.
type GrantStoreOption func(*GrantStore)

// WithSealer enables at-rest encryption of grant records.
func WithSealer(s *seal.Sealer) GrantStoreOption {
	return func(gs *GrantStore) {
		gs.sealer = s
	}
}

// NewGrantStore creates a grant store over the given KV engine.
func NewGrantStore(kv KV, opts ...GrantStoreOption) *GrantStore {
	gs := &GrantStore{kv: kv}
	for _, opt := range opts {
		opt(gs)
	}
	return gs
}

// GrantKey returns the storage key for a token.
func GrantKey(token string) string {
	return GrantKeyPrefix + token
}

// Put persists a grant with a TTL matching its remaining lifetime.
// The engine purges the record at expiry; the explicit deadline inside
// the record is the second line of defense.
func (gs *GrantStore) Put(ctx context.Context, grant *domain.DownloadGrant) error {
	if err := grant.Validate(); err != nil {
		return err
	}
	if grant.Token == "" {
		return domain.ErrGrantValidation.WithDetails("token is empty")
	}

	value, err := json.Marshal(grant)
	if err != nil {
		return domain.ErrStorageError.WithDetails("marshal grant").WithCause(err)
	}

	key := GrantKey(grant.Token)
	if gs.sealer != nil {
		value, err = gs.sealer.Seal(value, []byte(key))
		if err != nil {
			return domain.ErrStorageError.WithDetails("seal grant").WithCause(err)
		}
	}

	if err := gs.kv.Set(ctx, key, value, grant.TTLRemaining()); err != nil {
		return domain.ErrStorageError.WithDetails("store grant").WithCause(err)
	}
	return nil
}

// Get loads the grant for a token. Absent and expired-and-purged
// records both surface as domain.ErrGrantNotFound.
func (gs *GrantStore) Get(ctx context.Context, token string) (*domain.DownloadGrant, error) {
	key := GrantKey(token)

	value, err := gs.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, domain.ErrGrantNotFound
		}
		return nil, domain.ErrStorageError.WithDetails("load grant").WithCause(err)
	}

	if gs.sealer != nil {
		value, err = gs.sealer.Open(value, []byte(key))
		if err != nil {
			// Undecryptable records are indistinguishable from absent
			// ones to the caller; log-worthy, not client-visible.
			return nil, domain.ErrGrantNotFound.WithCause(fmt.Errorf("unseal grant: %w", err))
		}
	}

	var grant domain.DownloadGrant
	if err := json.Unmarshal(value, &grant); err != nil {
		return nil, domain.ErrStorageError.WithDetails("unmarshal grant").WithCause(err)
	}
	grant.Token = token

	return &grant, nil
}

// Delete removes the grant for a token. Used for single-use
// redemption; deleting an absent grant is not an error.
func (gs *GrantStore) Delete(ctx context.Context, token string) error {
	if err := gs.kv.Delete(ctx, GrantKey(token)); err != nil {
		return domain.ErrStorageError.WithDetails("delete grant").WithCause(err)
	}
	return nil
}
