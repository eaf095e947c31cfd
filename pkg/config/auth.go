package config

import (
	"context"
	"errors"
	"time"

	"github.com/revaer/revaer/pkg/store"
	"github.com/revaer/revaer/pkg/types"
)

// AuthenticateApiKey looks up key_id and verifies secret, returning nil
// (not an error) on any of missing/disabled/expired/mismatch per spec
// §4.4's "returns None on missing/disabled/expired/mismatch" — only a
// genuine storage or hash-corruption failure is returned as an error.
func (f *Facade) AuthenticateApiKey(ctx context.Context, keyID, secret string) (*types.ApiKey, error) {
	key, err := f.store.Q().GetApiKey(ctx, keyID)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if !key.Enabled {
		return nil, nil
	}
	if !key.ExpiresAt.After(f.now()) {
		return nil, nil
	}
	match, verr := f.hasher.Verify(key.HashedSecret, secret)
	if verr != nil {
		return nil, verr
	}
	if !match {
		return nil, nil
	}
	return key, nil
}

// HasApiKeys reports whether any API key exists, used when deciding
// whether setup completion in anonymous mode still needs to mint one.
func (f *Facade) HasApiKeys(ctx context.Context) (bool, error) {
	return f.store.Q().HasApiKeys(ctx)
}

// RefreshApiKeyExpiry extends keyID's expiry by ApiKeyTTLDays, the
// operation behind pkg/auth's per-request token refresh (C5). It does
// not itself enforce that the caller's AuthContext carries this key —
// that check belongs to pkg/auth, which is the only caller.
func (f *Facade) RefreshApiKeyExpiry(ctx context.Context, keyID string) (time.Time, error) {
	expiresAt := f.now().Add(ApiKeyTTLDays * 24 * time.Hour)
	if err := f.store.Q().RefreshApiKeyExpiry(ctx, keyID, expiresAt); err != nil {
		return time.Time{}, err
	}
	return expiresAt, nil
}
