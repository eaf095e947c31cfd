package config

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/revaer/revaer/pkg/revaerr"
	"github.com/revaer/revaer/pkg/store"
	"github.com/revaer/revaer/pkg/types"
)

// apiKeySecretLength matches setupTokenLength's entropy budget.
const apiKeySecretLength = setupTokenLength

// ActivateMode transitions the instance from AppModeSetup to
// AppModeActive. It is a no-op (not an error) if the instance is
// already active, since a retried setup/complete call must be safe to
// repeat.
func (f *Facade) ActivateMode(ctx context.Context) error {
	return f.store.ApplyInTx(ctx, func(ctx context.Context, q *store.Queries) error {
		profile, err := q.GetAppProfile(ctx)
		if err != nil {
			return err
		}
		if profile.Mode == types.AppModeActive {
			return nil
		}
		profile.Mode = types.AppModeActive
		return q.PutAppProfile(ctx, profile)
	})
}

// CreateApiKey mints a fresh API key, returning its plaintext secret
// exactly once (mirroring IssueSetupToken's one-shot plaintext return).
// Used by the setup-completion handler to hand the operator their first
// credential when the instance's auth_mode requires one.
func (f *Facade) CreateApiKey(ctx context.Context, label string, rateLimit *types.RateLimit) (*types.ApiKey, string, error) {
	plaintext, err := generateHighEntropySecret(apiKeySecretLength)
	if err != nil {
		return nil, "", &revaerr.SecretHashFailedError{Source: err}
	}
	hashed, err := f.hasher.Hash(plaintext)
	if err != nil {
		return nil, "", &revaerr.SecretHashFailedError{Source: err}
	}

	key := &types.ApiKey{
		KeyID:        uuid.NewString(),
		HashedSecret: hashed,
		Label:        label,
		Enabled:      true,
		ExpiresAt:    f.now().Add(ApiKeyTTLDays * 24 * time.Hour),
		RateLimit:    rateLimit,
	}

	err = f.store.ApplyInTx(ctx, func(ctx context.Context, q *store.Queries) error {
		return q.InsertApiKey(ctx, key)
	})
	if err != nil {
		return nil, "", err
	}
	return key, plaintext, nil
}
