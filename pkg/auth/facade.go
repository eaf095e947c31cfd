package auth

import (
	"context"
	"time"

	"github.com/revaer/revaer/pkg/types"
)

// Facade is the subset of pkg/config.Facade's surface C5 depends on,
// narrowed to an interface so this package tests against a fake rather
// than a live Postgres-backed facade.
type Facade interface {
	AuthenticateApiKey(ctx context.Context, keyID, secret string) (*types.ApiKey, error)
	ConsumeSetupToken(ctx context.Context, token string) error
	RefreshApiKeyExpiry(ctx context.Context, keyID string) (time.Time, error)
}
