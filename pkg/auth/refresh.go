package auth

import (
	"context"
	"time"

	"github.com/revaer/revaer/pkg/revaerr"
)

// RefreshApiKey extends c's expiry by the facade's configured TTL,
// rejecting Anonymous and SetupToken contexts per spec §4.5.
func RefreshApiKey(ctx context.Context, facade Facade, c Context) (time.Time, error) {
	if !c.CanRefresh() {
		return time.Time{}, &revaerr.AuthError{Reason: revaerr.AuthMissingCredential}
	}
	return facade.RefreshApiKeyExpiry(ctx, c.KeyID)
}
