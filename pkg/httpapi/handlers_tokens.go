package httpapi

import (
	"net/http"
	"time"

	"github.com/revaer/revaer/pkg/revaerr"
)

type tokenRefreshResponse struct {
	ApiKeyExpiresAt time.Time `json:"api_key_expires_at"`
}

// handleTokenRefresh serves POST /v1/tokens/refresh. Only an ApiKey
// context may refresh; Anonymous and SetupToken contexts are rejected
// per spec §4.5 even when auth_mode admits anonymous reads, since
// readOnly=false here never admits Anonymous.
func (a *API) handleTokenRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	authCtx, _, ok := a.authGate(w, r, false)
	if !ok {
		return
	}
	if !authCtx.CanRefresh() {
		writeProblem(w, &revaerr.AuthError{Reason: revaerr.AuthMissingCredential})
		return
	}

	expiresAt, err := a.config.RefreshApiKeyExpiry(ctx, authCtx.KeyID)
	if err != nil {
		writeProblem(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenRefreshResponse{ApiKeyExpiresAt: expiresAt})
}
