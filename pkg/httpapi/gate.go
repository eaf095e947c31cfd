package httpapi

import (
	"net/http"

	"github.com/revaer/revaer/pkg/auth"
	"github.com/revaer/revaer/pkg/revaerr"
	"github.com/revaer/revaer/pkg/types"
)

// authGate resolves the caller's AuthContext, rejects requests made
// during Setup mode (except the setup endpoints themselves, which
// never call this), admits per readOnly/auth_mode, and enforces the
// caller's per-key rate limit. It writes a problem response and
// reports ok=false on any failure; callers should return immediately.
//
// This mirrors pkg/sse.Gateway.ServeHTTP's inline resolve-snapshot-
// admit sequence rather than a middleware chain, since every handler
// needs the resolved snapshot anyway to serve its response.
func (a *API) authGate(w http.ResponseWriter, r *http.Request, readOnly bool) (auth.Context, *types.ConfigSnapshot, bool) {
	ctx := r.Context()

	authCtx, err := auth.Resolve(ctx, a.auth, r)
	if err != nil {
		writeProblem(w, err)
		return auth.Context{}, nil, false
	}

	snapshot, err := a.config.Snapshot(ctx)
	if err != nil {
		writeProblem(w, err)
		return auth.Context{}, nil, false
	}

	if snapshot.App.Mode == types.AppModeSetup {
		writeProblem(w, &revaerr.ConflictError{Code: revaerr.ConflictSetupRequired, Message: "this endpoint is unavailable until setup completes"})
		return auth.Context{}, nil, false
	}

	if err := auth.Admit(authCtx, snapshot.App.AuthMode, readOnly); err != nil {
		writeProblem(w, err)
		return auth.Context{}, nil, false
	}

	if authCtx.Kind == auth.KindApiKey && authCtx.RateLimit != nil {
		if !a.limiters.allow(authCtx.KeyID, *authCtx.RateLimit) {
			writeProblem(w, &revaerr.RateLimitError{RetryAfterSeconds: int(authCtx.RateLimit.ReplenishPeriod.Seconds())})
			return auth.Context{}, nil, false
		}
	}

	return authCtx, snapshot, true
}

// actorFor renders an AuthContext as the audit-log actor string for
// ApplyChangeset's actor parameter.
func actorFor(c auth.Context) string {
	switch c.Kind {
	case auth.KindApiKey:
		return "api_key:" + c.KeyID
	case auth.KindSetupToken:
		return "setup_token"
	default:
		return "anonymous"
	}
}
