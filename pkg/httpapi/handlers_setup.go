package httpapi

import (
	"net/http"
	"time"

	"github.com/revaer/revaer/pkg/revaerr"
	"github.com/revaer/revaer/pkg/types"
)

type setupStartResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// handleSetupStart serves POST /v1/setup/start. Unauthenticated by
// nature — there is no credential to present before setup exists.
func (a *API) handleSetupStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snapshot, err := a.config.Snapshot(ctx)
	if err != nil {
		writeProblem(w, err)
		return
	}
	if snapshot.App.Mode == types.AppModeActive {
		writeProblem(w, &revaerr.ConflictError{Code: revaerr.ConflictModeAlreadyActive, Message: "instance has already completed setup"})
		return
	}

	token, expiresAt, err := a.config.IssueSetupToken(ctx, 0, "http:setup_start")
	if err != nil {
		writeProblem(w, err)
		return
	}
	writeJSON(w, http.StatusOK, setupStartResponse{Token: token, ExpiresAt: expiresAt})
}

type setupCompleteRequest struct {
	Token     string            `json:"token"`
	Changeset *types.Changeset `json:"changeset,omitempty"`
}

type setupCompleteResponse struct {
	Snapshot        *types.ConfigSnapshot `json:"snapshot"`
	ApiKeyID        string                `json:"api_key_id,omitempty"`
	ApiKeySecret    string                `json:"api_key_secret,omitempty"`
	ApiKeyExpiresAt *time.Time            `json:"api_key_expires_at,omitempty"`
}

// handleSetupComplete serves POST /v1/setup/complete: consume the
// setup token, optionally apply the initial changeset, flip the
// instance to Active, and — if auth_mode requires a credential and
// none exists yet — mint the operator's first API key.
func (a *API) handleSetupComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body setupCompleteRequest
	if err := decodeJSON(r, &body); err != nil {
		writeProblem(w, err)
		return
	}

	if err := a.config.ConsumeSetupToken(ctx, body.Token); err != nil {
		writeProblem(w, err)
		return
	}

	if body.Changeset != nil {
		if _, err := a.config.ApplyChangeset(ctx, "setup_token", "setup completion", body.Changeset); err != nil {
			writeProblem(w, err)
			return
		}
	}

	if err := a.config.ActivateMode(ctx); err != nil {
		writeProblem(w, err)
		return
	}

	snapshot, err := a.config.Snapshot(ctx)
	if err != nil {
		writeProblem(w, err)
		return
	}

	resp := setupCompleteResponse{Snapshot: snapshot}

	if snapshot.App.AuthMode == types.AuthModeApiKey {
		hasKeys, err := a.config.HasApiKeys(ctx)
		if err != nil {
			writeProblem(w, err)
			return
		}
		if !hasKeys {
			key, plaintext, err := a.config.CreateApiKey(ctx, "setup", nil)
			if err != nil {
				writeProblem(w, err)
				return
			}
			resp.ApiKeyID = key.KeyID
			resp.ApiKeySecret = plaintext
			resp.ApiKeyExpiresAt = &key.ExpiresAt
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
