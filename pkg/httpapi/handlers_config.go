package httpapi

import (
	"net/http"

	"github.com/revaer/revaer/pkg/types"
)

// handleConfigSnapshot serves GET /v1/config/snapshot.
func (a *API) handleConfigSnapshot(w http.ResponseWriter, r *http.Request) {
	_, snapshot, ok := a.authGate(w, r, true)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// handleSettingsPatch serves PATCH /v1/settings.
func (a *API) handleSettingsPatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	authCtx, _, ok := a.authGate(w, r, false)
	if !ok {
		return
	}

	var cs types.Changeset
	if err := decodeJSON(r, &cs); err != nil {
		writeProblem(w, err)
		return
	}

	if _, err := a.config.ApplyChangeset(ctx, actorFor(authCtx), "PATCH /v1/settings", &cs); err != nil {
		writeProblem(w, err)
		return
	}

	snapshot, err := a.config.Snapshot(ctx)
	if err != nil {
		writeProblem(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}
