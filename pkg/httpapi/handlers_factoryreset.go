package httpapi

import (
	"net/http"

	"github.com/revaer/revaer/pkg/revaerr"
)

// factoryResetConfirmPhrase is the exact string a caller must echo
// back to confirm a destructive factory reset, per spec §4.11.
const factoryResetConfirmPhrase = "RESET"

type factoryResetRequest struct {
	Confirm string `json:"confirm"`
}

// handleFactoryReset serves POST /v1/factory-reset.
func (a *API) handleFactoryReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, _, ok := a.authGate(w, r, false)
	if !ok {
		return
	}

	var body factoryResetRequest
	if err := decodeJSON(r, &body); err != nil {
		writeProblem(w, err)
		return
	}
	if body.Confirm != factoryResetConfirmPhrase {
		writeProblem(w, &revaerr.ConflictError{Code: revaerr.ConflictFactoryResetConfirm, Message: "confirm must equal \"" + factoryResetConfirmPhrase + "\""})
		return
	}

	if err := a.config.FactoryReset(ctx); err != nil {
		writeProblem(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
