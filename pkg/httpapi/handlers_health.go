package httpapi

import (
	"net/http"
)

type databaseStatus struct {
	Status   string `json:"status"`
	Revision int64  `json:"revision"`
}

type healthResponse struct {
	Status   string         `json:"status"`
	Mode     string         `json:"mode"`
	Database databaseStatus `json:"database"`
}

// handleHealth serves GET /v1/health. Unauthenticated, since a caller
// needs it to decide whether the instance is even reachable yet.
func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snapshot, err := a.config.Snapshot(ctx)
	if err != nil {
		writeProblem(w, err)
		return
	}

	dbStatus := "ok"
	if dbErr := a.dbChecker.Check(ctx); dbErr != nil {
		a.health.Mark("database")
		dbStatus = "degraded"
	} else {
		a.health.Clear("database")
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status: string(a.health.Status()),
		Mode:   string(snapshot.App.Mode),
		Database: databaseStatus{
			Status:   dbStatus,
			Revision: snapshot.Revision,
		},
	})
}
