package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/revaer/revaer/pkg/revaerr"
	"github.com/revaer/revaer/pkg/torrentapi"
)

// torrentID extracts and parses the {id} chi URL parameter, writing a
// problem response and returning ok=false if it is not a valid UUID.
func torrentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeProblem(w, &revaerr.InvalidFieldError{Section: "path", Field: "id", Value: raw, Reason: "not a valid uuid"})
		return uuid.Nil, false
	}
	return id, true
}

// handleTorrentsList serves GET /v1/torrents.
func (a *API) handleTorrentsList(w http.ResponseWriter, r *http.Request) {
	_, _, ok := a.authGate(w, r, true)
	if !ok {
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	query := torrentapi.TorrentListQuery{
		Name:      q.Get("name"),
		State:     q.Get("state"),
		Tag:       q.Get("tag"),
		Tracker:   q.Get("tracker"),
		Extension: q.Get("extension"),
		Cursor:    q.Get("cursor"),
		Limit:     limit,
	}

	resp, err := a.torrents.List(r.Context(), query)
	if err != nil {
		writeProblem(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleTorrentsGet serves GET /v1/torrents/{id}.
func (a *API) handleTorrentsGet(w http.ResponseWriter, r *http.Request) {
	_, _, ok := a.authGate(w, r, true)
	if !ok {
		return
	}
	id, ok := torrentID(w, r)
	if !ok {
		return
	}

	detail, err := a.torrents.Get(r.Context(), id)
	if err != nil {
		writeProblem(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type torrentCreateResponse struct {
	ID uuid.UUID `json:"id"`
}

// handleTorrentsCreate serves POST /v1/torrents. An `Idempotency-Key`
// header carrying a client-supplied UUID dedups retried creates
// against the same caller without a database round trip, per spec
// §4.11.
func (a *API) handleTorrentsCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	authCtx, _, ok := a.authGate(w, r, false)
	if !ok {
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")
	var cacheKey string
	if idempotencyKey != "" {
		cacheKey = scopedKey(authCtx.KeyID, idempotencyKey)
		if id, found := a.idempo.lookup(cacheKey); found {
			writeJSON(w, http.StatusOK, torrentCreateResponse{ID: id})
			return
		}
	}

	var req torrentapi.TorrentCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeProblem(w, err)
		return
	}

	id, err := a.torrents.Create(ctx, req)
	if err != nil {
		writeProblem(w, err)
		return
	}

	if cacheKey != "" {
		a.idempo.put(cacheKey, id)
	}
	writeJSON(w, http.StatusOK, torrentCreateResponse{ID: id})
}

// handleTorrentsAction serves POST /v1/torrents/{id}/actions.
func (a *API) handleTorrentsAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, _, ok := a.authGate(w, r, false)
	if !ok {
		return
	}
	id, ok := torrentID(w, r)
	if !ok {
		return
	}

	var action torrentapi.TorrentAction
	if err := decodeJSON(r, &action); err != nil {
		writeProblem(w, err)
		return
	}

	if err := a.torrents.Act(ctx, id, action); err != nil {
		writeProblem(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTorrentsSelect serves POST /v1/torrents/{id}/select.
func (a *API) handleTorrentsSelect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, _, ok := a.authGate(w, r, false)
	if !ok {
		return
	}
	id, ok := torrentID(w, r)
	if !ok {
		return
	}

	var sel torrentapi.TorrentSelectionRequest
	if err := decodeJSON(r, &sel); err != nil {
		writeProblem(w, err)
		return
	}

	if err := a.torrents.Select(ctx, id, sel); err != nil {
		writeProblem(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTorrentsOptionsPatch serves PATCH /v1/torrents/{id}/options.
func (a *API) handleTorrentsOptionsPatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, _, ok := a.authGate(w, r, false)
	if !ok {
		return
	}
	id, ok := torrentID(w, r)
	if !ok {
		return
	}

	var opts torrentapi.TorrentOptionsRequest
	if err := decodeJSON(r, &opts); err != nil {
		writeProblem(w, err)
		return
	}

	if err := a.torrents.UpdateOptions(ctx, id, opts); err != nil {
		writeProblem(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type trackerPatchRequest struct {
	Trackers []string `json:"trackers"`
	Replace  bool     `json:"replace"`
}

// handleTorrentsTrackersPatch serves PATCH /v1/torrents/{id}/trackers.
func (a *API) handleTorrentsTrackersPatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, _, ok := a.authGate(w, r, false)
	if !ok {
		return
	}
	id, ok := torrentID(w, r)
	if !ok {
		return
	}

	var body trackerPatchRequest
	if err := decodeJSON(r, &body); err != nil {
		writeProblem(w, err)
		return
	}

	if err := a.torrents.UpdateTrackers(ctx, id, body.Trackers, body.Replace); err != nil {
		writeProblem(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type trackerDeleteRequest struct {
	Trackers []string `json:"trackers"`
}

// handleTorrentsTrackersDelete serves DELETE /v1/torrents/{id}/trackers.
func (a *API) handleTorrentsTrackersDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, _, ok := a.authGate(w, r, false)
	if !ok {
		return
	}
	id, ok := torrentID(w, r)
	if !ok {
		return
	}

	var body trackerDeleteRequest
	if err := decodeJSON(r, &body); err != nil {
		writeProblem(w, err)
		return
	}

	if err := a.torrents.DeleteTrackers(ctx, id, body.Trackers); err != nil {
		writeProblem(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTorrentsWebSeedsPatch serves PATCH /v1/torrents/{id}/web_seeds.
func (a *API) handleTorrentsWebSeedsPatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, _, ok := a.authGate(w, r, false)
	if !ok {
		return
	}
	id, ok := torrentID(w, r)
	if !ok {
		return
	}

	var seeds torrentapi.WebSeedSet
	if err := decodeJSON(r, &seeds); err != nil {
		writeProblem(w, err)
		return
	}

	if err := a.torrents.UpdateWebSeeds(ctx, id, seeds); err != nil {
		writeProblem(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTorrentsAuthor serves POST /v1/torrents/create: builds a new
// .torrent from local files rather than admitting an existing one.
func (a *API) handleTorrentsAuthor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, _, ok := a.authGate(w, r, false)
	if !ok {
		return
	}

	var req torrentapi.TorrentAuthorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeProblem(w, err)
		return
	}

	resp, err := a.torrents.Author(ctx, req)
	if err != nil {
		writeProblem(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
