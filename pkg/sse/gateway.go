package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/revaer/revaer/pkg/auth"
	"github.com/revaer/revaer/pkg/events"
	"github.com/revaer/revaer/pkg/metrics"
	"github.com/revaer/revaer/pkg/revaerr"
	"github.com/revaer/revaer/pkg/torrentapi"
	"github.com/revaer/revaer/pkg/types"
)

// DefaultHeartbeatInterval bounds how long a subscriber can go without
// any frame before a keep-alive comment is sent, per spec §4.10's
// "include a heartbeat at a bounded interval".
const DefaultHeartbeatInterval = 15 * time.Second

// ConfigSnapshotter is the subset of pkg/config.Facade's surface the
// gateway needs: the current mode (to reject connections during Setup)
// and auth mode (to decide whether Anonymous is admissible).
type ConfigSnapshotter interface {
	Snapshot(ctx context.Context) (*types.ConfigSnapshot, error)
}

// TorrentReader is the subset of pkg/torrentapi.Service's surface the
// gateway needs to build an initial snapshot.
type TorrentReader interface {
	List(ctx context.Context, q torrentapi.TorrentListQuery) (torrentapi.TorrentListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*torrentapi.TorrentDetail, error)
}

// Gateway serves GET /v1/events/stream.
type Gateway struct {
	broker            *events.Broker
	authFacade        auth.Facade
	config            ConfigSnapshotter
	torrents          TorrentReader
	heartbeatInterval time.Duration
}

// NewGateway builds a Gateway. A zero heartbeatInterval defaults to
// DefaultHeartbeatInterval.
func NewGateway(broker *events.Broker, authFacade auth.Facade, config ConfigSnapshotter, torrents TorrentReader, heartbeatInterval time.Duration) *Gateway {
	if heartbeatInterval <= 0 {
		heartbeatInterval = DefaultHeartbeatInterval
	}
	return &Gateway{
		broker:            broker,
		authFacade:        authFacade,
		config:            config,
		torrents:          torrents,
		heartbeatInterval: heartbeatInterval,
	}
}

// ServeHTTP implements http.Handler.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	authCtx, err := auth.Resolve(ctx, g.authFacade, r)
	if err != nil {
		writeProblem(w, err)
		return
	}

	snapshot, err := g.config.Snapshot(ctx)
	if err != nil {
		writeProblem(w, err)
		return
	}

	if snapshot.App.Mode == types.AppModeSetup {
		writeProblem(w, &revaerr.ConflictError{Code: revaerr.ConflictSetupRequired, Message: "the event stream is unavailable until setup completes"})
		return
	}

	if err := auth.Admit(authCtx, snapshot.App.AuthMode, true); err != nil {
		writeProblem(w, err)
		return
	}

	filter, err := ParseFilter(r.URL.Query())
	if err != nil {
		writeProblem(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeProblem(w, fmt.Errorf("response writer does not support streaming"))
		return
	}

	var lastEventID uint64
	if raw := r.Header.Get("Last-Event-Id"); raw != "" {
		if parsed, parseErr := strconv.ParseUint(raw, 10, 64); parseErr == nil {
			lastEventID = parsed
		}
	}

	sub := g.broker.Subscribe(lastEventID)
	metrics.SSESubscribers.Inc()
	defer metrics.SSESubscribers.Dec()
	defer g.broker.Unsubscribe(sub)

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := g.writeInitialSnapshot(ctx, w, filter); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(g.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case env, ok := <-sub:
			if !ok {
				return
			}
			if !filter.Allows(env) {
				continue
			}
			if err := writeFrame(w, env.ID, string(env.Kind), env.Payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// writeInitialSnapshot emits the subscribed ids' current state before
// live delivery begins, stamped with the bus position it was read at so
// a client's next Last-Event-Id resumes exactly after it.
func (g *Gateway) writeInitialSnapshot(ctx context.Context, w http.ResponseWriter, f Filter) error {
	currentID := g.broker.CurrentID()

	if f.View == ViewDetail {
		detail, err := g.torrents.Get(ctx, f.Selected)
		if err != nil {
			return nil
		}
		return writeFrame(w, currentID, "torrent_detail_snapshot", detail)
	}

	if len(f.IDs) > 0 {
		for _, id := range f.IDs {
			detail, err := g.torrents.Get(ctx, id)
			if err != nil {
				continue
			}
			if err := writeFrame(w, currentID, "torrent_list_snapshot", detail.TorrentSummary); err != nil {
				return err
			}
		}
		return nil
	}

	resp, err := g.torrents.List(ctx, torrentapi.TorrentListQuery{})
	if err != nil {
		return err
	}
	return writeFrame(w, currentID, "torrent_list_snapshot", resp)
}

// writeFrame renders one SSE frame: `id: <id>\nevent: <kind>\ndata:
// <json>\n\n`, per spec §6.
func writeFrame(w http.ResponseWriter, id uint64, kind string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", id, kind, data)
	return err
}

// writeProblem renders err as an RFC9457 problem document.
func writeProblem(w http.ResponseWriter, err error) {
	problem := revaerr.ToProblem(err)
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(problem.Status)
	_ = json.NewEncoder(w).Encode(problem)
}
