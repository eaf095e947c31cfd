package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/revaer/revaer/pkg/events"
	"github.com/revaer/revaer/pkg/torrentapi"
	"github.com/revaer/revaer/pkg/types"
)

type stubAuthFacade struct{}

func (stubAuthFacade) AuthenticateApiKey(ctx context.Context, keyID, secret string) (*types.ApiKey, error) {
	return nil, nil
}
func (stubAuthFacade) ConsumeSetupToken(ctx context.Context, token string) error { return nil }
func (stubAuthFacade) RefreshApiKeyExpiry(ctx context.Context, keyID string) (time.Time, error) {
	return time.Time{}, nil
}

type stubSnapshotter struct {
	mode     types.AppMode
	authMode types.AuthMode
}

func (s stubSnapshotter) Snapshot(ctx context.Context) (*types.ConfigSnapshot, error) {
	return &types.ConfigSnapshot{App: types.AppProfile{Mode: s.mode, AuthMode: s.authMode}}, nil
}

func newTestGateway(t *testing.T, broker *events.Broker, heartbeat time.Duration) (*Gateway, *torrentapi.FakeEngine) {
	t.Helper()
	engine := torrentapi.NewFakeEngine()
	svc := torrentapi.NewService(engine)
	gw := NewGateway(broker, stubAuthFacade{}, stubSnapshotter{mode: types.AppModeActive, authMode: types.AuthModeNone}, svc, heartbeat)
	return gw, engine
}

func TestGatewayRejectsStreamDuringSetupMode(t *testing.T) {
	broker := events.NewBroker()
	engine := torrentapi.NewFakeEngine()
	svc := torrentapi.NewService(engine)
	gw := NewGateway(broker, stubAuthFacade{}, stubSnapshotter{mode: types.AppModeSetup, authMode: types.AuthModeApiKey}, svc, time.Second)

	req := httptest.NewRequest(http.MethodGet, "/v1/events/stream", nil)
	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestGatewayRejectsAnonymousUnderApiKeyMode(t *testing.T) {
	broker := events.NewBroker()
	engine := torrentapi.NewFakeEngine()
	svc := torrentapi.NewService(engine)
	gw := NewGateway(broker, stubAuthFacade{}, stubSnapshotter{mode: types.AppModeActive, authMode: types.AuthModeApiKey}, svc, time.Second)

	req := httptest.NewRequest(http.MethodGet, "/v1/events/stream", nil)
	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGatewayRejectsMalformedFilter(t *testing.T) {
	broker := events.NewBroker()
	gw, _ := newTestGateway(t, broker, time.Second)

	req := httptest.NewRequest(http.MethodGet, "/v1/events/stream?view=bogus", nil)
	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGatewayStreamsInitialSnapshotAndLiveEvents(t *testing.T) {
	broker := events.NewBroker()
	gw, engine := newTestGateway(t, broker, 10*time.Millisecond)

	id := uuid.New()
	engine.Seed(types.TorrentStatus{ID: id, Name: "seeded", State: types.TorrentDownloading})

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/v1/events/stream?ids="+id.String(), nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		gw.ServeHTTP(rec, req)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		if strings.Contains(rec.Body.String(), "torrent_list_snapshot") {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for initial snapshot")
		case <-time.After(10 * time.Millisecond):
		}
	}

	broker.Publish(events.Event{Kind: events.KindTorrentProgress, Payload: events.TorrentProgressPayload{TorrentID: id, BytesDownloaded: 10}})

	for {
		if strings.Contains(rec.Body.String(), "torrent_progress") {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for live envelope")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for handler to return after cancellation")
	}
}

func TestGatewaySuppressesUnsubscribedTorrent(t *testing.T) {
	broker := events.NewBroker()
	gw, engine := newTestGateway(t, broker, 10*time.Millisecond)

	watched, other := uuid.New(), uuid.New()
	engine.Seed(types.TorrentStatus{ID: watched, Name: "watched"})
	engine.Seed(types.TorrentStatus{ID: other, Name: "other"})

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/v1/events/stream?ids="+watched.String(), nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		gw.ServeHTTP(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	broker.Publish(events.Event{Kind: events.KindFsopsCompleted, Payload: events.FsopsCompletedPayload{TorrentID: other}})
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for handler to return after cancellation")
	}

	if strings.Contains(rec.Body.String(), "fsops_completed") {
		t.Error("expected unsubscribed torrent's event to be suppressed")
	}
}
