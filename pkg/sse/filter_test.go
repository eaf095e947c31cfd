package sse

import (
	"net/url"
	"testing"

	"github.com/google/uuid"

	"github.com/revaer/revaer/pkg/events"
)

func TestParseFilterDefaultsToListView(t *testing.T) {
	f, err := ParseFilter(url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.View != ViewList {
		t.Fatalf("expected ViewList, got %v", f.View)
	}
	if len(f.IDs) != 0 {
		t.Fatalf("expected no ids, got %v", f.IDs)
	}
}

func TestParseFilterParsesIDsAndState(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	q := url.Values{"ids": {a.String() + "," + b.String()}, "state": {"seeding"}}
	f, err := ParseFilter(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.IDs) != 2 || f.IDs[0] != a || f.IDs[1] != b {
		t.Fatalf("unexpected ids: %v", f.IDs)
	}
	if f.State != "seeding" {
		t.Fatalf("expected state seeding, got %q", f.State)
	}
}

func TestParseFilterRejectsMalformedID(t *testing.T) {
	_, err := ParseFilter(url.Values{"ids": {"not-a-uuid"}})
	if err == nil {
		t.Fatal("expected error for malformed id")
	}
}

func TestParseFilterRejectsUnknownView(t *testing.T) {
	_, err := ParseFilter(url.Values{"view": {"bogus"}})
	if err == nil {
		t.Fatal("expected error for unknown view")
	}
}

func TestParseFilterDetailRequiresSelected(t *testing.T) {
	_, err := ParseFilter(url.Values{"view": {"detail"}})
	if err == nil {
		t.Fatal("expected error for detail view without selected")
	}
}

func TestFilterAllowsMatchingListID(t *testing.T) {
	a, c := uuid.New(), uuid.New()
	f := Filter{IDs: []uuid.UUID{a}, View: ViewList}

	allowed := events.Envelope{Kind: events.KindTorrentProgress, Payload: events.TorrentProgressPayload{TorrentID: a}}
	suppressed := events.Envelope{Kind: events.KindFsopsCompleted, Payload: events.FsopsCompletedPayload{TorrentID: c}}

	if !f.Allows(allowed) {
		t.Error("expected envelope for subscribed id to be allowed")
	}
	if f.Allows(suppressed) {
		t.Error("expected envelope for unrelated id to be suppressed")
	}
}

func TestFilterDetailViewScopedToSelected(t *testing.T) {
	a, c := uuid.New(), uuid.New()
	f := Filter{Selected: a, View: ViewDetail}

	if !f.Allows(events.Envelope{Kind: events.KindTorrentProgress, Payload: events.TorrentProgressPayload{TorrentID: a}}) {
		t.Error("expected selected torrent's envelope to be allowed")
	}
	if f.Allows(events.Envelope{Kind: events.KindTorrentProgress, Payload: events.TorrentProgressPayload{TorrentID: c}}) {
		t.Error("expected other torrent's envelope to be suppressed in detail view")
	}
}

func TestFilterAlwaysAllowsGlobalKinds(t *testing.T) {
	f := Filter{IDs: []uuid.UUID{uuid.New()}, View: ViewList}
	if !f.Allows(events.Envelope{Kind: events.KindHealthChanged, Payload: events.HealthChangedPayload{}}) {
		t.Error("expected HealthChanged to always pass through")
	}
	if !f.Allows(events.Envelope{Kind: events.KindRefresh}) {
		t.Error("expected Refresh to always pass through")
	}
}

func TestFilterStateNarrowsTorrentUpdated(t *testing.T) {
	id := uuid.New()
	f := Filter{IDs: []uuid.UUID{id}, View: ViewList, State: "seeding"}

	match := events.Envelope{Kind: events.KindTorrentUpdated, Payload: events.TorrentUpdatedPayload{TorrentID: id, State: "seeding"}}
	mismatch := events.Envelope{Kind: events.KindTorrentUpdated, Payload: events.TorrentUpdatedPayload{TorrentID: id, State: "downloading"}}

	if !f.Allows(match) {
		t.Error("expected matching state to be allowed")
	}
	if f.Allows(mismatch) {
		t.Error("expected mismatched state to be suppressed")
	}
}
