package sse

import (
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/revaer/revaer/pkg/events"
	"github.com/revaer/revaer/pkg/revaerr"
)

// View selects whether a subscription wants the list shape or the
// detail shape of the initial snapshot, per spec §4.10's
// `view∈{List, Detail}`.
type View string

const (
	ViewList   View = "list"
	ViewDetail View = "detail"
)

// Filter is one subscriber's parsed query: which torrent ids are
// visible, which single id is "selected" for a detail view, an optional
// state restriction, and the view shape.
type Filter struct {
	IDs      []uuid.UUID
	Selected uuid.UUID
	State    string
	View     View
}

// ParseFilter parses GET /v1/events/stream's `ids`, `selected`, `state`,
// `view` query parameters into a Filter.
func ParseFilter(q url.Values) (Filter, error) {
	var f Filter

	if raw := q.Get("ids"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			id, err := uuid.Parse(s)
			if err != nil {
				return Filter{}, &revaerr.InvalidFieldError{Section: "events_stream", Field: "ids", Value: s, Reason: "must be a valid uuid"}
			}
			f.IDs = append(f.IDs, id)
		}
	}

	if raw := q.Get("selected"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return Filter{}, &revaerr.InvalidFieldError{Section: "events_stream", Field: "selected", Value: raw, Reason: "must be a valid uuid"}
		}
		f.Selected = id
	}

	f.State = q.Get("state")

	switch strings.ToLower(q.Get("view")) {
	case "", "list":
		f.View = ViewList
	case "detail":
		f.View = ViewDetail
	default:
		return Filter{}, &revaerr.InvalidFieldError{Section: "events_stream", Field: "view", Value: q.Get("view"), Reason: "must be one of list, detail"}
	}

	if f.View == ViewDetail && f.Selected == uuid.Nil {
		return Filter{}, &revaerr.InvalidFieldError{Section: "events_stream", Field: "selected", Reason: "required when view=detail"}
	}

	return f, nil
}

// Allows reports whether env should be delivered to a subscriber with
// this filter, per spec E2E-5: a detail view is scoped to the selected
// id; a list view is scoped to the ids set (or unrestricted when ids is
// empty), further narrowed by state when the envelope's payload carries
// one. Global, non-torrent-scoped kinds (health, refresh, system rates)
// always pass through.
func (f Filter) Allows(env events.Envelope) bool {
	switch env.Kind {
	case events.KindRefresh, events.KindHealthChanged, events.KindSystemRates:
		return true
	}

	torrentID, scoped := torrentIDOf(env.Payload)
	if !scoped {
		return true
	}

	if f.View == ViewDetail {
		return torrentID == f.Selected
	}

	if len(f.IDs) > 0 {
		found := false
		for _, id := range f.IDs {
			if id == torrentID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return f.stateMatches(env)
}

// stateMatches applies the `state` restriction to payloads that carry a
// torrent state; envelopes with no state of their own (progress ticks,
// fsops steps) are not filtered by it.
func (f Filter) stateMatches(env events.Envelope) bool {
	if f.State == "" {
		return true
	}
	if p, ok := env.Payload.(events.TorrentUpdatedPayload); ok {
		return p.State == f.State
	}
	return true
}

// torrentIDOf extracts the subject torrent id from a known event
// payload shape, reporting false for payloads with no single torrent
// subject.
func torrentIDOf(payload any) (uuid.UUID, bool) {
	switch p := payload.(type) {
	case events.TorrentAddedPayload:
		return p.TorrentID, true
	case events.TorrentUpdatedPayload:
		return p.TorrentID, true
	case events.TorrentRemovedPayload:
		return p.TorrentID, true
	case events.TorrentProgressPayload:
		return p.TorrentID, true
	case events.FsopsStartedPayload:
		return p.TorrentID, true
	case events.FsopsProgressPayload:
		return p.TorrentID, true
	case events.FsopsCompletedPayload:
		return p.TorrentID, true
	case events.FsopsFailedPayload:
		return p.TorrentID, true
	default:
		return uuid.Nil, false
	}
}
