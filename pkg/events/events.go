package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/revaer/revaer/pkg/metrics"
)

// Kind identifies the shape of an Event's payload.
type Kind string

const (
	KindTorrentAdded    Kind = "torrent_added"
	KindTorrentUpdated  Kind = "torrent_updated"
	KindTorrentRemoved  Kind = "torrent_removed"
	KindTorrentProgress Kind = "torrent_progress"
	KindFsopsStarted    Kind = "fsops_started"
	KindFsopsProgress   Kind = "fsops_progress"
	KindFsopsCompleted  Kind = "fsops_completed"
	KindFsopsFailed     Kind = "fsops_failed"
	KindHealthChanged   Kind = "health_changed"
	KindSystemRates     Kind = "system_rates"
	// KindRefresh is never published by a producer; the bus synthesizes it
	// for a subscriber that has fallen too far behind or whose requested
	// Last-Event-Id has already been evicted.
	KindRefresh Kind = "refresh"
)

// terminal reports whether a kind marks the end of a torrent or fsops
// lifecycle. Terminal events are never dropped under backpressure.
func (k Kind) terminal() bool {
	switch k {
	case KindFsopsCompleted, KindFsopsFailed, KindHealthChanged, KindTorrentRemoved:
		return true
	default:
		return false
	}
}

// latestState reports whether only the newest event of this kind (per
// torrent, where applicable) needs to survive backpressure — older
// instances are redundant once a newer one has been queued.
func (k Kind) latestState() bool {
	switch k {
	case KindHealthChanged, KindFsopsCompleted, KindTorrentProgress, KindSystemRates:
		return true
	default:
		return false
	}
}

// TorrentAddedPayload, TorrentUpdatedPayload, TorrentRemovedPayload carry
// the torrent identity and, for Updated, the current read view.
type TorrentAddedPayload struct {
	TorrentID uuid.UUID `json:"torrent_id"`
	Name      string    `json:"name"`
}

type TorrentUpdatedPayload struct {
	TorrentID uuid.UUID `json:"torrent_id"`
	State     string    `json:"state"`
}

type TorrentRemovedPayload struct {
	TorrentID uuid.UUID `json:"torrent_id"`
}

// TorrentProgressPayload carries a progress tick for one torrent.
type TorrentProgressPayload struct {
	TorrentID       uuid.UUID `json:"torrent_id"`
	BytesDownloaded int64     `json:"bytes_downloaded"`
	BytesTotal      int64     `json:"bytes_total"`
	DownBPS         int64     `json:"down_bps"`
	UpBPS           int64     `json:"up_bps"`
}

// FsopsStartedPayload, FsopsProgressPayload, FsopsCompletedPayload,
// FsopsFailedPayload track the filesystem pipeline's lifecycle for one
// torrent.
type FsopsStartedPayload struct {
	TorrentID uuid.UUID `json:"torrent_id"`
}

type FsopsProgressPayload struct {
	TorrentID uuid.UUID `json:"torrent_id"`
	Step      string    `json:"step"`
}

type FsopsCompletedPayload struct {
	TorrentID    uuid.UUID `json:"torrent_id"`
	ArtifactPath string    `json:"artifact_path"`
}

type FsopsFailedPayload struct {
	TorrentID uuid.UUID `json:"torrent_id"`
	Message   string    `json:"message"`
}

// HealthChangedPayload reports the latched set of degraded components.
type HealthChangedPayload struct {
	Degraded []string `json:"degraded"`
}

// SystemRatesPayload is an aggregate transfer-rate tick across all
// torrents.
type SystemRatesPayload struct {
	DownBPS int64 `json:"down_bps"`
	UpBPS   int64 `json:"up_bps"`
}

// Event is a single domain occurrence, prior to being assigned a bus id.
type Event struct {
	Kind      Kind
	Timestamp time.Time
	Payload   any
}

// Envelope is an Event after the bus has assigned it a monotonically
// increasing id; this is the unit handed to subscribers and serialized
// onto the SSE wire as `id: <ID>\nevent: <Kind>\ndata: <Payload>\n\n`.
type Envelope struct {
	ID        uint64
	Kind      Kind
	Timestamp time.Time
	Payload   any
}

// Subscriber is a channel of envelopes delivered to one bus subscription.
type Subscriber chan Envelope

const (
	// ringSize bounds how many recent envelopes the bus retains for
	// Last-Event-Id resume; older ids are no longer resumable and trigger
	// a Refresh hint instead.
	ringSize = 1024
	// subscriberBuffer is the per-subscriber channel capacity.
	subscriberBuffer = 128
)

// Broker is a bounded in-process publish/subscribe bus. Publish is
// non-blocking: a full subscriber channel is drained of its oldest
// non-terminal, non-latest-state-duplicate entry to make room, per the
// backpressure policy in spec §4.6/§4.10 — terminal events are never
// dropped.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[Subscriber]bool
	nextID      atomic.Uint64
	ring        []Envelope // most-recent ringSize envelopes, oldest first
}

// NewBroker creates an unstarted event broker.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[Subscriber]bool),
		ring:        make([]Envelope, 0, ringSize),
	}
}

// Publish assigns the next envelope id, records it in the resume ring,
// and fans it out to every subscriber.
func (b *Broker) Publish(event Event) Envelope {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	env := Envelope{
		ID:        b.nextID.Add(1),
		Kind:      event.Kind,
		Timestamp: event.Timestamp,
		Payload:   event.Payload,
	}

	b.mu.Lock()
	b.ring = append(b.ring, env)
	if len(b.ring) > ringSize {
		b.ring = b.ring[len(b.ring)-ringSize:]
	}
	subs := make([]Subscriber, 0, len(b.subscribers))
	for sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	for _, sub := range subs {
		b.deliver(sub, env)
	}
	return env
}

// deliver sends env to sub, evicting a droppable entry already queued
// when the channel is full. A latest-state kind first looks for a
// buffered envelope of its own kind and evicts that, so a stale
// TorrentProgress/SystemRates/HealthChanged/FsopsCompleted tick never
// survives behind a newer one of the same kind. Terminal envelopes for
// sub are always delivered even if that requires dropping a non-terminal
// one; a full channel of nothing but terminal/latest-state backlog is
// left alone and the new envelope is (rarely) dropped rather than
// violating ordering.
func (b *Broker) deliver(sub Subscriber, env Envelope) {
	select {
	case sub <- env:
		return
	default:
	}

	if !env.Kind.terminal() && env.Kind.latestState() && b.evictSameKind(sub, env.Kind) {
		select {
		case sub <- env:
		default:
		}
		return
	}

	if env.Kind.terminal() {
		select {
		case stale := <-sub:
			if stale.Kind.terminal() {
				// put it back; we won't displace another terminal event
				select {
				case sub <- stale:
				default:
				}
				return
			}
		default:
		}
	}
	select {
	case sub <- env:
	default:
	}
}

// evictSameKind drains sub's current backlog looking for an envelope of
// kind, drops the first one found, and requeues the rest in order.
// Reports whether a slot was freed. Go's channels have no way to remove a
// single buffered element in place, so freeing one means draining
// everything already queued and putting back everything except the
// match.
func (b *Broker) evictSameKind(sub Subscriber, kind Kind) bool {
	n := len(sub)
	buffered := make([]Envelope, 0, n)
	for i := 0; i < n; i++ {
		select {
		case e := <-sub:
			buffered = append(buffered, e)
		default:
		}
	}
	evicted := false
	for _, e := range buffered {
		if !evicted && e.Kind == kind {
			evicted = true
			continue
		}
		select {
		case sub <- e:
		default:
		}
	}
	return evicted
}

// Subscribe opens a new subscription. If lastEventID is non-zero and
// still present in the resume ring, the subscription is backfilled with
// every envelope after it before live delivery begins; if lastEventID
// has already been evicted, a KindRefresh envelope is emitted first.
func (b *Broker) Subscribe(lastEventID uint64) Subscriber {
	sub := make(Subscriber, subscriberBuffer)

	b.mu.Lock()
	var backfill []Envelope
	if lastEventID != 0 {
		idx := -1
		for i, e := range b.ring {
			if e.ID == lastEventID {
				idx = i
				break
			}
		}
		if idx >= 0 {
			backfill = append(backfill, b.ring[idx+1:]...)
		} else if len(b.ring) > 0 {
			backfill = append(backfill, Envelope{
				ID:        b.ring[len(b.ring)-1].ID,
				Kind:      KindRefresh,
				Timestamp: time.Now(),
			})
		}
	}
	b.subscribers[sub] = true
	count := len(b.subscribers)
	b.mu.Unlock()
	metrics.EventBusSubscribers.Set(float64(count))

	for _, e := range backfill {
		select {
		case sub <- e:
		default:
		}
	}
	return sub
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	if _, ok := b.subscribers[sub]; ok {
		delete(b.subscribers, sub)
		close(sub)
	}
	count := len(b.subscribers)
	b.mu.Unlock()
	metrics.EventBusSubscribers.Set(float64(count))
}

// SubscriberCount returns the number of active subscriptions.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// CurrentID returns the id of the most recently published envelope, or 0
// if nothing has been published yet. Used by C10 to stamp an initial
// snapshot with the bus position it was read at.
func (b *Broker) CurrentID() uint64 {
	return b.nextID.Load()
}
