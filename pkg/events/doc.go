/*
Package events provides Revaer's in-process event bus (C6): a bounded
publish/subscribe broker that fans out domain occurrences — torrent
lifecycle, filesystem pipeline progress, health transitions, system
rates — to the SSE gateway and any other in-process subscriber.

# Envelopes

Publish accepts an Event (kind, timestamp, payload) and returns an
Envelope: the same data plus a monotonically increasing bus-wide id.
Subscribers receive Envelopes, never bare Events — the id is what lets
pkg/sse implement Last-Event-Id resume and what an SSE client echoes
back in its own `Last-Event-ID` reconnect header.

# Backpressure

Publish is non-blocking. A subscriber whose channel is full does not
block the publisher or other subscribers; the broker instead drops
enqueued events for that one subscriber to make room, never dropping a
terminal event (FsopsCompleted, FsopsFailed, HealthChanged,
TorrentRemoved) to admit a non-terminal one. A subscriber whose resume
point has already scrolled out of the broker's retention ring receives
a synthetic Refresh envelope instead of a gap, telling it to re-read
state rather than trust a continuous event stream.

# Usage

	broker := events.NewBroker()

	sub := broker.Subscribe(0) // no resume point
	defer broker.Unsubscribe(sub)

	go func() {
		for env := range sub {
			switch env.Kind {
			case events.KindFsopsCompleted:
				p := env.Payload.(events.FsopsCompletedPayload)
				log.Info().Str("torrent_id", p.TorrentID.String()).Msg("fsops done")
			}
		}
	}()

	broker.Publish(events.Event{
		Kind:    events.KindFsopsCompleted,
		Payload: events.FsopsCompletedPayload{TorrentID: id, ArtifactPath: path},
	})

Resuming after a reconnect:

	sub := broker.Subscribe(lastEventID) // backfilled, then live

# Integration points

  - pkg/fsops publishes FsopsStarted/Progress/Completed/Failed as its
    step machine runs.
  - pkg/health publishes HealthChanged whenever the degraded-component
    set changes.
  - pkg/runtimestore publishes TorrentAdded/Updated/Removed/Progress as
    it observes the torrent engine.
  - pkg/sse is the sole external subscriber, multiplexing the bus into
    per-connection, per-filter SSE streams.
*/
package events
