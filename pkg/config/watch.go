package config

import (
	"context"
	"time"

	"github.com/avast/retry-go"

	"github.com/revaer/revaer/pkg/store"
	"github.com/revaer/revaer/pkg/types"
)

// watchState is the bounded state machine described in spec §9: a
// watcher is always in exactly one of these states, never raw
// notification plumbing visible to the consumer.
type watchState int

const (
	stateListenAttached watchState = iota
	statePolling
	stateReattaching
)

// Watcher delivers ConfigSnapshots after the initial one returned by
// Watch, using LISTEN/NOTIFY when available and falling back to
// periodic revision polling on error or disconnect, reattaching the
// channel whenever a polled tick reveals a newer revision than last
// observed.
type Watcher struct {
	facade   *Facade
	snapshot chan *types.ConfigSnapshot
	cancel   context.CancelFunc
	done     chan struct{}
}

// Snapshots returns the channel of subsequent snapshots. It is closed
// when the watcher's context is cancelled (via Close or the parent
// context passed to Watch).
func (w *Watcher) Snapshots() <-chan *types.ConfigSnapshot { return w.snapshot }

// Close stops the watcher and releases its LISTEN connection, if any.
func (w *Watcher) Close() {
	w.cancel()
	<-w.done
}

// Watch returns the current snapshot plus a Watcher delivering every
// subsequent one. pollInterval bounds both the fallback poll cadence
// and the interval the watcher double-checks revision even while
// listen-attached (catching notifications lost to a brief connection
// blip before the LISTEN re-established).
func (f *Facade) Watch(ctx context.Context, pollInterval time.Duration) (*types.ConfigSnapshot, *Watcher, error) {
	snap, err := f.Snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		facade:   f,
		snapshot: make(chan *types.ConfigSnapshot, 16),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go w.run(watchCtx, pollInterval, snap.Revision)
	return snap, w, nil
}

func (w *Watcher) run(ctx context.Context, pollInterval time.Duration, lastRevision int64) {
	defer close(w.done)
	defer close(w.snapshot)

	state := stateReattaching
	var notifications <-chan store.RawNotification
	var closeListen func()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	detach := func() {
		if closeListen != nil {
			closeListen()
			closeListen = nil
			notifications = nil
		}
	}
	defer detach()

	for {
		if state == stateReattaching {
			var ch <-chan store.RawNotification
			var closer func()
			err := retryAttach(ctx, func() error {
				c, cl, err := w.facade.store.Listen(ctx)
				if err != nil {
					return err
				}
				ch, closer = c, cl
				return nil
			})
			if err == nil {
				notifications = ch
				closeListen = closer
				state = stateListenAttached
			} else {
				state = statePolling
			}
		}

		select {
		case <-ctx.Done():
			return

		case n, ok := <-notifications:
			if !ok {
				detach()
				state = statePolling
				continue
			}
			change, err := decodeNotification(n.Payload)
			if err != nil || change.Revision <= lastRevision {
				continue
			}
			lastRevision = change.Revision
			w.publish(ctx)

		case <-ticker.C:
			rev, err := w.facade.store.Q().MaxRevision(ctx)
			if err != nil {
				continue
			}
			if rev > lastRevision {
				lastRevision = rev
				w.publish(ctx)
			}
			if state == statePolling {
				// Retry attaching the LISTEN channel on every polled
				// tick per spec §4.4's "on error or drop falls back to
				// periodic polling ... attempts to re-attach the
				// channel."
				detach()
				state = stateReattaching
			}
		}
	}
}

func (w *Watcher) publish(ctx context.Context) {
	snap, err := w.facade.Snapshot(ctx)
	if err != nil {
		return
	}
	select {
	case w.snapshot <- snap:
	case <-ctx.Done():
	default:
		// Subscriber is behind; drop this tick, the next one carries a
		// superset of state anyway since snapshots are full reads.
	}
}

// retryAttach is used by callers that want a bounded-backoff attempt at
// reattaching a LISTEN connection outside the watcher's own polling
// loop (e.g. at process start, before the first Watch call succeeds).
func retryAttach(ctx context.Context, attach func() error) error {
	return retry.Do(attach,
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
	)
}
