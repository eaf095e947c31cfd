/*
Package health tracks Revaer's degraded/healthy state for GET /v1/health
and the HealthChanged event kind.

Two concerns live here, deliberately kept independent:

  - Checker/DBChecker: a point-in-time liveness probe. The HTTP handler
    behind GET /v1/health calls a DBChecker wrapping the store's
    connection pool and reports the database's reachability alongside
    its current revision.
  - Aggregator: a latched set of degraded component names (currently
    just "fsops", the filesystem pipeline). A component is marked
    degraded on its first failure and stays that way until an explicit
    subsequent success clears it — there is no timed auto-recovery.

Aggregator intentionally does not import pkg/events: Mark and Clear
report whether the aggregate state changed, and the caller (the
filesystem pipeline) is the one that turns a true result into a
HealthChanged publish. This keeps the degraded-state machine testable
without a broker and keeps pkg/health free of a dependency on pkg/events.

# Usage

	agg := health.NewAggregator()

	if err := runStep(); err != nil {
		if agg.Mark("fsops") {
			broker.Publish(events.Event{
				Kind:    events.KindHealthChanged,
				Payload: events.HealthChangedPayload{Degraded: agg.Degraded()},
			})
		}
		return err
	}
	if agg.Clear("fsops") {
		broker.Publish(events.Event{
			Kind:    events.KindHealthChanged,
			Payload: events.HealthChangedPayload{Degraded: agg.Degraded()},
		})
	}
*/
package health
