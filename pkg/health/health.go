package health

import (
	"context"
	"sort"
	"sync"
)

// Status is the coarse health verdict returned by GET /v1/health.
type Status string

const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded"
)

// Checker performs a point-in-time liveness check against a single
// dependency, such as the database ping behind GET /v1/health.
type Checker interface {
	Check(ctx context.Context) error
}

// Pinger is the minimal dependency a database-backed Checker needs;
// *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DBChecker adapts a Pinger into a Checker.
type DBChecker struct {
	pinger Pinger
}

// NewDBChecker returns a Checker that reports unhealthy whenever pinger
// fails to respond.
func NewDBChecker(pinger Pinger) *DBChecker {
	return &DBChecker{pinger: pinger}
}

// Check pings the database.
func (c *DBChecker) Check(ctx context.Context) error {
	return c.pinger.Ping(ctx)
}

// Aggregator is the latched degraded-component set: once a component is
// marked degraded it stays that way until explicitly cleared by a
// subsequent success, with no timed auto-recovery (spec Open Question,
// resolved in favor of explicit clear only — see DESIGN.md). Mark and
// Clear report whether the aggregate state actually changed so the
// caller can decide whether a HealthChanged event is warranted, keeping
// this package free of a dependency on pkg/events.
type Aggregator struct {
	mu       sync.Mutex
	degraded map[string]bool
}

// NewAggregator returns an Aggregator with nothing degraded.
func NewAggregator() *Aggregator {
	return &Aggregator{degraded: make(map[string]bool)}
}

// Mark flags component as degraded. It reports true the first time a
// given component transitions from healthy to degraded; repeating an
// already-degraded mark reports false.
func (a *Aggregator) Mark(component string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.degraded[component] {
		return false
	}
	a.degraded[component] = true
	return true
}

// Clear un-flags component. It reports true only if the component was
// previously degraded.
func (a *Aggregator) Clear(component string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.degraded[component] {
		return false
	}
	delete(a.degraded, component)
	return true
}

// Degraded returns the current degraded-component set, sorted for
// deterministic event payloads.
func (a *Aggregator) Degraded() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.degraded))
	for c := range a.degraded {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Status reports StatusOK when nothing is degraded, else StatusDegraded.
func (a *Aggregator) Status() Status {
	if len(a.Degraded()) == 0 {
		return StatusOK
	}
	return StatusDegraded
}
