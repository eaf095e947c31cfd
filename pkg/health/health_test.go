package health

import (
	"context"
	"errors"
	"testing"
)

func TestAggregatorMarkAndClear(t *testing.T) {
	agg := NewAggregator()

	if agg.Status() != StatusOK {
		t.Fatalf("expected StatusOK for a fresh aggregator, got %s", agg.Status())
	}

	if changed := agg.Mark("fsops"); !changed {
		t.Error("expected first Mark to report changed")
	}
	if changed := agg.Mark("fsops"); changed {
		t.Error("expected repeat Mark to report unchanged")
	}
	if agg.Status() != StatusDegraded {
		t.Fatalf("expected StatusDegraded, got %s", agg.Status())
	}
	if got := agg.Degraded(); len(got) != 1 || got[0] != "fsops" {
		t.Errorf("expected [fsops], got %v", got)
	}

	if changed := agg.Clear("fsops"); !changed {
		t.Error("expected Clear of a degraded component to report changed")
	}
	if changed := agg.Clear("fsops"); changed {
		t.Error("expected repeat Clear to report unchanged")
	}
	if agg.Status() != StatusOK {
		t.Fatalf("expected StatusOK after clear, got %s", agg.Status())
	}
}

func TestAggregatorDegradedIsSorted(t *testing.T) {
	agg := NewAggregator()
	agg.Mark("watcher")
	agg.Mark("fsops")

	got := agg.Degraded()
	if len(got) != 2 || got[0] != "fsops" || got[1] != "watcher" {
		t.Errorf("expected sorted [fsops watcher], got %v", got)
	}
}

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(ctx context.Context) error {
	return f.err
}

func TestDBCheckerPropagatesPingError(t *testing.T) {
	wantErr := errors.New("connection refused")
	checker := NewDBChecker(fakePinger{err: wantErr})

	if err := checker.Check(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("expected %v, got %v", wantErr, err)
	}
}

func TestDBCheckerOK(t *testing.T) {
	checker := NewDBChecker(fakePinger{})
	if err := checker.Check(context.Background()); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}
