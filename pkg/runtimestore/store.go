package runtimestore

import (
	"context"
	"sync"
	"time"

	retry "github.com/avast/retry-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/revaer/revaer/pkg/log"
	"github.com/revaer/revaer/pkg/types"
)

// Writer is the narrow persistence seam the runtime store depends on;
// *store.Queries satisfies it.
type Writer interface {
	UpsertRuntimeState(ctx context.Context, s *types.TorrentRuntimeState) error
}

// queueDepth bounds the number of pending writes buffered ahead of the
// worker pool. A write enqueued past this depth is dropped and logged
// rather than blocking the filesystem pipeline.
const queueDepth = 256

// retryAttempts/retryDelay bound how hard one write retries before
// being logged and dropped.
const (
	retryAttempts = 3
	retryDelay    = 100 * time.Millisecond
)

// Store dispatches job-lifecycle writes onto a small fixed pool of
// goroutines reading off one bounded channel, per spec §4.8's
// "bounded worker pool, not a bare goroutine per write".
type Store struct {
	writer Writer
	logger zerolog.Logger

	jobs   chan *types.TorrentRuntimeState
	wg     sync.WaitGroup
	stopCh chan struct{}
}

// New constructs a Store backed by writer with the given number of
// worker goroutines.
func New(writer Writer, workers int) *Store {
	if workers < 1 {
		workers = 1
	}
	s := &Store{
		writer: writer,
		logger: log.WithComponent("runtimestore"),
		jobs:   make(chan *types.TorrentRuntimeState, queueDepth),
		stopCh: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	return s
}

// Stop closes the job queue and waits for every in-flight write to
// finish or exhaust its retry budget.
func (s *Store) Stop() {
	close(s.jobs)
	s.wg.Wait()
}

func (s *Store) worker() {
	defer s.wg.Done()
	for state := range s.jobs {
		s.write(state)
	}
}

func (s *Store) write(state *types.TorrentRuntimeState) {
	err := retry.Do(
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return s.writer.UpsertRuntimeState(ctx, state)
		},
		retry.Attempts(retryAttempts),
		retry.Delay(retryDelay),
	)
	if err != nil {
		s.logger.Warn().
			Str("torrent_id", state.TorrentID.String()).
			Str("state", string(state.State)).
			Err(err).
			Msg("runtime state write dropped after retry budget exhausted")
	}
}

// enqueue submits state for best-effort persistence. A full queue drops
// the write and logs it rather than blocking the caller.
func (s *Store) enqueue(state *types.TorrentRuntimeState) {
	select {
	case s.jobs <- state:
	default:
		s.logger.Warn().
			Str("torrent_id", state.TorrentID.String()).
			Str("state", string(state.State)).
			Msg("runtime state write queue full, dropping")
	}
}

// Started records that a torrent's filesystem-pipeline job has begun
// processing source.
func (s *Store) Started(torrentID uuid.UUID, source string) {
	s.enqueue(&types.TorrentRuntimeState{
		TorrentID: torrentID,
		State:     types.RuntimeJobStarted,
		Source:    source,
	})
}

// Completed records a successful job, including the transfer mode used
// when known.
func (s *Store) Completed(torrentID uuid.UUID, source, destination string, transferMode types.MoveMode) {
	s.enqueue(&types.TorrentRuntimeState{
		TorrentID:    torrentID,
		State:        types.RuntimeJobCompleted,
		Source:       source,
		Destination:  destination,
		TransferMode: transferMode,
	})
}

// Failed records a job failure with a human-readable message.
func (s *Store) Failed(torrentID uuid.UUID, message string) {
	s.enqueue(&types.TorrentRuntimeState{
		TorrentID: torrentID,
		State:     types.RuntimeJobFailed,
		Message:   message,
	})
}
