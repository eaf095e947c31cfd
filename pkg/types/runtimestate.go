package types

import (
	"time"

	"github.com/google/uuid"
)

// RuntimeJobState is the observable lifecycle state the runtime store
// records for one torrent's filesystem-pipeline job.
type RuntimeJobState string

const (
	RuntimeJobStarted   RuntimeJobState = "started"
	RuntimeJobCompleted RuntimeJobState = "completed"
	RuntimeJobFailed    RuntimeJobState = "failed"
)

// TorrentRuntimeState is the persisted row backing GET /v1/torrents'
// runtime-state projection: the last-known started/completed/failed
// transition recorded for a torrent's post-processing job.
type TorrentRuntimeState struct {
	TorrentID    uuid.UUID
	State        RuntimeJobState
	Source       string
	Destination  string
	TransferMode MoveMode
	Message      string
	UpdatedAt    time.Time
}
