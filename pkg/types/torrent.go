package types

import (
	"time"

	"github.com/google/uuid"
)

// TorrentState is the lifecycle state of a torrent as observed by the
// control plane. Failed carries an explanatory message; all other states
// are representable by the bare string.
type TorrentState string

const (
	TorrentQueued           TorrentState = "queued"
	TorrentFetchingMetadata TorrentState = "fetching_metadata"
	TorrentDownloading      TorrentState = "downloading"
	TorrentSeeding          TorrentState = "seeding"
	TorrentCompleted        TorrentState = "completed"
	TorrentFailed           TorrentState = "failed"
	TorrentStopped          TorrentState = "stopped"
)

// TorrentProgress reports byte-level completion.
type TorrentProgress struct {
	BytesDownloaded int64
	BytesTotal      int64
	ETA             *time.Duration
}

// TorrentRates reports instantaneous transfer rates.
type TorrentRates struct {
	DownBPS int64
	UpBPS   int64
	Ratio   float64
}

// TorrentFile is a single file within a torrent's payload.
type TorrentFile struct {
	Index    int
	Path     string
	Size     int64
	Priority int
}

// TorrentMetadata carries the three fields that are read-only once a
// torrent has been added (spec E2E-6).
type TorrentMetadata struct {
	Comment string
	Source  string
	Private bool
}

// TorrentStatus is the read-view contract exposed over the event bus and
// the torrent API mapping layer; it is owned by the (external) torrent
// engine and never persisted by this module beyond the runtime-store
// lifecycle markers in C8.
type TorrentStatus struct {
	ID           uuid.UUID
	Name         string
	State        TorrentState
	FailMessage  string
	Progress     TorrentProgress
	Rates        TorrentRates
	Files        []TorrentFile
	LibraryPath  *string
	DownloadDir  *string
	Metadata     TorrentMetadata
	Tags         []string
	Category     string
	AddedAt      time.Time
	CompletedAt  *time.Time
	LastUpdated  time.Time
}
