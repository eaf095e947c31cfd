package torrentapi

import (
	"time"

	"github.com/google/uuid"

	"github.com/revaer/revaer/pkg/types"
)

// TorrentSummary is the list-view projection of a torrent's current
// status.
type TorrentSummary struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	State       types.TorrentState `json:"state"`
	FailMessage string            `json:"fail_message,omitempty"`
	BytesDone   int64             `json:"bytes_downloaded"`
	BytesTotal  int64             `json:"bytes_total"`
	ETASeconds  *int64            `json:"eta_seconds,omitempty"`
	DownBPS     int64             `json:"down_bps"`
	UpBPS       int64             `json:"up_bps"`
	Ratio       float64           `json:"ratio"`
	LibraryPath *string           `json:"library_path,omitempty"`
	DownloadDir *string           `json:"download_dir,omitempty"`
	Tags        []string          `json:"tags"`
	Category    string            `json:"category,omitempty"`
	AddedAt     time.Time         `json:"added_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
}

// TorrentSettings carries the three fields that are read-only once a
// torrent has been added.
type TorrentSettings struct {
	Comment string `json:"comment"`
	Source  string `json:"source"`
	Private bool   `json:"private"`
}

// TorrentDetail flattens TorrentSummary's fields and adds settings plus
// an optional file list.
type TorrentDetail struct {
	TorrentSummary
	Settings TorrentSettings      `json:"settings"`
	Files    []types.TorrentFile `json:"files,omitempty"`
}

// RateCaps carries optional per-torrent transfer rate ceilings; a nil
// pointer means "no cap", distinct from a cap of zero.
type RateCaps struct {
	DownBPS *int64 `json:"down_bps,omitempty"`
	UpBPS   *int64 `json:"up_bps,omitempty"`
}

// WebSeedSet carries a list of web-seed URLs and whether they replace
// the existing set or are appended to it.
type WebSeedSet struct {
	URLs    []string `json:"urls"`
	Replace bool     `json:"replace"`
}

// TorrentCreateRequest is the admission request body for POST
// /v1/torrents.
type TorrentCreateRequest struct {
	Magnet             string     `json:"magnet,omitempty"`
	Metainfo           string     `json:"metainfo,omitempty"`
	NameHint           string     `json:"name_hint,omitempty"`
	DownloadDir        string     `json:"download_dir,omitempty"`
	StorageMode        string     `json:"storage_mode,omitempty"`
	Sequential         bool       `json:"sequential"`
	StartPaused        bool       `json:"start_paused"`
	SeedMode           bool       `json:"seed_mode"`
	HashCheckSamplePct int        `json:"hash_check_sample_pct,omitempty"`
	SuperSeeding       bool       `json:"super_seeding"`
	IncludeGlobs       []string   `json:"include_globs,omitempty"`
	ExcludeGlobs       []string   `json:"exclude_globs,omitempty"`
	SkipFluff          bool       `json:"skip_fluff"`
	RateCaps           RateCaps   `json:"rate_caps"`
	ConnectionsLimit   int        `json:"connections_limit,omitempty"`
	SeedRatioLimit     *float64   `json:"seed_ratio_limit,omitempty"`
	SeedTimeLimit      *time.Duration `json:"seed_time_limit,omitempty"`
	AutoManaged        bool       `json:"auto_managed"`
	QueuePosition      *int       `json:"queue_position,omitempty"`
	PEX                bool       `json:"pex"`
	WebSeeds           WebSeedSet `json:"web_seeds"`
	Tags               []string   `json:"tags,omitempty"`
	Category           string     `json:"category,omitempty"`
	ReplaceTrackers    []string   `json:"replace_trackers,omitempty"`
}

// TorrentAuthorRequest mirrors TorrentCreateRequest's admission options
// for the local-authoring endpoint (POST /v1/torrents/create), which
// builds a new .torrent from local files rather than admitting an
// existing one.
type TorrentAuthorRequest struct {
	TorrentCreateRequest
	SourcePath  string   `json:"source_path"`
	PieceLength int64    `json:"piece_length,omitempty"`
	Trackers    []string `json:"trackers,omitempty"`
	Comment     string   `json:"comment,omitempty"`
	Private     bool     `json:"private"`
}

// TorrentAuthorResponse returns the authored torrent's identity and its
// base64-encoded metainfo.
type TorrentAuthorResponse struct {
	ID           uuid.UUID `json:"id"`
	InfoHash     string    `json:"info_hash"`
	MetainfoB64  string    `json:"metainfo"`
}

// FilePriorityOverride sets a single file's download priority.
type FilePriorityOverride struct {
	Index    int `json:"index"`
	Priority int `json:"priority"`
}

// TorrentSelectionRequest narrows which files of an already-added
// torrent are fetched.
type TorrentSelectionRequest struct {
	IncludeGlobs    []string               `json:"include_globs,omitempty"`
	ExcludeGlobs    []string               `json:"exclude_globs,omitempty"`
	SkipFluff       *bool                  `json:"skip_fluff,omitempty"`
	FilePriorities  []FilePriorityOverride `json:"file_priorities,omitempty"`
}

// TorrentOptionsRequest is a partial per-torrent settings update. Every
// field is optional; Comment/Source/Private are rejected if present
// (read-only post-add) and SeedRatioLimit/SeedTimeLimit are rejected
// (no per-torrent override), per spec §4.9.
type TorrentOptionsRequest struct {
	Comment          *string        `json:"comment,omitempty"`
	Source           *string        `json:"source,omitempty"`
	Private          *bool          `json:"private,omitempty"`
	DownloadDir      *string        `json:"download_dir,omitempty"`
	Sequential       *bool          `json:"sequential,omitempty"`
	SuperSeeding     *bool          `json:"super_seeding,omitempty"`
	RateCaps         *RateCaps      `json:"rate_caps,omitempty"`
	ConnectionsLimit *int           `json:"connections_limit,omitempty"`
	SeedRatioLimit   *float64       `json:"seed_ratio_limit,omitempty"`
	SeedTimeLimit    *time.Duration `json:"seed_time_limit,omitempty"`
	AutoManaged      *bool          `json:"auto_managed,omitempty"`
	QueuePosition    *int           `json:"queue_position,omitempty"`
	PEX              *bool          `json:"pex,omitempty"`
	Tags             []string       `json:"tags,omitempty"`
	Category         *string        `json:"category,omitempty"`
}

// ActionKind enumerates TorrentAction's tagged-union discriminants.
type ActionKind string

const (
	ActionPause         ActionKind = "pause"
	ActionResume        ActionKind = "resume"
	ActionRemove        ActionKind = "remove"
	ActionReannounce    ActionKind = "reannounce"
	ActionRecheck       ActionKind = "recheck"
	ActionSequential    ActionKind = "sequential"
	ActionRate          ActionKind = "rate"
	ActionMove          ActionKind = "move"
	ActionPieceDeadline ActionKind = "piece_deadline"
)

// TorrentAction is the tagged-union body of POST /v1/torrents/{id}/actions.
// Only the fields relevant to Kind are meaningful.
type TorrentAction struct {
	Kind ActionKind `json:"kind"`

	DeleteData bool `json:"delete_data,omitempty"` // Remove

	Enable *bool `json:"enable,omitempty"` // Sequential

	DownBPS *int64 `json:"down_bps,omitempty"` // Rate
	UpBPS   *int64 `json:"up_bps,omitempty"`   // Rate

	DownloadDir string `json:"download_dir,omitempty"` // Move

	Piece        int    `json:"piece,omitempty"`         // PieceDeadline
	DeadlineMs   *int64 `json:"deadline_ms,omitempty"` // PieceDeadline
}

// TorrentListResponse is the paged response of GET /v1/torrents.
type TorrentListResponse struct {
	Items      []TorrentSummary `json:"items"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// TorrentListQuery is the parsed form of GET /v1/torrents' query
// parameters.
type TorrentListQuery struct {
	Name      string
	State     string
	Tag       string
	Tracker   string
	Extension string
	Cursor    string
	Limit     int
}
