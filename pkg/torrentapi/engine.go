package torrentapi

import (
	"context"

	"github.com/google/uuid"

	"github.com/revaer/revaer/pkg/types"
)

// TorrentEngine is the interface this module expects from the
// underlying protocol engine (§1's external collaborator). Its method
// shapes are grounded on anacrolix/torrent's and autobrr/go-qbittorrent's
// public surfaces (status enums, rate fields, per-file priorities)
// without taking a hard dependency on either — the wire-level torrent
// protocol is explicitly out of scope for this module.
type TorrentEngine interface {
	List(ctx context.Context, q TorrentListQuery) ([]types.TorrentStatus, string, error)
	Get(ctx context.Context, id uuid.UUID) (*types.TorrentStatus, error)
	Add(ctx context.Context, req TorrentCreateRequest) (uuid.UUID, error)
	Act(ctx context.Context, id uuid.UUID, action TorrentAction) error
	Select(ctx context.Context, id uuid.UUID, sel TorrentSelectionRequest) error
	UpdateOptions(ctx context.Context, id uuid.UUID, opts TorrentOptionsRequest) error
	UpdateTrackers(ctx context.Context, id uuid.UUID, trackers []string, replace bool) error
	DeleteTrackers(ctx context.Context, id uuid.UUID, trackers []string) error
	UpdateWebSeeds(ctx context.Context, id uuid.UUID, seeds WebSeedSet) error
	Author(ctx context.Context, req TorrentAuthorRequest) (*TorrentAuthorResponse, error)
}
