package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/revaer/revaer/pkg/types"
)

// UpsertRuntimeState records the latest observed lifecycle transition
// for a torrent's filesystem-pipeline job. Called for every
// started/completed/failed write described in spec §4.8; a single row
// per torrent holds only the most recent transition.
func (q *Queries) UpsertRuntimeState(ctx context.Context, s *types.TorrentRuntimeState) error {
	_, err := q.q.Exec(ctx, `
		INSERT INTO torrent_runtime_state (torrent_id, state, source, destination, transfer_mode, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (torrent_id) DO UPDATE SET
			state = EXCLUDED.state,
			source = EXCLUDED.source,
			destination = EXCLUDED.destination,
			transfer_mode = EXCLUDED.transfer_mode,
			message = EXCLUDED.message`,
		s.TorrentID, s.State, s.Source, s.Destination, s.TransferMode, s.Message)
	return wrapDB("upsert_runtime_state", err)
}

// GetRuntimeState returns the last recorded transition for torrentID,
// or ErrNoRows if the job has never reported one.
func (q *Queries) GetRuntimeState(ctx context.Context, torrentID uuid.UUID) (*types.TorrentRuntimeState, error) {
	row := q.q.QueryRow(ctx, `
		SELECT torrent_id, state, source, destination, transfer_mode, message, updated_at
		FROM torrent_runtime_state WHERE torrent_id = $1`, torrentID)
	var s types.TorrentRuntimeState
	if err := row.Scan(&s.TorrentID, &s.State, &s.Source, &s.Destination, &s.TransferMode, &s.Message, &s.UpdatedAt); err != nil {
		return nil, wrapDB("get_runtime_state", err)
	}
	return &s, nil
}
