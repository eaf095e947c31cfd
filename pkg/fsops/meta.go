package fsops

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/revaer/revaer/pkg/types"
)

// metaDir is the fixed subdirectory name under library_root holding
// every torrent's sidecar metadata.
const metaDir = ".revaer"

func metaPath(libraryRoot string, torrentID uuid.UUID) string {
	return filepath.Join(libraryRoot, metaDir, torrentID.String()+".meta.json")
}

// loadMeta reads a torrent's sidecar, returning a fresh zero-value
// FsOpsMeta (not an error) when the file doesn't exist yet — the first
// run of a new torrent has no prior sidecar to resume from.
func loadMeta(libraryRoot string, torrentID uuid.UUID) (*types.FsOpsMeta, error) {
	data, err := os.ReadFile(metaPath(libraryRoot, torrentID))
	if os.IsNotExist(err) {
		return &types.FsOpsMeta{TorrentID: torrentID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read fsops meta: %w", err)
	}
	var m types.FsOpsMeta
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode fsops meta: %w", err)
	}
	return &m, nil
}

// saveMeta persists m atomically: write to a temp file in the same
// directory, then rename over the target, so a crash mid-write never
// leaves a torn sidecar behind for the next resume to misread.
func saveMeta(libraryRoot string, m *types.FsOpsMeta) error {
	path := metaPath(libraryRoot, m.TorrentID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare meta dir: %w", err)
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode fsops meta: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write fsops meta: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename fsops meta: %w", err)
	}
	return nil
}

// recordStep appends a StepRecord to m unless it would be an identical
// repeat of the last record for the same step, per spec §4.7's "an
// identical repeat update (same status+detail) is a no-op".
func recordStep(m *types.FsOpsMeta, name types.StepKind, status types.StepStatus, detail string, now time.Time) {
	rec := types.StepRecord{Name: name, Status: status, Detail: detail, UpdatedAt: now}
	if len(m.Steps) > 0 {
		last := m.Steps[len(m.Steps)-1]
		if last.Name == name && last.Equal(rec) {
			return
		}
	}
	m.Steps = append(m.Steps, rec)
	m.LastUpdated = now
}
