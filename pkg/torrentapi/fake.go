package torrentapi

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/revaer/revaer/pkg/revaerr"
	"github.com/revaer/revaer/pkg/types"
)

// FakeEngine is a deterministic in-memory TorrentEngine used by this
// package's own tests and available to callers testing against C9
// without a real protocol engine. It performs no I/O and never blocks.
type FakeEngine struct {
	mu       sync.Mutex
	torrents map[uuid.UUID]*types.TorrentStatus
	nextSeq  int
}

// NewFakeEngine returns an empty FakeEngine.
func NewFakeEngine() *FakeEngine {
	return &FakeEngine{torrents: make(map[uuid.UUID]*types.TorrentStatus)}
}

// Seed directly inserts a torrent, bypassing Add, for test setup.
func (f *FakeEngine) Seed(status types.TorrentStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.torrents[status.ID] = &status
}

func (f *FakeEngine) List(ctx context.Context, q TorrentListQuery) ([]types.TorrentStatus, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []types.TorrentStatus
	for _, t := range f.torrents {
		if q.Name != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(q.Name)) {
			continue
		}
		if q.State != "" && string(t.State) != q.State {
			continue
		}
		if q.Tag != "" && !containsString(t.Tags, q.Tag) {
			continue
		}
		all = append(all, *t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID.String() < all[j].ID.String() })

	limit := q.Limit
	if limit <= 0 {
		limit = len(all)
	}
	start := 0
	if q.Cursor != "" {
		for i, t := range all {
			if t.ID.String() == q.Cursor {
				start = i + 1
				break
			}
		}
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	if start > len(all) {
		start = len(all)
	}
	page := all[start:end]

	var next string
	if end < len(all) {
		next = page[len(page)-1].ID.String()
	}
	return page, next, nil
}

func (f *FakeEngine) Get(ctx context.Context, id uuid.UUID) (*types.TorrentStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.torrents[id]
	if !ok {
		return nil, &revaerr.DataAccessError{Operation: "get_torrent", Source: fmt.Errorf("torrent %s not found", id)}
	}
	clone := *t
	return &clone, nil
}

func (f *FakeEngine) Add(ctx context.Context, req TorrentCreateRequest) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextSeq++
	id := uuid.New()
	name := req.NameHint
	if name == "" {
		name = fmt.Sprintf("torrent-%d", f.nextSeq)
	}
	state := types.TorrentQueued
	if req.StartPaused {
		state = types.TorrentStopped
	}
	downloadDir := &req.DownloadDir
	f.torrents[id] = &types.TorrentStatus{
		ID:          id,
		Name:        name,
		State:       state,
		DownloadDir: downloadDir,
		Tags:        req.Tags,
		Category:    req.Category,
	}
	return id, nil
}

func (f *FakeEngine) Act(ctx context.Context, id uuid.UUID, action TorrentAction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.torrents[id]
	if !ok {
		return &revaerr.DataAccessError{Operation: "act", Source: fmt.Errorf("torrent %s not found", id)}
	}
	switch action.Kind {
	case ActionPause:
		t.State = types.TorrentStopped
	case ActionResume:
		t.State = types.TorrentDownloading
	case ActionRemove:
		delete(f.torrents, id)
	case ActionRate:
		if action.DownBPS != nil {
			t.Rates.DownBPS = *action.DownBPS
		}
		if action.UpBPS != nil {
			t.Rates.UpBPS = *action.UpBPS
		}
	case ActionMove:
		t.DownloadDir = &action.DownloadDir
	}
	return nil
}

func (f *FakeEngine) Select(ctx context.Context, id uuid.UUID, sel TorrentSelectionRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.torrents[id]
	if !ok {
		return &revaerr.DataAccessError{Operation: "select", Source: fmt.Errorf("torrent %s not found", id)}
	}
	for _, p := range sel.FilePriorities {
		for i := range t.Files {
			if t.Files[i].Index == p.Index {
				t.Files[i].Priority = p.Priority
			}
		}
	}
	return nil
}

func (f *FakeEngine) UpdateOptions(ctx context.Context, id uuid.UUID, opts TorrentOptionsRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.torrents[id]
	if !ok {
		return &revaerr.DataAccessError{Operation: "update_options", Source: fmt.Errorf("torrent %s not found", id)}
	}
	if opts.DownloadDir != nil {
		t.DownloadDir = opts.DownloadDir
	}
	if opts.Category != nil {
		t.Category = *opts.Category
	}
	if opts.Tags != nil {
		t.Tags = opts.Tags
	}
	return nil
}

func (f *FakeEngine) UpdateTrackers(ctx context.Context, id uuid.UUID, trackers []string, replace bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.torrents[id]
	if !ok {
		return &revaerr.DataAccessError{Operation: "update_trackers", Source: fmt.Errorf("torrent %s not found", id)}
	}
	return nil
}

func (f *FakeEngine) DeleteTrackers(ctx context.Context, id uuid.UUID, trackers []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.torrents[id]
	if !ok {
		return &revaerr.DataAccessError{Operation: "delete_trackers", Source: fmt.Errorf("torrent %s not found", id)}
	}
	return nil
}

func (f *FakeEngine) UpdateWebSeeds(ctx context.Context, id uuid.UUID, seeds WebSeedSet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.torrents[id]
	if !ok {
		return &revaerr.DataAccessError{Operation: "update_web_seeds", Source: fmt.Errorf("torrent %s not found", id)}
	}
	return nil
}

func (f *FakeEngine) Author(ctx context.Context, req TorrentAuthorRequest) (*TorrentAuthorResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	return &TorrentAuthorResponse{
		ID:          id,
		InfoHash:    strings.ReplaceAll(id.String(), "-", ""),
		MetainfoB64: "ZmFrZQ==",
	}, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
