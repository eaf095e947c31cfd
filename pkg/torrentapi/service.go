package torrentapi

import (
	"context"

	"github.com/google/uuid"
)

// Service is the thin orchestration layer the HTTP surface calls into:
// it normalizes/validates requests, delegates to the engine, and maps
// results back to this package's DTOs.
type Service struct {
	engine TorrentEngine
}

// NewService constructs a Service over engine.
func NewService(engine TorrentEngine) *Service {
	return &Service{engine: engine}
}

// List returns a page of torrent summaries matching q.
func (s *Service) List(ctx context.Context, q TorrentListQuery) (TorrentListResponse, error) {
	statuses, next, err := s.engine.List(ctx, q)
	if err != nil {
		return TorrentListResponse{}, err
	}
	items := make([]TorrentSummary, 0, len(statuses))
	for _, st := range statuses {
		items = append(items, ToSummary(st))
	}
	return TorrentListResponse{Items: items, NextCursor: next}, nil
}

// Get returns one torrent's detail view.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*TorrentDetail, error) {
	st, err := s.engine.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := ToDetail(*st)
	return &detail, nil
}

// Create validates req and admits it to the engine, returning the new
// torrent's id.
func (s *Service) Create(ctx context.Context, req TorrentCreateRequest) (uuid.UUID, error) {
	if err := NormalizeCreate(&req); err != nil {
		return uuid.Nil, err
	}
	return s.engine.Add(ctx, req)
}

// Act dispatches a TorrentAction to the engine.
func (s *Service) Act(ctx context.Context, id uuid.UUID, action TorrentAction) error {
	return s.engine.Act(ctx, id, action)
}

// Select applies a file-selection update.
func (s *Service) Select(ctx context.Context, id uuid.UUID, sel TorrentSelectionRequest) error {
	return s.engine.Select(ctx, id, sel)
}

// UpdateOptions validates and applies a partial per-torrent settings
// update.
func (s *Service) UpdateOptions(ctx context.Context, id uuid.UUID, opts TorrentOptionsRequest) error {
	if err := ValidateOptionsUpdate(&opts); err != nil {
		return err
	}
	return s.engine.UpdateOptions(ctx, id, opts)
}

// UpdateTrackers replaces or appends a torrent's tracker list.
func (s *Service) UpdateTrackers(ctx context.Context, id uuid.UUID, trackers []string, replace bool) error {
	return s.engine.UpdateTrackers(ctx, id, trackers, replace)
}

// DeleteTrackers removes trackers from a torrent's tracker list.
func (s *Service) DeleteTrackers(ctx context.Context, id uuid.UUID, trackers []string) error {
	return s.engine.DeleteTrackers(ctx, id, trackers)
}

// UpdateWebSeeds replaces or appends a torrent's web-seed list.
func (s *Service) UpdateWebSeeds(ctx context.Context, id uuid.UUID, seeds WebSeedSet) error {
	return s.engine.UpdateWebSeeds(ctx, id, seeds)
}

// Author builds a new .torrent from local files via the engine.
func (s *Service) Author(ctx context.Context, req TorrentAuthorRequest) (*TorrentAuthorResponse, error) {
	if err := NormalizeAuthor(&req); err != nil {
		return nil, err
	}
	return s.engine.Author(ctx, req)
}
