package main

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/revaer/revaer/pkg/config"
	"github.com/revaer/revaer/pkg/fsops"
	"github.com/revaer/revaer/pkg/log"
	"github.com/revaer/revaer/pkg/runtimestore"
	"github.com/revaer/revaer/pkg/torrentapi"
	"github.com/revaer/revaer/pkg/types"
)

// fsopsPollInterval bounds how often the watcher checks for torrents
// that have reached TorrentCompleted and still need the filesystem
// pipeline run against their payload.
const fsopsPollInterval = 5 * time.Second

// fsopsWatcher bridges the torrent engine's completed state to the
// filesystem pipeline: nothing in pkg/torrentapi or pkg/fsops calls the
// other directly, since the real trigger (a download reaching 100%) is
// owned by the external torrent engine collaborator this module never
// takes a hard dependency on.
type fsopsWatcher struct {
	config    *config.Facade
	torrents  *torrentapi.Service
	pipeline  *fsops.Pipeline
	runtime   *runtimestore.Store
	processed map[uuid.UUID]bool
}

func newFsopsWatcher(cfg *config.Facade, torrents *torrentapi.Service, pipeline *fsops.Pipeline, rt *runtimestore.Store) *fsopsWatcher {
	return &fsopsWatcher{
		config:    cfg,
		torrents:  torrents,
		pipeline:  pipeline,
		runtime:   rt,
		processed: make(map[uuid.UUID]bool),
	}
}

func (w *fsopsWatcher) run(ctx context.Context) {
	ticker := time.NewTicker(fsopsPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *fsopsWatcher) tick(ctx context.Context) {
	logger := log.WithComponent("fsops_watcher")

	list, err := w.torrents.List(ctx, torrentapi.TorrentListQuery{State: string(types.TorrentCompleted), Limit: 256})
	if err != nil {
		logger.Error().Err(err).Msg("list completed torrents")
		return
	}

	snapshot, err := w.config.Snapshot(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("read config snapshot")
		return
	}

	for _, item := range list.Items {
		if w.processed[item.ID] || item.DownloadDir == nil {
			continue
		}
		w.processed[item.ID] = true
		w.runtime.Started(item.ID, *item.DownloadDir)

		go func(id uuid.UUID, source string) {
			policy := snapshot.Fs
			_, err := w.pipeline.Run(ctx, fsops.Request{TorrentID: id, SourcePath: source, Policy: &policy})
			if err != nil {
				logger.Error().Err(err).Str("torrent_id", id.String()).Msg("filesystem pipeline failed")
				w.runtime.Failed(id, err.Error())
				return
			}
			w.runtime.Completed(id, source, policy.LibraryRoot, policy.MoveMode)
		}(item.ID, *item.DownloadDir)
	}
}
