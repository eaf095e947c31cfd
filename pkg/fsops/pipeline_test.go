package fsops

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/revaer/revaer/pkg/events"
	"github.com/revaer/revaer/pkg/health"
	"github.com/revaer/revaer/pkg/types"
)

func mustWriteZipWithSingleTopLevelDir(t *testing.T, archivePath, dirName, fileName, contents string) {
	t.Helper()
	f, err := os.Create(archivePath)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create(dirName + "/" + fileName)
	if err != nil {
		t.Fatalf("zip create entry: %v", err)
	}
	if _, err := w.Write([]byte(contents)); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close archive file: %v", err)
	}
}

func newTestPipeline() *Pipeline {
	return NewPipeline(events.NewBroker(), health.NewAggregator())
}

func TestPipelineRunCopiesDirectoryPayload(t *testing.T) {
	source := t.TempDir()
	mustWriteFile(t, filepath.Join(source, "movie.mkv"), "payload")
	libraryRoot := t.TempDir()

	p := newTestPipeline()
	req := Request{
		TorrentID:  uuid.New(),
		SourcePath: source,
		Policy: &types.FsPolicy{
			ID:          uuid.New(),
			LibraryRoot: libraryRoot,
			MoveMode:    types.MoveModeCopy,
		},
	}

	meta, err := p.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !meta.Completed {
		t.Error("expected meta.Completed to be true")
	}
	assertFileContents(t, filepath.Join(meta.ArtifactPath, "movie.mkv"), "payload")
	if p.health.Status() != health.StatusOK {
		t.Error("expected a successful run to leave health unmarked")
	}
}

func TestPipelineRunIsIdempotentOnResume(t *testing.T) {
	source := t.TempDir()
	mustWriteFile(t, filepath.Join(source, "movie.mkv"), "payload")
	libraryRoot := t.TempDir()

	p := newTestPipeline()
	req := Request{
		TorrentID:  uuid.New(),
		SourcePath: source,
		Policy: &types.FsPolicy{
			LibraryRoot: libraryRoot,
			MoveMode:    types.MoveModeCopy,
		},
	}

	if _, err := p.Run(context.Background(), req); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	meta, err := p.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !meta.Completed {
		t.Error("expected resumed meta to remain Completed")
	}
}

func TestPipelineRunRejectsPathOutsideAllowlist(t *testing.T) {
	source := t.TempDir()
	mustWriteFile(t, filepath.Join(source, "movie.mkv"), "payload")
	libraryRoot := t.TempDir()

	p := newTestPipeline()
	req := Request{
		TorrentID:  uuid.New(),
		SourcePath: source,
		Policy: &types.FsPolicy{
			LibraryRoot: libraryRoot,
			MoveMode:    types.MoveModeCopy,
			AllowPaths:  []string{"/nonexistent/somewhere/else"},
		},
	}

	if _, err := p.Run(context.Background(), req); err == nil {
		t.Fatal("expected an allowlist rejection error")
	}
}

func TestPipelineRunRejectsSiblingPathWithSharedPrefix(t *testing.T) {
	root := t.TempDir()
	allowed := filepath.Join(root, "lib")
	sibling := filepath.Join(root, "lib-other")
	mustMkdirAll(t, allowed)
	mustMkdirAll(t, sibling)

	source := t.TempDir()
	mustWriteFile(t, filepath.Join(source, "movie.mkv"), "payload")

	p := newTestPipeline()
	req := Request{
		TorrentID:  uuid.New(),
		SourcePath: source,
		Policy: &types.FsPolicy{
			LibraryRoot: sibling,
			MoveMode:    types.MoveModeCopy,
			AllowPaths:  []string{allowed},
		},
	}

	if _, err := p.Run(context.Background(), req); err == nil {
		t.Fatal("expected library_root under a same-prefix sibling directory to be rejected")
	}
}

func TestPipelineRunFlattensSingleChildDirectory(t *testing.T) {
	source := t.TempDir()
	mustMkdirAll(t, filepath.Join(source, "release-name"))
	mustWriteFile(t, filepath.Join(source, "release-name", "movie.mkv"), "payload")
	libraryRoot := t.TempDir()

	p := newTestPipeline()
	req := Request{
		TorrentID:  uuid.New(),
		SourcePath: source,
		Policy: &types.FsPolicy{
			LibraryRoot: libraryRoot,
			MoveMode:    types.MoveModeCopy,
			Flatten:     true,
		},
	}

	meta, err := p.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(meta.ArtifactPath, "movie.mkv")); err != nil {
		t.Errorf("expected flattened movie.mkv at artifact root: %v", err)
	}
}

func TestPipelineRunNamesArtifactFromStagingNotSource(t *testing.T) {
	source := t.TempDir()
	archivePath := filepath.Join(source, "payload.zip")
	mustWriteZipWithSingleTopLevelDir(t, archivePath, "Season1", "episode.mkv", "payload")
	libraryRoot := t.TempDir()

	p := newTestPipeline()
	req := Request{
		TorrentID:  uuid.New(),
		SourcePath: archivePath,
		Policy: &types.FsPolicy{
			LibraryRoot: libraryRoot,
			MoveMode:    types.MoveModeCopy,
			Extract:     true,
			Flatten:     true,
		},
	}

	meta, err := p.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	wantArtifact := filepath.Join(libraryRoot, "Season1")
	if meta.ArtifactPath != wantArtifact {
		t.Fatalf("expected artifact path keyed off staging's flattened dir name, got %q, want %q", meta.ArtifactPath, wantArtifact)
	}
	if _, err := os.Stat(filepath.Join(meta.ArtifactPath, "episode.mkv")); err != nil {
		t.Errorf("expected episode.mkv under the Season1-named artifact dir: %v", err)
	}
}

func TestPipelineRunMarksHealthDegradedOnFailure(t *testing.T) {
	p := newTestPipeline()
	req := Request{
		TorrentID:  uuid.New(),
		SourcePath: "/definitely/does/not/exist",
		Policy: &types.FsPolicy{
			LibraryRoot: t.TempDir(),
			MoveMode:    types.MoveModeCopy,
		},
	}

	if _, err := p.Run(context.Background(), req); err == nil {
		t.Fatal("expected an error for a missing source path")
	}
	if p.health.Status() != health.StatusDegraded {
		t.Error("expected the fsops component to be marked degraded")
	}
}

func TestPipelineRunRejectsEmptyLibraryRoot(t *testing.T) {
	p := newTestPipeline()
	req := Request{
		TorrentID:  uuid.New(),
		SourcePath: t.TempDir(),
		Policy:     &types.FsPolicy{},
	}

	if _, err := p.Run(context.Background(), req); err == nil {
		t.Fatal("expected an error for an empty library_root")
	}
}
