package torrentapi

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/revaer/revaer/pkg/types"
)

func TestToSummaryConvertsETAToSeconds(t *testing.T) {
	eta := 90 * time.Second
	status := types.TorrentStatus{
		ID:    uuid.New(),
		Name:  "example",
		State: types.TorrentDownloading,
		Progress: types.TorrentProgress{
			BytesDownloaded: 100,
			BytesTotal:      200,
			ETA:             &eta,
		},
	}
	summary := ToSummary(status)
	if summary.ETASeconds == nil {
		t.Fatal("expected non-nil ETASeconds")
	}
	if *summary.ETASeconds != 90 {
		t.Fatalf("expected 90, got %d", *summary.ETASeconds)
	}
	if summary.BytesDone != 100 || summary.BytesTotal != 200 {
		t.Fatalf("unexpected byte counts: %+v", summary)
	}
}

func TestToSummaryNilETAWhenUnknown(t *testing.T) {
	status := types.TorrentStatus{ID: uuid.New(), Name: "example"}
	summary := ToSummary(status)
	if summary.ETASeconds != nil {
		t.Fatalf("expected nil ETASeconds, got %v", *summary.ETASeconds)
	}
}

func TestToDetailCarriesSettingsAndFiles(t *testing.T) {
	status := types.TorrentStatus{
		ID:   uuid.New(),
		Name: "example",
		Metadata: types.TorrentMetadata{
			Comment: "a comment",
			Source:  "a source",
			Private: true,
		},
		Files: []types.TorrentFile{{Index: 0, Path: "a.mkv", Size: 10, Priority: 1}},
	}
	detail := ToDetail(status)
	if detail.Settings.Comment != "a comment" || detail.Settings.Source != "a source" || !detail.Settings.Private {
		t.Fatalf("unexpected settings: %+v", detail.Settings)
	}
	if len(detail.Files) != 1 || detail.Files[0].Path != "a.mkv" {
		t.Fatalf("unexpected files: %+v", detail.Files)
	}
	if detail.TorrentSummary.ID != status.ID {
		t.Fatal("expected embedded summary to carry the torrent id")
	}
}
