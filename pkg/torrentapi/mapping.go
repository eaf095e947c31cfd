package torrentapi

import (
	"github.com/revaer/revaer/pkg/types"
)

// ToSummary projects a TorrentStatus into its list-view DTO.
func ToSummary(s types.TorrentStatus) TorrentSummary {
	var eta *int64
	if s.Progress.ETA != nil {
		secs := int64(s.Progress.ETA.Seconds())
		eta = &secs
	}
	return TorrentSummary{
		ID:          s.ID,
		Name:        s.Name,
		State:       s.State,
		FailMessage: s.FailMessage,
		BytesDone:   s.Progress.BytesDownloaded,
		BytesTotal:  s.Progress.BytesTotal,
		ETASeconds:  eta,
		DownBPS:     s.Rates.DownBPS,
		UpBPS:       s.Rates.UpBPS,
		Ratio:       s.Rates.Ratio,
		LibraryPath: s.LibraryPath,
		DownloadDir: s.DownloadDir,
		Tags:        s.Tags,
		Category:    s.Category,
		AddedAt:     s.AddedAt,
		CompletedAt: s.CompletedAt,
	}
}

// ToDetail projects a TorrentStatus into the detail-view DTO, including
// its file list.
func ToDetail(s types.TorrentStatus) TorrentDetail {
	return TorrentDetail{
		TorrentSummary: ToSummary(s),
		Settings: TorrentSettings{
			Comment: s.Metadata.Comment,
			Source:  s.Metadata.Source,
			Private: s.Metadata.Private,
		},
		Files: s.Files,
	}
}
