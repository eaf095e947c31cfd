package torrentapi

import (
	"strings"

	"github.com/revaer/revaer/pkg/revaerr"
	"github.com/revaer/revaer/pkg/validate"
)

// NormalizeCreate validates and normalizes a TorrentCreateRequest in
// place: trims tags (filtering empty ones), trims category (empty
// becomes "None", i.e. the empty string), drops a non-positive
// connections limit, and expands the include/exclude glob lists'
// @skip_fluff sentinel.
func NormalizeCreate(req *TorrentCreateRequest) error {
	if req.Magnet == "" && req.Metainfo == "" {
		return &revaerr.InvalidFieldError{Section: "torrent_create", Field: "magnet", Reason: "one of magnet or metainfo is required"}
	}

	req.Tags = normalizeTags(req.Tags)
	req.Category = strings.TrimSpace(req.Category)

	if req.ConnectionsLimit <= 0 {
		req.ConnectionsLimit = 0
	}

	include, err := validate.GlobList("torrent_create", "include_globs", req.IncludeGlobs)
	if err != nil {
		return revaerr.FromValidateError(err.(*validate.Error))
	}
	req.IncludeGlobs = include

	exclude, err := validate.GlobList("torrent_create", "exclude_globs", req.ExcludeGlobs)
	if err != nil {
		return revaerr.FromValidateError(err.(*validate.Error))
	}
	req.ExcludeGlobs = exclude

	return nil
}

// NormalizeAuthor validates and normalizes a TorrentAuthorRequest in
// place: unlike NormalizeCreate it requires SourcePath rather than a
// magnet/metainfo reference, since authoring builds a new .torrent from
// local files.
func NormalizeAuthor(req *TorrentAuthorRequest) error {
	if strings.TrimSpace(req.SourcePath) == "" {
		return &revaerr.InvalidFieldError{Section: "torrent_author", Field: "source_path", Reason: "source_path is required"}
	}

	req.Tags = normalizeTags(req.Tags)
	req.Category = strings.TrimSpace(req.Category)

	if req.ConnectionsLimit <= 0 {
		req.ConnectionsLimit = 0
	}

	include, err := validate.GlobList("torrent_author", "include_globs", req.IncludeGlobs)
	if err != nil {
		return revaerr.FromValidateError(err.(*validate.Error))
	}
	req.IncludeGlobs = include

	exclude, err := validate.GlobList("torrent_author", "exclude_globs", req.ExcludeGlobs)
	if err != nil {
		return revaerr.FromValidateError(err.(*validate.Error))
	}
	req.ExcludeGlobs = exclude

	return nil
}

// normalizeTags trims every tag and drops any that become empty.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ValidateOptionsUpdate rejects a TorrentOptionsRequest that touches a
// read-only or non-overridable field, and drops a non-positive
// connections limit, per spec §4.9.
func ValidateOptionsUpdate(req *TorrentOptionsRequest) error {
	if req.Comment != nil {
		return &revaerr.InvalidFieldError{Section: "torrent_options", Field: "comment", Reason: "comment is read-only after a torrent is added"}
	}
	if req.Source != nil {
		return &revaerr.InvalidFieldError{Section: "torrent_options", Field: "source", Reason: "source is read-only after a torrent is added"}
	}
	if req.Private != nil {
		return &revaerr.InvalidFieldError{Section: "torrent_options", Field: "private", Reason: "private is read-only after a torrent is added"}
	}
	if req.SeedRatioLimit != nil {
		return &revaerr.InvalidFieldError{Section: "torrent_options", Field: "seed_ratio_limit", Reason: "seed_ratio_limit has no per-torrent override"}
	}
	if req.SeedTimeLimit != nil {
		return &revaerr.InvalidFieldError{Section: "torrent_options", Field: "seed_time_limit", Reason: "seed_time_limit has no per-torrent override"}
	}

	if req.ConnectionsLimit != nil && *req.ConnectionsLimit <= 0 {
		req.ConnectionsLimit = nil
	}
	if req.Category != nil {
		trimmed := strings.TrimSpace(*req.Category)
		req.Category = &trimmed
	}
	req.Tags = normalizeTags(req.Tags)

	return nil
}
