package torrentapi

import (
	"testing"

	"github.com/revaer/revaer/pkg/revaerr"
)

func TestNormalizeCreateRequiresMagnetOrMetainfo(t *testing.T) {
	req := &TorrentCreateRequest{}
	err := NormalizeCreate(req)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var fieldErr *revaerr.InvalidFieldError
	if !asInvalidField(err, &fieldErr) {
		t.Fatalf("expected *revaerr.InvalidFieldError, got %T", err)
	}
	if fieldErr.Field != "magnet" {
		t.Fatalf("expected field magnet, got %s", fieldErr.Field)
	}
}

func TestNormalizeCreateTrimsTagsAndCategory(t *testing.T) {
	req := &TorrentCreateRequest{
		Magnet:   "magnet:?xt=urn:btih:abc",
		Tags:     []string{" movies ", "", "  "},
		Category: "  library  ",
	}
	if err := NormalizeCreate(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(req.Tags) != 1 || req.Tags[0] != "movies" {
		t.Fatalf("expected tags [movies], got %v", req.Tags)
	}
	if req.Category != "library" {
		t.Fatalf("expected category %q, got %q", "library", req.Category)
	}
}

func TestNormalizeCreateDropsNonPositiveConnectionsLimit(t *testing.T) {
	req := &TorrentCreateRequest{Magnet: "magnet:?xt=urn:btih:abc", ConnectionsLimit: -5}
	if err := NormalizeCreate(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.ConnectionsLimit != 0 {
		t.Fatalf("expected connections limit reset to 0, got %d", req.ConnectionsLimit)
	}
}

func TestNormalizeCreateExpandsSkipFluff(t *testing.T) {
	req := &TorrentCreateRequest{
		Magnet:       "magnet:?xt=urn:btih:abc",
		ExcludeGlobs: []string{"@skip_fluff"},
	}
	if err := NormalizeCreate(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(req.ExcludeGlobs) == 0 {
		t.Fatal("expected @skip_fluff to expand into one or more glob patterns")
	}
	for _, g := range req.ExcludeGlobs {
		if g == "@skip_fluff" {
			t.Fatal("expected sentinel to be expanded, not passed through")
		}
	}
}

func TestNormalizeCreateRejectsEmptyGlobEntry(t *testing.T) {
	req := &TorrentCreateRequest{Magnet: "magnet:?xt=urn:btih:abc", IncludeGlobs: []string{""}}
	err := NormalizeCreate(req)
	if err == nil {
		t.Fatal("expected error for empty glob pattern entry")
	}
}

func TestNormalizeAuthorRequiresSourcePath(t *testing.T) {
	req := &TorrentAuthorRequest{}
	err := NormalizeAuthor(req)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var fieldErr *revaerr.InvalidFieldError
	if !asInvalidField(err, &fieldErr) {
		t.Fatalf("expected *revaerr.InvalidFieldError, got %T", err)
	}
	if fieldErr.Field != "source_path" {
		t.Fatalf("expected field source_path, got %s", fieldErr.Field)
	}
}

func TestNormalizeAuthorAcceptsSourcePathWithoutMagnet(t *testing.T) {
	req := &TorrentAuthorRequest{SourcePath: "/data/library/movie"}
	if err := NormalizeAuthor(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateOptionsUpdateRejectsReadOnlyFields(t *testing.T) {
	comment := "hello"
	req := &TorrentOptionsRequest{Comment: &comment}
	if err := ValidateOptionsUpdate(req); err == nil {
		t.Fatal("expected error for comment override")
	}

	source := "x"
	req = &TorrentOptionsRequest{Source: &source}
	if err := ValidateOptionsUpdate(req); err == nil {
		t.Fatal("expected error for source override")
	}

	private := true
	req = &TorrentOptionsRequest{Private: &private}
	if err := ValidateOptionsUpdate(req); err == nil {
		t.Fatal("expected error for private override")
	}

	ratio := 2.0
	req = &TorrentOptionsRequest{SeedRatioLimit: &ratio}
	if err := ValidateOptionsUpdate(req); err == nil {
		t.Fatal("expected error for seed_ratio_limit override")
	}
}

func TestValidateOptionsUpdateDropsNonPositiveConnectionsLimit(t *testing.T) {
	limit := -1
	req := &TorrentOptionsRequest{ConnectionsLimit: &limit}
	if err := ValidateOptionsUpdate(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.ConnectionsLimit != nil {
		t.Fatal("expected non-positive connections limit to be cleared")
	}
}

func TestValidateOptionsUpdateTrimsCategory(t *testing.T) {
	cat := "  movies  "
	req := &TorrentOptionsRequest{Category: &cat}
	if err := ValidateOptionsUpdate(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *req.Category != "movies" {
		t.Fatalf("expected trimmed category, got %q", *req.Category)
	}
}

func asInvalidField(err error, target **revaerr.InvalidFieldError) bool {
	fe, ok := err.(*revaerr.InvalidFieldError)
	if !ok {
		return false
	}
	*target = fe
	return true
}
