package config

import (
	"testing"

	"github.com/revaer/revaer/pkg/types"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		in            string
		section, field string
	}{
		{"app_profile.http_port", "app_profile", "http_port"},
		{"app_profile", "app_profile", ""},
		{"engine_profile.tracker.user_agent", "engine_profile", "tracker.user_agent"},
	}
	for _, tt := range tests {
		section, field := splitPath(tt.in)
		if section != tt.section || field != tt.field {
			t.Errorf("splitPath(%q) = (%q, %q), want (%q, %q)", tt.in, section, field, tt.section, tt.field)
		}
	}
}

func TestCheckImmutableLiteralMatch(t *testing.T) {
	app := &types.AppProfile{ImmutableKeys: []string{"app_profile.http_port"}}
	err := checkImmutable(app, []string{"app_profile.http_port"})
	if err == nil {
		t.Fatal("expected an error for a literal immutable match")
	}
}

func TestCheckImmutableWildcardMatch(t *testing.T) {
	app := &types.AppProfile{ImmutableKeys: []string{"engine_profile.tracker.*"}}
	err := checkImmutable(app, []string{"engine_profile.tracker.user_agent"})
	if err == nil {
		t.Fatal("expected an error for a wildcard-covered field")
	}
}

func TestCheckImmutableBareSectionMatch(t *testing.T) {
	app := &types.AppProfile{ImmutableKeys: []string{"fs_policy"}}
	err := checkImmutable(app, []string{"fs_policy.library_root"})
	if err == nil {
		t.Fatal("expected an error when the bare section name is immutable")
	}
}

func TestCheckImmutableNoMatch(t *testing.T) {
	app := &types.AppProfile{ImmutableKeys: []string{"app_profile.instance_name"}}
	err := checkImmutable(app, []string{"app_profile.http_port"})
	if err != nil {
		t.Errorf("expected no error for an untouched immutable key, got %v", err)
	}
}

func TestMergeLabelPoliciesReplacesByKindAndName(t *testing.T) {
	existing := []types.LabelPolicy{
		{Kind: "category", Name: "movies", Value: "old"},
		{Kind: "tag", Name: "quality", Value: "hd"},
	}
	incoming := []types.LabelPolicy{
		{Kind: "category", Name: "movies", Value: "new"},
	}
	out := mergeLabelPolicies(existing, incoming)

	if len(out) != 2 {
		t.Fatalf("expected 2 policies, got %d", len(out))
	}
	for _, p := range out {
		if p.Kind == "category" && p.Name == "movies" && p.Value != "new" {
			t.Errorf("expected replaced value %q, got %q", "new", p.Value)
		}
		if p.Kind == "tag" && p.Name == "quality" && p.Value != "hd" {
			t.Errorf("expected untouched value preserved, got %q", p.Value)
		}
	}
}

func TestMergeLabelPoliciesAppendsNew(t *testing.T) {
	existing := []types.LabelPolicy{{Kind: "category", Name: "movies", Value: "v1"}}
	incoming := []types.LabelPolicy{{Kind: "tag", Name: "new-tag", Value: "v2"}}
	out := mergeLabelPolicies(existing, incoming)

	if len(out) != 2 {
		t.Fatalf("expected existing policy kept and new one appended, got %d entries", len(out))
	}
}

func TestApplyFsPolicyUpdateExpandsSkipFluffPreset(t *testing.T) {
	keep := []string{types.SkipFluffPreset}
	base := types.FsPolicy{}
	out, err := applyFsPolicyUpdate(base, &types.FsPolicyUpdate{CleanupKeep: &keep})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.CleanupKeep) != len(types.SkipFluffPatterns) {
		t.Errorf("expected @skip_fluff expanded to %d patterns, got %d", len(types.SkipFluffPatterns), len(out.CleanupKeep))
	}
}

func TestApplyFsPolicyUpdateRejectsEmptyGlobEntry(t *testing.T) {
	drop := []string{""}
	_, err := applyFsPolicyUpdate(types.FsPolicy{}, &types.FsPolicyUpdate{CleanupDrop: &drop})
	if err == nil {
		t.Fatal("expected an error for an empty glob pattern entry")
	}
}

func TestValidateFsPolicyRejectsEmptyLibraryRoot(t *testing.T) {
	p := &types.FsPolicy{LibraryRoot: ""}
	if err := validateFsPolicy(p); err == nil {
		t.Fatal("expected an error for an empty library_root")
	}
}

func TestValidateFsPolicyRejectsBadOctalMode(t *testing.T) {
	p := &types.FsPolicy{LibraryRoot: "/data/library", ChmodFile: "999"}
	if err := validateFsPolicy(p); err == nil {
		t.Fatal("expected an error for a non-octal chmod_file")
	}
}

func TestValidateFsPolicyAcceptsMinimalValidPolicy(t *testing.T) {
	p := &types.FsPolicy{LibraryRoot: "/data/library"}
	if err := validateFsPolicy(p); err != nil {
		t.Errorf("expected a minimal valid policy to pass, got %v", err)
	}
}
