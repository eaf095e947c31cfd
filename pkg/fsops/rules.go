package fsops

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// RuleSet is a compiled include/exclude glob pair used by the Cleanup
// step, compiled from the (already @skip_fluff-expanded) patterns on
// FsPolicy.CleanupKeep/CleanupDrop.
type RuleSet struct {
	include []string
	exclude []string
}

// compileRules validates every pattern compiles under doublestar's
// `**`-aware matcher; it does not precompile to a matcher value since
// doublestar.Match takes the pattern directly and is cheap per call.
func compileRules(include, exclude []string) (*RuleSet, error) {
	for _, p := range include {
		if _, err := doublestar.Match(p, "probe"); err != nil {
			return nil, &invalidPatternError{Pattern: p, Source: err}
		}
	}
	for _, p := range exclude {
		if _, err := doublestar.Match(p, "probe"); err != nil {
			return nil, &invalidPatternError{Pattern: p, Source: err}
		}
	}
	return &RuleSet{include: include, exclude: exclude}, nil
}

// Excluded reports whether relPath (slash-separated, relative to the
// artifact root) matches any exclude pattern.
func (r *RuleSet) Excluded(relPath string) bool {
	for _, p := range r.exclude {
		if ok, _ := doublestar.Match(p, relPath); ok {
			return true
		}
	}
	return false
}

// Included reports whether relPath is admitted by the include set, per
// spec §4.7's "if include set is non-empty, entries not matching it are
// skipped too" — an empty include set admits everything.
func (r *RuleSet) Included(relPath string) bool {
	if len(r.include) == 0 {
		return true
	}
	for _, p := range r.include {
		if ok, _ := doublestar.Match(p, relPath); ok {
			return true
		}
	}
	return false
}

// cleanupTree walks root, removing every file excluded by rules (or,
// when an include set is compiled, not admitted by it), then prunes
// directories left empty by those removals, deepest first, per spec
// §4.7 step 11. It returns the number of files removed.
func cleanupTree(root string, rules *RuleSet) (int, error) {
	var dirs []string
	removed := 0

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			dirs = append(dirs, path)
			return nil
		}
		if rules.Excluded(rel) || !rules.Included(rel) {
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for i := len(dirs) - 1; i >= 0; i-- {
		entries, err := os.ReadDir(dirs[i])
		if err != nil {
			return removed, err
		}
		if len(entries) == 0 {
			if err := os.Remove(dirs[i]); err != nil {
				return removed, err
			}
		}
	}
	return removed, nil
}

type invalidPatternError struct {
	Pattern string
	Source  error
}

func (e *invalidPatternError) Error() string {
	return "invalid glob pattern " + e.Pattern + ": " + e.Source.Error()
}

func (e *invalidPatternError) Unwrap() error { return e.Source }
