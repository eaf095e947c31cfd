package fsops

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// errUnsupportedArchive is returned when the source is an archive format
// other than ZIP, per spec §4.7 step 7's "others fail with
// 'unsupported archive format'".
var errUnsupportedArchive = fmt.Errorf("unsupported archive format")

// isZipArchive reports whether sourcePath names a single ZIP file by
// extension; content sniffing isn't needed since Extract only runs when
// the policy explicitly enabled it against a single-file source.
func isZipArchive(sourcePath string) bool {
	return strings.EqualFold(filepath.Ext(sourcePath), ".zip")
}

// extractZip decodes sourcePath into destDir, sanitizing every entry
// path per spec §4.7's "reject absolute, `..`, leading slash; normalize
// `.`" and preserving unix file modes when the archive carries them.
func extractZip(sourcePath, destDir string) error {
	r, err := zip.OpenReader(sourcePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		rel, err := sanitizeEntryPath(f.Name)
		if err != nil {
			return err
		}
		if rel == "." {
			continue
		}
		target := filepath.Join(destDir, filepath.FromSlash(rel))

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create directory %s: %w", rel, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create parent directory for %s: %w", rel, err)
		}
		if err := extractZipEntry(f, target); err != nil {
			return fmt.Errorf("extract %s: %w", rel, err)
		}
	}
	return nil
}

func extractZipEntry(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	mode := f.Mode()
	if mode == 0 {
		mode = 0o644
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

// sanitizeEntryPath rejects an absolute path, a leading slash, or any
// parent-traversal (`..`) component, keeping only Normal and CurDir
// components per spec §4.7's archive safety note. The returned path is
// slash-separated and cleaned.
func sanitizeEntryPath(name string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	if path.IsAbs(clean) {
		return "", fmt.Errorf("archive entry %q has an absolute path", name)
	}
	for _, part := range strings.Split(clean, "/") {
		if part == ".." {
			return "", fmt.Errorf("archive entry %q escapes the extraction root", name)
		}
	}
	return clean, nil
}
