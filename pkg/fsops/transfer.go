package fsops

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/revaer/revaer/pkg/types"
)

// transfer moves src to dest according to mode, per spec §4.7 step 9.
// If dest already exists it is removed first so the replacement is
// atomic from the caller's point of view (no partially-merged tree).
func transfer(mode types.MoveMode, src, dest string) error {
	if _, err := os.Lstat(dest); err == nil {
		if err := os.RemoveAll(dest); err != nil {
			return fmt.Errorf("remove existing destination: %w", err)
		}
	}

	switch mode {
	case types.MoveModeCopy:
		return copyTree(src, dest)
	case types.MoveModeMove:
		return moveTree(src, dest)
	case types.MoveModeHardlink:
		return hardlinkTree(src, dest)
	default:
		return fmt.Errorf("unknown transfer mode %q", mode)
	}
}

func moveTree(src, dest string) error {
	if err := os.Rename(src, dest); err != nil {
		var linkErr *os.LinkError
		if errors.As(err, &linkErr) && linkErr.Err == syscall.EXDEV {
			if err := copyTree(src, dest); err != nil {
				return err
			}
			return os.RemoveAll(src)
		}
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func copyTree(src, dest string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)

		if d.IsDir() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(target, info.Mode().Perm())
		}
		return copyFile(p, target, d)
	})
}

func copyFile(src, dest string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// hardlinkTree recreates src's directory structure under dest, hard
// linking regular files and creating plain directories, per spec §4.7
// step 9's "hardlink: recursive hardlink (files only; directories are
// created)".
func hardlinkTree(src, dest string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)

		if d.IsDir() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(target, info.Mode().Perm())
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		return os.Link(p, target)
	})
}
