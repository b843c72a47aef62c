// Package backup snapshots a target directory before a committed rename
// pass.
package backup

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Dir returns the backup location for dir: a sibling directory named
// "<dir>_backup".
func Dir(dir string) string {
	return filepath.Clean(dir) + "_backup"
}

// Create replaces any previous backup of dir with a fresh recursive copy
// and returns the backup path.
func Create(fsys afero.Fs, dir string) (string, error) {
	target := Dir(dir)

	exists, err := afero.DirExists(fsys, target)
	if err != nil {
		return "", fmt.Errorf("checking backup dir: %w", err)
	}
	if exists {
		slog.Info("replacing previous backup", "dir", target)
		if err := fsys.RemoveAll(target); err != nil {
			return "", fmt.Errorf("removing previous backup: %w", err)
		}
	}

	if err := copyTree(fsys, dir, target); err != nil {
		return "", fmt.Errorf("copying %s: %w", dir, err)
	}
	slog.Info("backup created", "dir", target)
	return target, nil
}

// TreeSize sums the sizes of all regular files under dir.
func TreeSize(fsys afero.Fs, dir string) (int64, error) {
	var total int64
	err := afero.Walk(fsys, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("sizing %s: %w", dir, err)
	}
	return total, nil
}

func copyTree(fsys afero.Fs, src, dst string) error {
	return afero.Walk(fsys, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return fsys.MkdirAll(target, info.Mode().Perm())
		}
		return copyFile(fsys, path, target, info.Mode().Perm())
	})
}

func copyFile(fsys afero.Fs, src, dst string, mode os.FileMode) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fsys.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
