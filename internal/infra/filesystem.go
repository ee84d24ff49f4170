package infra

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/eliteGoblin/devclean/internal/domain"
)

// FileSystemManagerImpl implements domain.FileSystemManager on the OS filesystem.
type FileSystemManagerImpl struct {
	homeDir string
}

// NewFileSystemManager creates a new filesystem manager.
func NewFileSystemManager() domain.FileSystemManager {
	home, _ := os.UserHomeDir()
	return &FileSystemManagerImpl{homeDir: home}
}

// NewFileSystemManagerWithHome creates a filesystem manager expanding ~ to home.
func NewFileSystemManagerWithHome(home string) domain.FileSystemManager {
	return &FileSystemManagerImpl{homeDir: home}
}

// Lstat returns file info without following a final symlink.
func (fm *FileSystemManagerImpl) Lstat(path string) (fs.FileInfo, error) {
	return os.Lstat(path)
}

// Stat returns file info, following symlinks.
func (fm *FileSystemManagerImpl) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// EvalSymlinks returns path with every symlink in it resolved.
func (fm *FileSystemManagerImpl) EvalSymlinks(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}

// ReadDir lists a directory's entries sorted by name.
func (fm *FileSystemManagerImpl) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

// CheckWritable returns an error unless entries of dir can be created and removed.
func (fm *FileSystemManagerImpl) CheckWritable(dir string) error {
	if err := checkWritable(dir); err != nil {
		return &fs.PathError{Op: "access", Path: dir, Err: err}
	}
	return nil
}

// ClearReadOnly drops read-only attributes under path where the platform has them.
func (fm *FileSystemManagerImpl) ClearReadOnly(path string) error {
	return clearReadOnly(path)
}

// RemoveTree removes path recursively, files before their directories.
// Entries that disappear while removing are not errors; anything else is
// collected and the walk moves on to the next sibling.
func (fm *FileSystemManagerImpl) RemoveTree(path string) (domain.RemovalStats, error) {
	var stats domain.RemovalStats

	info, err := os.Lstat(path)
	if err != nil {
		return stats, err
	}
	if !info.IsDir() {
		return stats, fmt.Errorf("%s: not a directory", path)
	}

	errs := removeDirContents(path, &stats)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		errs = append(errs, err)
	}
	return stats, errors.Join(errs...)
}

func removeDirContents(dir string, stats *domain.RemovalStats) []error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return []error{err}
	}

	var errs []error
	for _, entry := range entries {
		child := filepath.Join(dir, entry.Name())

		// DirEntry types come from Lstat semantics, so a symlink to a
		// directory is removed as a link and never descended into.
		if entry.IsDir() {
			errs = append(errs, removeDirContents(child, stats)...)
			if err := os.Remove(child); err != nil && !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, err)
			}
			continue
		}

		var size int64
		regular := entry.Type().IsRegular()
		if regular {
			if info, err := entry.Info(); err == nil {
				size = info.Size()
			}
		}
		if err := os.Remove(child); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, err)
			}
			continue
		}
		if regular {
			stats.Files++
			stats.Bytes += size
		}
	}
	return errs
}

// ExpandHome expands ~ to the user's home directory.
func (fm *FileSystemManagerImpl) ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(fm.homeDir, path[2:])
	}
	if path == "~" {
		return fm.homeDir
	}
	return path
}

// Ensure FileSystemManagerImpl implements domain.FileSystemManager.
var _ domain.FileSystemManager = (*FileSystemManagerImpl)(nil)
