// Package fixtures provides test helpers for integration tests.
package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
)

// FakeWorkspace builds development trees with build artifacts under Root.
type FakeWorkspace struct {
	Root string
}

// NewFakeWorkspace creates a new workspace generator rooted at root.
func NewFakeWorkspace(root string) *FakeWorkspace {
	return &FakeWorkspace{Root: root}
}

// Artifact describes one artifact directory created by the workspace.
type Artifact struct {
	Path  string
	Bytes int64
	Files int64
}

// NodeProject creates name/package.json and name/node_modules holding
// the given number of regular files, fileSize bytes each.
func (w *FakeWorkspace) NodeProject(name string, files, fileSize int) (Artifact, error) {
	return w.project(name, "package.json", "node_modules", files, fileSize)
}

// RustProject creates name/Cargo.toml and name/target.
func (w *FakeWorkspace) RustProject(name string, files, fileSize int) (Artifact, error) {
	return w.project(name, "Cargo.toml", "target", files, fileSize)
}

// MavenProject creates name/pom.xml and name/target.
func (w *FakeWorkspace) MavenProject(name string, files, fileSize int) (Artifact, error) {
	return w.project(name, "pom.xml", "target", files, fileSize)
}

// GradleProject creates name/build.gradle and name/build.
func (w *FakeWorkspace) GradleProject(name string, files, fileSize int) (Artifact, error) {
	return w.project(name, "build.gradle", "build", files, fileSize)
}

// PythonCache creates name/__pycache__; Python caches need no marker.
func (w *FakeWorkspace) PythonCache(name string, files, fileSize int) (Artifact, error) {
	return w.project(name, "", "__pycache__", files, fileSize)
}

// UnmarkedDir creates name/dirName with content but no marker next to it.
func (w *FakeWorkspace) UnmarkedDir(name, dirName string, files, fileSize int) (Artifact, error) {
	return w.project(name, "", dirName, files, fileSize)
}

func (w *FakeWorkspace) project(name, marker, artifact string, files, fileSize int) (Artifact, error) {
	dir := filepath.Join(w.Root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Artifact{}, err
	}
	if marker != "" {
		if err := os.WriteFile(filepath.Join(dir, marker), []byte("{}\n"), 0o644); err != nil {
			return Artifact{}, err
		}
	}

	a := Artifact{Path: filepath.Join(dir, artifact)}
	// Spread files over nested directories so deletion order matters.
	for i := 0; i < files; i++ {
		sub := filepath.Join(a.Path, fmt.Sprintf("pkg%d", i%3), "lib")
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return Artifact{}, err
		}
		if err := os.WriteFile(filepath.Join(sub, fmt.Sprintf("f%03d.bin", i)), make([]byte, fileSize), 0o644); err != nil {
			return Artifact{}, err
		}
		a.Bytes += int64(fileSize)
		a.Files++
	}
	if files == 0 {
		if err := os.MkdirAll(a.Path, 0o755); err != nil {
			return Artifact{}, err
		}
	}
	return a, nil
}

// Symlink creates link pointing at target, relative to Root.
func (w *FakeWorkspace) Symlink(target, link string) error {
	linkPath := filepath.Join(w.Root, link)
	if err := os.MkdirAll(filepath.Dir(linkPath), 0o755); err != nil {
		return err
	}
	return os.Symlink(target, linkPath)
}

// Exists checks if a path exists.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
