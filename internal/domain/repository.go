package domain

import (
	"context"
	"io/fs"
	"iter"
)

// FileSystemManager handles filesystem operations.
// Implementations never follow symbolic links.
type FileSystemManager interface {
	// Lstat returns file info without following a final symlink.
	Lstat(path string) (fs.FileInfo, error)

	// Stat returns file info, following symlinks. Only marker existence uses it.
	Stat(path string) (fs.FileInfo, error)

	// EvalSymlinks returns path with every symlink in it resolved.
	EvalSymlinks(path string) (string, error)

	// ReadDir lists a directory's entries sorted by name.
	ReadDir(path string) ([]fs.DirEntry, error)

	// CheckWritable returns an error unless entries of dir can be created and removed.
	CheckWritable(dir string) error

	// ClearReadOnly drops read-only attributes under path where the platform has them.
	// It is a no-op where permissions are governed only by directory write bits.
	ClearReadOnly(path string) error

	// RemoveTree removes path recursively, files before their directories.
	// Child failures do not stop the walk; they are joined into the returned error.
	RemoveTree(path string) (RemovalStats, error)

	// ExpandHome expands ~ to the user's home directory.
	ExpandHome(path string) string
}

// RemovalStats counts what RemoveTree actually removed.
type RemovalStats struct {
	Bytes int64
	Files int64
}

// MarkerRegistry is the static directory-name to rule mapping.
type MarkerRegistry interface {
	// RulesFor returns the rules for a directory name in evaluation order.
	// Unknown names return an empty slice.
	RulesFor(directoryName string) []MarkerRule

	// Rules returns every rule in evaluation order.
	Rules() []MarkerRule
}

// Classifier decides whether a directory entry is a cleanable artifact.
type Classifier interface {
	// Classify returns the category of the directory called name inside parentPath.
	Classify(name, parentPath string) (Category, bool)
}

// NoticeSink receives non-fatal advisories from scanning and sizing.
type NoticeSink interface {
	Notice(n Notice)
}

// Scanner walks a tree and yields classified candidates.
type Scanner interface {
	// Scan returns a lazy sequence; ranging over it again performs a fresh walk.
	Scan(ctx context.Context, cfg ScanConfig, sink NoticeSink) iter.Seq[Candidate]
}

// Sizer fills a candidate's size and file count.
type Sizer interface {
	Size(ctx context.Context, c *Candidate, sink NoticeSink)
}

// Verifier re-checks a candidate immediately before deletion.
type Verifier interface {
	Verify(ctx context.Context, c *Candidate) VerifyStatus
}

// Cleaner verifies and deletes candidates, one outcome per candidate.
type Cleaner interface {
	Clean(ctx context.Context, candidates []Candidate) []DeletionOutcome
}
