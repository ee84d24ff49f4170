package usecase

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/eliteGoblin/devclean/internal/domain"
)

// TreeSizer implements domain.Sizer by walking the candidate's subtree.
type TreeSizer struct {
	fsManager domain.FileSystemManager
	logger    *zap.Logger
}

// NewSizer creates a new sizer.
func NewSizer(fs domain.FileSystemManager, logger *zap.Logger) *TreeSizer {
	return &TreeSizer{fsManager: fs, logger: logger}
}

// Size sums regular-file bytes and counts regular files under c.Path.
// The walk stays inside the subtree because symlinks are never followed.
// Unreadable entries contribute zero and are reported to sink; sizing
// itself never fails.
func (s *TreeSizer) Size(ctx context.Context, c *domain.Candidate, sink domain.NoticeSink) {
	t := &sizeWalk{
		ctx:       ctx,
		candidate: c.Path,
		fsManager: s.fsManager,
		sink:      sinkOrDiscard(sink),
		logger:    s.logger,
	}
	t.walk(c.Path)

	c.SizeBytes = t.bytes
	c.FileCount = t.files
	c.Sized = true
}

type sizeWalk struct {
	ctx       context.Context
	candidate string
	fsManager domain.FileSystemManager
	sink      domain.NoticeSink
	logger    *zap.Logger
	bytes     int64
	files     int64
}

func (t *sizeWalk) walk(dir string) {
	entries, err := t.fsManager.ReadDir(dir)
	if err != nil {
		t.report(dir, err)
	}
	for _, entry := range entries {
		if t.ctx.Err() != nil {
			return
		}
		path := filepath.Join(dir, entry.Name())
		switch {
		case entry.IsDir():
			t.walk(path)
		case entry.Type().IsRegular():
			info, err := entry.Info()
			if err != nil {
				t.report(path, err)
				continue
			}
			t.bytes += info.Size()
			t.files++
		}
	}
}

func (t *sizeWalk) report(path string, err error) {
	t.logger.Debug("partial size",
		zap.String("candidate", t.candidate),
		zap.String("path", path),
		zap.Error(err))
	t.sink.Notice(domain.Notice{
		Kind: domain.NoticeSizing,
		Path: path,
		Err:  &domain.SizingError{Path: path, Err: err},
	})
}

// Ensure TreeSizer implements domain.Sizer.
var _ domain.Sizer = (*TreeSizer)(nil)
