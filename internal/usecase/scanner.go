package usecase

import (
	"context"
	"iter"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/eliteGoblin/devclean/internal/domain"
)

// TreeScanner implements domain.Scanner with a serial depth-first walk.
type TreeScanner struct {
	registry  domain.MarkerRegistry
	fsManager domain.FileSystemManager
	cacheSize int
	logger    *zap.Logger
}

// NewScanner creates a scanner classifying against registry.
func NewScanner(registry domain.MarkerRegistry, fs domain.FileSystemManager, logger *zap.Logger) *TreeScanner {
	return &TreeScanner{
		registry:  registry,
		fsManager: fs,
		cacheSize: DefaultMarkerCacheSize,
		logger:    logger,
	}
}

// Scan walks cfg.RootPath in lexical order. Matched directories are yielded
// and never descended into; symlinks are neither classified nor followed;
// unreadable directories are reported to sink and skipped.
func (s *TreeScanner) Scan(ctx context.Context, cfg domain.ScanConfig, sink domain.NoticeSink) iter.Seq[domain.Candidate] {
	return func(yield func(domain.Candidate) bool) {
		w := &scanWalk{
			ctx:        ctx,
			cfg:        cfg,
			fsManager:  s.fsManager,
			classifier: s.classifierForScan(),
			sink:       sinkOrDiscard(sink),
			yield:      yield,
			logger:     s.logger,
		}
		w.walk(filepath.Clean(cfg.RootPath), 0)
	}
}

// classifierForScan returns a fresh caching classifier so that a second scan
// observes the filesystem as it is now.
func (s *TreeScanner) classifierForScan() domain.Classifier {
	c, err := NewCachingClassifier(s.registry, s.fsManager, s.cacheSize, s.logger)
	if err != nil {
		return NewClassifier(s.registry, s.fsManager, s.logger)
	}
	return c
}

// scanWalk carries the state of one Scan invocation.
type scanWalk struct {
	ctx        context.Context
	cfg        domain.ScanConfig
	fsManager  domain.FileSystemManager
	classifier domain.Classifier
	sink       domain.NoticeSink
	yield      func(domain.Candidate) bool
	logger     *zap.Logger
}

// walk visits the entries of dir, which sit at the given depth.
// It returns false once the consumer or the context stops the scan.
func (w *scanWalk) walk(dir string, depth int) bool {
	entries, err := w.fsManager.ReadDir(dir)
	if err != nil {
		w.logger.Warn("skipping unreadable directory",
			zap.String("path", dir),
			zap.Error(err))
		w.sink.Notice(domain.Notice{
			Kind: domain.NoticeTraversal,
			Path: dir,
			Err:  &domain.TraversalError{Path: dir, Err: err},
		})
	}

	for _, entry := range entries {
		if w.ctx.Err() != nil {
			return false
		}
		// Entry types are not resolved through symlinks, so a link to a
		// directory is skipped here.
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if domain.SkipNames[name] {
			continue
		}

		path := filepath.Join(dir, name)
		if category, ok := w.classifier.Classify(name, dir); ok && w.cfg.Categories.Allows(category) {
			if !w.yield(domain.Candidate{Path: path, Category: category, Depth: depth}) {
				return false
			}
			continue
		}

		if w.cfg.HasDepthLimit() && depth >= w.cfg.MaxDepth {
			continue
		}
		if !w.walk(path, depth+1) {
			return false
		}
	}
	return true
}

// Ensure TreeScanner implements domain.Scanner.
var _ domain.Scanner = (*TreeScanner)(nil)
