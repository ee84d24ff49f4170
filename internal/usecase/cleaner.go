package usecase

import (
	"context"
	"errors"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eliteGoblin/devclean/internal/domain"
)

// CleanerImpl implements domain.Cleaner.
type CleanerImpl struct {
	verifier  domain.Verifier
	fsManager domain.FileSystemManager
	workers   int
	logger    *zap.Logger
}

// NewCleaner creates a cleaner running up to workers candidates at once.
// workers <= 1 processes candidates serially in input order.
func NewCleaner(
	v domain.Verifier,
	fs domain.FileSystemManager,
	workers int,
	logger *zap.Logger,
) domain.Cleaner {
	if workers < 1 {
		workers = 1
	}
	return &CleanerImpl{
		verifier:  v,
		fsManager: fs,
		workers:   workers,
		logger:    logger,
	}
}

// Clean verifies then deletes every candidate, returning outcomes in input order.
// Each candidate is handled end-to-end by one worker. Once ctx is canceled,
// running workers finish their candidate and the rest are skipped.
func (e *CleanerImpl) Clean(ctx context.Context, candidates []domain.Candidate) []domain.DeletionOutcome {
	outcomes := make([]domain.DeletionOutcome, len(candidates))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i := range candidates {
		if ctx.Err() != nil {
			outcomes[i] = skipped(candidates[i], domain.ReasonInterrupted)
			continue
		}
		g.Go(func() error {
			outcomes[i] = e.CleanCandidate(ctx, candidates[i])
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// CleanCandidate runs verify-then-delete for a single candidate.
func (e *CleanerImpl) CleanCandidate(ctx context.Context, c domain.Candidate) domain.DeletionOutcome {
	if ctx.Err() != nil {
		return skipped(c, domain.ReasonInterrupted)
	}

	if status := e.verifier.Verify(ctx, &c); status != domain.VerifyConfirmed {
		return skipped(c, status.String())
	}

	stats, err := e.fsManager.RemoveTree(c.Path)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			e.logger.Warn("cannot delete (permission denied, run as root)",
				zap.String("path", c.Path),
				zap.String("category", string(c.Category)))
		} else {
			e.logger.Warn("failed to delete path",
				zap.String("path", c.Path),
				zap.Error(err))
		}
		return domain.DeletionOutcome{
			Candidate:    c,
			Status:       domain.OutcomeFailed,
			BytesFreed:   stats.Bytes,
			FilesRemoved: stats.Files,
			Err:          &domain.DeletionError{Path: c.Path, Err: err},
		}
	}

	e.logger.Info("deleted path",
		zap.String("category", string(c.Category)),
		zap.String("path", c.Path),
		zap.Int64("bytes", stats.Bytes),
		zap.Int64("files", stats.Files))
	return domain.DeletionOutcome{
		Candidate:    c,
		Status:       domain.OutcomeSuccess,
		BytesFreed:   stats.Bytes,
		FilesRemoved: stats.Files,
	}
}

// SkipAll marks every candidate as skipped with reason, as a dry run does.
func SkipAll(candidates []domain.Candidate, reason string) []domain.DeletionOutcome {
	outcomes := make([]domain.DeletionOutcome, len(candidates))
	for i, c := range candidates {
		outcomes[i] = skipped(c, reason)
	}
	return outcomes
}

func skipped(c domain.Candidate, reason string) domain.DeletionOutcome {
	return domain.DeletionOutcome{
		Candidate: c,
		Status:    domain.OutcomeSkipped,
		Reason:    reason,
	}
}

// Ensure CleanerImpl implements domain.Cleaner.
var _ domain.Cleaner = (*CleanerImpl)(nil)
