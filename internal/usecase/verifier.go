package usecase

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/eliteGoblin/devclean/internal/domain"
)

// SafetyVerifier implements domain.Verifier. It re-resolves a candidate right
// before deletion so that changes made since the scan are never acted upon.
type SafetyVerifier struct {
	classifier domain.Classifier
	fsManager  domain.FileSystemManager
	logger     *zap.Logger
}

// NewVerifier creates a verifier. The classifier must read the live
// filesystem; a scan-scoped caching classifier would defeat the re-check.
func NewVerifier(classifier domain.Classifier, fs domain.FileSystemManager, logger *zap.Logger) *SafetyVerifier {
	return &SafetyVerifier{
		classifier: classifier,
		fsManager:  fs,
		logger:     logger,
	}
}

// Verify checks existence, then that no ancestor is a symlink, then
// category, then delete permission.
// c.Writable is filled whenever the permission check runs.
func (v *SafetyVerifier) Verify(ctx context.Context, c *domain.Candidate) domain.VerifyStatus {
	status := v.verify(c)
	if status != domain.VerifyConfirmed {
		v.logger.Warn("candidate failed verification",
			zap.String("path", c.Path),
			zap.String("category", string(c.Category)),
			zap.Stringer("status", status))
	}
	return status
}

func (v *SafetyVerifier) verify(c *domain.Candidate) domain.VerifyStatus {
	info, err := v.fsManager.Lstat(c.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return domain.VerifyGone
	case errors.Is(err, fs.ErrPermission):
		return domain.VerifyPermissionDenied
	case errors.Is(err, syscall.ENOTDIR):
		// An ancestor became a file.
		return domain.VerifyMismatched
	case err != nil:
		v.logger.Warn("cannot inspect candidate", zap.String("path", c.Path), zap.Error(err))
		return domain.VerifyPermissionDenied
	}
	if !info.IsDir() {
		// Replaced by a file or a symlink since the scan.
		return domain.VerifyMismatched
	}

	// Lstat only guards the last component; an ancestor swapped for a
	// symlink would redirect the deletion outside the scanned tree.
	parent := filepath.Dir(c.Path)
	resolved, err := v.fsManager.EvalSymlinks(parent)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.VerifyGone
		}
		return domain.VerifyMismatched
	}
	if resolved != parent {
		v.logger.Debug("ancestor resolves elsewhere",
			zap.String("path", c.Path),
			zap.String("resolved_parent", resolved))
		return domain.VerifyMismatched
	}

	category, ok := v.classifier.Classify(filepath.Base(c.Path), parent)
	if !ok || category != c.Category {
		return domain.VerifyMismatched
	}

	writable := false
	c.Writable = &writable
	if err := v.fsManager.ClearReadOnly(c.Path); err != nil {
		v.logger.Debug("cannot clear read-only attributes", zap.String("path", c.Path), zap.Error(err))
		return domain.VerifyPermissionDenied
	}
	for _, dir := range []string{parent, c.Path} {
		if err := v.fsManager.CheckWritable(dir); err != nil {
			v.logger.Debug("no delete permission", zap.String("path", dir), zap.Error(err))
			return domain.VerifyPermissionDenied
		}
	}
	writable = true
	return domain.VerifyConfirmed
}

// Ensure SafetyVerifier implements domain.Verifier.
var _ domain.Verifier = (*SafetyVerifier)(nil)
