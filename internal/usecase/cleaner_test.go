package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eliteGoblin/devclean/internal/domain"
	"github.com/eliteGoblin/devclean/internal/infra"
)

// nodeCandidates creates n node projects under one root.
func nodeCandidates(t *testing.T, n int) []domain.Candidate {
	t.Helper()
	root := tempDir(t)
	result := make([]domain.Candidate, n)
	for i := range result {
		result[i] = domain.Candidate{
			Path:     nodeProject(t, filepath.Join(root, fmt.Sprintf("proj%02d", i))),
			Category: domain.CategoryNodeModules,
		}
	}
	return result
}

func TestClean_DeletesConfirmedCandidate(t *testing.T) {
	candidates := nodeCandidates(t, 1)
	fsm := infra.NewFileSystemManager()
	cleaner := NewCleaner(newTestVerifier(fsm), fsm, 1, zap.NewNop())

	outcomes := cleaner.Clean(t.Context(), candidates)

	require.Len(t, outcomes, 1)
	assert.Equal(t, domain.OutcomeSuccess, outcomes[0].Status)
	assert.Equal(t, int64(2048), outcomes[0].BytesFreed)
	assert.Equal(t, int64(10), outcomes[0].FilesRemoved)
	assert.NoError(t, outcomes[0].Err)
	assert.NoDirExists(t, candidates[0].Path)
	assert.FileExists(t, filepath.Join(filepath.Dir(candidates[0].Path), "package.json"))
}

func TestClean_SkippedCandidateIsNotDeleted(t *testing.T) {
	candidates := nodeCandidates(t, 2)
	fsm := newMockFileSystemManager()
	v := &mockVerifier{statuses: map[string]domain.VerifyStatus{
		candidates[0].Path: domain.VerifyMismatched,
	}}

	outcomes := NewCleaner(v, fsm, 1, zap.NewNop()).Clean(t.Context(), candidates)

	require.Len(t, outcomes, 2)
	assert.Equal(t, domain.OutcomeSkipped, outcomes[0].Status)
	assert.Equal(t, "marker mismatch", outcomes[0].Reason)
	assert.Zero(t, outcomes[0].BytesFreed)
	assert.DirExists(t, candidates[0].Path)
	assert.Equal(t, domain.OutcomeSuccess, outcomes[1].Status)
	assert.Equal(t, []string{candidates[1].Path}, fsm.removedPaths())
}

func TestClean_SkipReasons(t *testing.T) {
	tests := []struct {
		status domain.VerifyStatus
		reason string
	}{
		{domain.VerifyGone, "gone"},
		{domain.VerifyMismatched, "marker mismatch"},
		{domain.VerifyPermissionDenied, "permission denied"},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			c := domain.Candidate{Path: "/nonexistent/node_modules", Category: domain.CategoryNodeModules}
			v := &mockVerifier{statuses: map[string]domain.VerifyStatus{c.Path: tt.status}}
			fsm := newMockFileSystemManager()

			out := NewCleaner(v, fsm, 1, zap.NewNop()).Clean(t.Context(), []domain.Candidate{c})

			assert.Equal(t, domain.OutcomeSkipped, out[0].Status)
			assert.Equal(t, tt.reason, out[0].Reason)
			assert.Empty(t, fsm.removedPaths())
		})
	}
}

func TestClean_FailureDoesNotStopOthers(t *testing.T) {
	candidates := nodeCandidates(t, 3)
	fsm := newMockFileSystemManager()
	fsm.removeErr[candidates[1].Path] = &os.PathError{Op: "unlinkat", Path: candidates[1].Path, Err: os.ErrPermission}

	outcomes := NewCleaner(&mockVerifier{}, fsm, 1, zap.NewNop()).Clean(t.Context(), candidates)

	require.Len(t, outcomes, 3)
	assert.Equal(t, domain.OutcomeSuccess, outcomes[0].Status)
	assert.Equal(t, domain.OutcomeFailed, outcomes[1].Status)
	assert.Equal(t, domain.OutcomeSuccess, outcomes[2].Status)

	failed := outcomes[1]
	assert.Equal(t, int64(1), failed.BytesFreed)
	assert.Equal(t, int64(1), failed.FilesRemoved)
	var delErr *domain.DeletionError
	require.ErrorAs(t, failed.Err, &delErr)
	assert.Equal(t, candidates[1].Path, delErr.Path)
	assert.ErrorIs(t, failed.Err, os.ErrPermission)

	report := domain.CleanReport{Outcomes: outcomes}
	assert.Equal(t, int64(4096), report.BytesFreed())
	assert.Equal(t, int64(20), report.FilesRemoved())
}

func TestClean_SerialKeepsInputOrder(t *testing.T) {
	candidates := nodeCandidates(t, 4)
	fsm := newMockFileSystemManager()
	v := &mockVerifier{}

	outcomes := NewCleaner(v, fsm, 0, zap.NewNop()).Clean(t.Context(), candidates)

	assert.Equal(t, paths(candidates), fsm.removedPaths())
	assert.Equal(t, paths(candidates), v.verified)
	for i, o := range outcomes {
		assert.Equal(t, candidates[i].Path, o.Candidate.Path)
	}
}

func TestClean_ParallelReturnsInputOrder(t *testing.T) {
	candidates := nodeCandidates(t, 12)
	fsm := infra.NewFileSystemManager()

	outcomes := NewCleaner(newTestVerifier(fsm), fsm, 4, zap.NewNop()).Clean(t.Context(), candidates)

	require.Len(t, outcomes, len(candidates))
	for i, o := range outcomes {
		assert.Equal(t, candidates[i].Path, o.Candidate.Path)
		assert.Equal(t, domain.OutcomeSuccess, o.Status)
		assert.NoDirExists(t, o.Candidate.Path)
	}
	report := domain.CleanReport{Outcomes: outcomes}
	assert.Equal(t, int64(12*2048), report.BytesFreed())
}

// countingVerifier cancels the run after the first verification.
type countingVerifier struct {
	cancel context.CancelFunc
	calls  atomic.Int32
}

func (v *countingVerifier) Verify(context.Context, *domain.Candidate) domain.VerifyStatus {
	if v.calls.Add(1) == 1 {
		v.cancel()
	}
	return domain.VerifyConfirmed
}

func TestClean_InterruptSkipsRemaining(t *testing.T) {
	candidates := nodeCandidates(t, 3)
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	v := &countingVerifier{cancel: cancel}

	outcomes := NewCleaner(v, newMockFileSystemManager(), 1, zap.NewNop()).Clean(ctx, candidates)

	require.Len(t, outcomes, 3)
	assert.Equal(t, domain.OutcomeSuccess, outcomes[0].Status)
	for _, o := range outcomes[1:] {
		assert.Equal(t, domain.OutcomeSkipped, o.Status)
		assert.Equal(t, domain.ReasonInterrupted, o.Reason)
		assert.DirExists(t, o.Candidate.Path)
	}
	assert.Equal(t, int32(1), v.calls.Load())
}

func TestClean_AlreadyCanceled(t *testing.T) {
	candidates := nodeCandidates(t, 2)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	fsm := newMockFileSystemManager()

	outcomes := NewCleaner(&mockVerifier{}, fsm, 4, zap.NewNop()).Clean(ctx, candidates)

	for _, o := range outcomes {
		assert.Equal(t, domain.OutcomeSkipped, o.Status)
		assert.Equal(t, domain.ReasonInterrupted, o.Reason)
	}
	assert.Empty(t, fsm.removedPaths())
}

func TestClean_Empty(t *testing.T) {
	outcomes := NewCleaner(&mockVerifier{}, newMockFileSystemManager(), 4, zap.NewNop()).Clean(t.Context(), nil)
	assert.Empty(t, outcomes)
}

func TestSkipAll(t *testing.T) {
	candidates := []domain.Candidate{{Path: "/a/node_modules"}, {Path: "/b/target"}}

	outcomes := SkipAll(candidates, domain.ReasonDryRun)

	require.Len(t, outcomes, 2)
	for i, o := range outcomes {
		assert.Equal(t, candidates[i].Path, o.Candidate.Path)
		assert.Equal(t, domain.OutcomeSkipped, o.Status)
		assert.Equal(t, "dry-run", o.Reason)
		assert.NoError(t, o.Err)
	}
}
