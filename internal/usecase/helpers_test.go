package usecase

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eliteGoblin/devclean/internal/domain"
	"github.com/eliteGoblin/devclean/internal/infra"
	"github.com/eliteGoblin/devclean/internal/policy"
)

// writeSized creates a file of exactly size bytes, making parents as needed.
func writeSized(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

// tempDir returns a fresh directory with symlinks in its path resolved, as
// config.Resolve does for a scan root.
func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

// mkdirs creates every directory in paths.
func mkdirs(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, os.MkdirAll(p, 0o755))
	}
}

// symlinkOrSkip creates a symlink or skips the test where that is not allowed.
func symlinkOrSkip(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
}

// nodeProject creates dir/package.json and dir/node_modules holding ten
// files totaling 2048 bytes.
func nodeProject(t *testing.T, dir string) string {
	t.Helper()
	writeSized(t, filepath.Join(dir, "package.json"), 2)
	modules := filepath.Join(dir, "node_modules")
	for i := 0; i < 9; i++ {
		writeSized(t, filepath.Join(modules, "pkg", string(rune('a'+i))+".js"), 200)
	}
	writeSized(t, filepath.Join(modules, "index.js"), 248)
	return modules
}

func newTestScanner() *TreeScanner {
	return NewScanner(policy.NewRegistry(), infra.NewFileSystemManager(), zap.NewNop())
}

func newTestVerifier(fsm domain.FileSystemManager) *SafetyVerifier {
	return NewVerifier(NewClassifier(policy.NewRegistry(), fsm, zap.NewNop()), fsm, zap.NewNop())
}

func scanAll(t *testing.T, s domain.Scanner, cfg domain.ScanConfig) []domain.Candidate {
	t.Helper()
	var out []domain.Candidate
	for c := range s.Scan(t.Context(), cfg, nil) {
		out = append(out, c)
	}
	return out
}

func paths(candidates []domain.Candidate) []string {
	result := make([]string, len(candidates))
	for i, c := range candidates {
		result[i] = c.Path
	}
	return result
}

// mockFileSystemManager wraps the OS implementation and injects failures.
type mockFileSystemManager struct {
	domain.FileSystemManager

	mu               sync.Mutex
	lstatErr         map[string]error
	readDirErr       map[string]error
	checkWritableErr map[string]error
	clearReadOnlyErr error
	removeErr        map[string]error
	removed          []string
}

func newMockFileSystemManager() *mockFileSystemManager {
	return &mockFileSystemManager{
		FileSystemManager: infra.NewFileSystemManager(),
		lstatErr:          make(map[string]error),
		readDirErr:        make(map[string]error),
		checkWritableErr:  make(map[string]error),
		removeErr:         make(map[string]error),
	}
}

func (m *mockFileSystemManager) Lstat(path string) (fs.FileInfo, error) {
	if err, ok := m.lstatErr[path]; ok {
		return nil, err
	}
	return m.FileSystemManager.Lstat(path)
}

func (m *mockFileSystemManager) ReadDir(path string) ([]fs.DirEntry, error) {
	if err, ok := m.readDirErr[path]; ok {
		return nil, err
	}
	return m.FileSystemManager.ReadDir(path)
}

func (m *mockFileSystemManager) CheckWritable(dir string) error {
	if err, ok := m.checkWritableErr[dir]; ok {
		return err
	}
	return m.FileSystemManager.CheckWritable(dir)
}

func (m *mockFileSystemManager) ClearReadOnly(path string) error {
	if m.clearReadOnlyErr != nil {
		return m.clearReadOnlyErr
	}
	return m.FileSystemManager.ClearReadOnly(path)
}

func (m *mockFileSystemManager) RemoveTree(path string) (domain.RemovalStats, error) {
	m.mu.Lock()
	m.removed = append(m.removed, path)
	err, fail := m.removeErr[path]
	m.mu.Unlock()
	if fail {
		return domain.RemovalStats{Bytes: 1, Files: 1}, err
	}
	return m.FileSystemManager.RemoveTree(path)
}

func (m *mockFileSystemManager) removedPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, len(m.removed))
	copy(result, m.removed)
	return result
}

// mockVerifier returns a fixed status per path, Confirmed by default.
type mockVerifier struct {
	mu       sync.Mutex
	statuses map[string]domain.VerifyStatus
	verified []string
}

func (m *mockVerifier) Verify(_ context.Context, c *domain.Candidate) domain.VerifyStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verified = append(m.verified, c.Path)
	if s, ok := m.statuses[c.Path]; ok {
		return s
	}
	return domain.VerifyConfirmed
}
