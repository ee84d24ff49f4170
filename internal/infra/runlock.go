package infra

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/eliteGoblin/devclean/internal/domain"
)

// RunLock serializes cleaning runs on the same root tree across processes.
// The lock file name is derived from a hash of the root path so that runs on
// unrelated trees never contend.
type RunLock struct {
	flock *flock.Flock
	path  string
}

// NewRunLock creates a lock for root in the system temp directory.
func NewRunLock(root string) *RunLock {
	return NewRunLockInDir(os.TempDir(), root)
}

// NewRunLockInDir creates a lock for root inside dir (for testing).
func NewRunLockInDir(dir, root string) *RunLock {
	hash := md5.Sum([]byte("devclean-run-" + filepath.Clean(root)))
	path := filepath.Join(dir, ".devclean_"+hex.EncodeToString(hash[:])[:12]+".lock")
	return &RunLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Path returns the lock file path.
func (l *RunLock) Path() string {
	return l.path
}

// Acquire takes the lock without blocking. It returns domain.ErrRunLocked
// when another process already holds it.
func (l *RunLock) Acquire() error {
	acquired, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to try lock on %s: %w", l.path, err)
	}
	if !acquired {
		return domain.ErrRunLocked
	}
	return nil
}

// Release drops the lock. The lock file is left in place.
func (l *RunLock) Release() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}
