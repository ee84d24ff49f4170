//go:build !windows

package infra

import "golang.org/x/sys/unix"

// checkWritable asks the kernel whether the effective user may create and
// unlink entries in dir, which needs both write and search permission.
func checkWritable(dir string) error {
	return unix.Access(dir, unix.W_OK|unix.X_OK)
}

// clearReadOnly is a no-op: unlinking on Unix depends on the parent
// directory's mode, which checkWritable already covers.
func clearReadOnly(string) error {
	return nil
}
