//go:build windows

package infra

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// checkWritable fails when dir carries the read-only attribute.
func checkWritable(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if info.Mode().Perm()&0o200 == 0 {
		return fs.ErrPermission
	}
	return nil
}

// clearReadOnly removes the read-only attribute from every entry under path
// so that DeleteFile does not refuse them.
func clearReadOnly(path string) error {
	var errs []error
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if info.Mode().Perm()&0o200 == 0 {
			if err := os.Chmod(p, info.Mode().Perm()|0o200); err != nil {
				errs = append(errs, err)
			}
		}
		return nil
	})
	return errors.Join(errs...)
}
