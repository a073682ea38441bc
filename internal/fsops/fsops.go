package fsops

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

// CheckWritable checks if a path is writable
func CheckWritable(fs afero.Fs, path string) error {
	testFile := path + string(os.PathSeparator) + ".write_test"
	f, err := fs.Create(testFile)
	if err != nil {
		return fmt.Errorf("path not writable: %w", err)
	}
	f.Close()
	fs.Remove(testFile)
	return nil
}

// EnsureDir ensures a directory exists with the given permissions.
// An existing directory is not an error.
func EnsureDir(fs afero.Fs, path string, perm os.FileMode) error {
	if err := fs.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("ensure directory: %w", err)
	}
	return nil
}

// Exists checks if a path exists
func Exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// IsDir checks if a path is a directory
func IsDir(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// UpToDate reports whether dst can be considered a current copy of src:
// same size and a modification time no older than the source's.
func UpToDate(src, dst os.FileInfo) bool {
	if src == nil || dst == nil {
		return false
	}
	if src.Size() != dst.Size() {
		return false
	}
	return !dst.ModTime().Before(src.ModTime())
}

// IsReadOnly reports whether the owner write bit is cleared
func IsReadOnly(info os.FileInfo) bool {
	return info.Mode().Perm()&0200 == 0
}

// ClearReadOnly sets the owner write bit on path when it is missing
func ClearReadOnly(fs afero.Fs, path string) error {
	info, err := fs.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !IsReadOnly(info) {
		return nil
	}
	if err := fs.Chmod(path, info.Mode().Perm()|0200); err != nil {
		return fmt.Errorf("clear read-only %s: %w", path, err)
	}
	return nil
}

// CopyFile copies a file from src to dst, truncating dst when it exists
func CopyFile(fs afero.Fs, src, dst string) (err error) {
	srcFile, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer srcFile.Close()

	info, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	dstFile, err := fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm()|0200)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	defer func() {
		if cerr := dstFile.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close destination: %w", cerr)
		}
	}()

	if _, err = io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("write destination: %w", err)
	}

	return nil
}
