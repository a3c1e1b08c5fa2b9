// Package safefile opens log and config files without following symlinks
// into special files.
package safefile

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNotRegularFile is returned when a path names a symlink, FIFO, device,
// socket or directory instead of a regular file.
var ErrNotRegularFile = errors.New("not a regular file")

// ErrTooLarge is returned by ReadRegular when a file exceeds its size limit.
var ErrTooLarge = errors.New("file too large")

// OpenRegular opens path for reading and verifies it is a regular file.
//
// The path is checked with Lstat before opening, so a symlink is rejected
// rather than followed, and the open descriptor is checked again so a file
// swapped between the two steps is caught. A small window remains between
// Lstat and Open; the standard library has no portable O_NOFOLLOW.
//
// On success the caller must close the returned file.
func OpenRegular(path string) (*os.File, os.FileInfo, error) {
	linkInfo, err := os.Lstat(path)
	if err != nil {
		return nil, nil, err
	}
	if !linkInfo.Mode().IsRegular() {
		return nil, nil, ErrNotRegularFile
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, ErrNotRegularFile
	}

	return f, info, nil
}

// ReadRegular reads a whole regular file of at most max bytes.
// Growth of the file between stat and read is caught by the bounded read.
func ReadRegular(path string, max int64) ([]byte, error) {
	f, info, err := OpenRegular(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if info.Size() > max {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, info.Size(), max)
	}

	data, err := io.ReadAll(io.LimitReader(f, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, max)
	}
	return data, nil
}
