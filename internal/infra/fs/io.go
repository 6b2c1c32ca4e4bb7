// Package fs holds the low-level fsync primitives the snapshot protocol
// relies on for crash durability: fsync(file) before a rename is
// trusted, then fsync(parent dir) so the rename itself survives a
// crash. Everything above this level (atomic-write-then-rename,
// mapped-stream I/O) is specific to journaldoc and lives in its own
// package; this one stays deliberately small.
package fs

import (
	"fmt"
	"os"
)

// FsyncFile syncs file contents and metadata to disk.
func FsyncFile(f *os.File) error {
	if f == nil {
		return fmt.Errorf("FsyncFile: file is nil")
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("FsyncFile: failed to sync file %s: %w", f.Name(), err)
	}
	return nil
}

// FsyncDir syncs a directory's metadata to disk. Call this after a
// rename into that directory: the rename is only durable once the
// directory entry pointing at it is synced too.
func FsyncDir(dirPath string) error {
	if dirPath == "" {
		return fmt.Errorf("FsyncDir: directory path is empty")
	}

	dir, err := os.Open(dirPath)
	if err != nil {
		return fmt.Errorf("FsyncDir: failed to open directory %s: %w", dirPath, err)
	}
	defer dir.Close()

	if err := dir.Sync(); err != nil {
		return fmt.Errorf("FsyncDir: failed to sync directory %s: %w", dirPath, err)
	}
	return nil
}
