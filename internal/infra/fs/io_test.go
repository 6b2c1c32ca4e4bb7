package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFsyncFile(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "test-fsync-*.txt")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())
	defer tmpFile.Close()

	testData := []byte("test data for fsync")
	if _, err := tmpFile.Write(testData); err != nil {
		t.Fatalf("Failed to write data: %v", err)
	}

	if err := FsyncFile(tmpFile); err != nil {
		t.Errorf("FsyncFile failed: %v", err)
	}

	if err := FsyncFile(nil); err == nil {
		t.Error("FsyncFile should fail with nil file")
	}
}

func TestFsyncDir(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "test-fsync-dir-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	if err := FsyncDir(tmpDir); err != nil {
		t.Errorf("FsyncDir failed: %v", err)
	}

	if err := FsyncDir(""); err == nil {
		t.Error("FsyncDir should fail with empty path")
	}

	nonExistentDir := filepath.Join(tmpDir, "non-existent")
	if err := FsyncDir(nonExistentDir); err == nil {
		t.Error("FsyncDir should fail with non-existent directory")
	}
}
