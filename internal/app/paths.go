package app

import (
	"path/filepath"

	"github.com/tsukiyo-oss/journaldoc/internal/app/config"
)

// Paths holds the resolved on-disk artifact locations for one journaled
// document (component F), per spec.md §3's P.snapshot / P.snapshot.new /
// P.journal naming.
type Paths struct {
	Base string // base directory holding the store's artifacts

	Snapshot    string // Base/snapshot.json
	SnapshotNew string // Base/snapshot.json.new — presence implies a crash mid-snapshot
	Journal     string // Base/journal.stream — the memory-mapped journal file
}

// ResolvePaths derives Paths from a base directory, resolving it to an
// absolute path so the store behaves the same regardless of the
// caller's working directory.
func ResolvePaths(base string) Paths {
	baseAbs, err := filepath.Abs(base)
	if err != nil {
		baseAbs = base
	}
	return Paths{
		Base:        baseAbs,
		Snapshot:    filepath.Join(baseAbs, "snapshot.json"),
		SnapshotNew: filepath.Join(baseAbs, "snapshot.json.new"),
		Journal:     filepath.Join(baseAbs, "journal.stream"),
	}
}

// ResolvePathsWithConfig derives Paths from a Config's BasePath.
func ResolvePathsWithConfig(cfg config.Config) Paths {
	return ResolvePaths(cfg.BasePath())
}
