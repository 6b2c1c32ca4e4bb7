package app

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/tsukiyo-oss/journaldoc/internal/app/config"
	"github.com/tsukiyo-oss/journaldoc/internal/app/recovery"
)

// ToRecoveryPaths converts a Paths into the Paths shape
// internal/app/recovery expects, without either package importing the
// other.
func ToRecoveryPaths(p Paths) recovery.Paths {
	return recovery.Paths{Snapshot: p.Snapshot, SnapshotNew: p.SnapshotNew, Journal: p.Journal}
}

// RunStartupRecovery reconstructs a journaled document's state from its
// on-disk artifacts at process start, per spec.md §4.G. It must run
// before any AddCommand is accepted; component F's Open and the CLI's
// doctor subcommand both call this rather than building recovery.Paths
// themselves.
func RunStartupRecovery(fs afero.Fs, cfg config.Config, logger Logger) (recovery.Result, error) {
	rpaths := ToRecoveryPaths(ResolvePathsWithConfig(cfg))

	result, err := recovery.Recover(fs, rpaths, cfg.TypeTag(), cfg.SchemaVersion(), logger)
	if err != nil {
		return recovery.Result{}, fmt.Errorf("startup recovery failed: %w", err)
	}

	if logger != nil {
		logger.Info("startup recovery: reconstructed document from %s", result.Source)
	}

	return result, nil
}
