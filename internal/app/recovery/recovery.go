// Package recovery implements the document store's crash-recovery
// policy: given a base path's on-disk artifacts, reconstruct the most
// recent valid document state, regardless of which step the process was
// in when it last stopped.
package recovery

import (
	"bytes"
	"fmt"

	"github.com/spf13/afero"

	"github.com/tsukiyo-oss/journaldoc/internal/domain/apperr"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/journal"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/value"
	"github.com/tsukiyo-oss/journaldoc/internal/infra/snapshot"
)

// Paths names the three on-disk artifacts recovery reads, per spec.md
// §3's P.snapshot / P.snapshot.new / P.journal naming. It mirrors
// internal/app.Paths field-for-field but is declared independently so
// this package doesn't import internal/app, which itself wires recovery
// in at startup.
type Paths struct {
	Snapshot    string
	SnapshotNew string
	Journal     string
}

// Logger is the leveled logging interface recovery needs. Any
// internal/app.Logger value satisfies this without either package
// importing the other.
type Logger interface {
	Warn(format string, args ...interface{})
}

// Result is what Recover produces: the reconstructed document, the
// DocumentID carried in its snapshot envelope, and a note on which path
// through the recovery policy produced it — useful for the CLI's
// "doctor" diagnostic and for deciding whether to warn.
type Result struct {
	Document   value.V
	DocumentID string
	Source     Source
}

// Source names which of the three recovery steps supplied the document.
type Source int

const (
	// SourceSnapshotNew means P.snapshot.new existed and deserialized
	// cleanly: a completed serialize that crashed before the rename to
	// P.snapshot.
	SourceSnapshotNew Source = iota
	// SourceSnapshotOnly means the journal was empty, missing, corrupt,
	// schema-mismatched, or failed to apply; P.snapshot is authoritative
	// on its own.
	SourceSnapshotOnly
	// SourceSnapshotPlusJournal means the journal deserialized and
	// applied cleanly on top of the snapshot.
	SourceSnapshotPlusJournal
)

func (s Source) String() string {
	switch s {
	case SourceSnapshotNew:
		return "snapshot.new"
	case SourceSnapshotOnly:
		return "snapshot"
	case SourceSnapshotPlusJournal:
		return "snapshot+journal"
	default:
		return "unknown"
	}
}

// Recover implements spec.md §4.G's three-step policy:
//  1. P.snapshot.new, if present and valid, wins outright.
//  2. Otherwise P.snapshot is deserialized; failure here is fatal, since
//     there is no other source of truth.
//  3. The journal is then best-effort replayed on top of the snapshot;
//     any problem with it at all falls back to the snapshot alone rather
//     than surfacing an error, per spec.md's explicit "best-effort"
//     policy for this step.
func Recover(fs afero.Fs, paths Paths, typeTag string, version uint32, logger Logger) (Result, error) {
	if snapshot.Exists(fs, paths.SnapshotNew) {
		if env, err := snapshot.Read(fs, paths.SnapshotNew); err == nil {
			warnOnDocumentIDMismatch(fs, paths, env.DocumentID, logger)
			return Result{Document: env.Document, DocumentID: env.DocumentID, Source: SourceSnapshotNew}, nil
		} else if logger != nil {
			logger.Warn("recovery: %s exists but failed to deserialize, falling back to %s: %v", paths.SnapshotNew, paths.Snapshot, err)
		}
	}

	env, err := snapshot.Read(fs, paths.Snapshot)
	if err != nil {
		return Result{}, fmt.Errorf("%w: no recoverable snapshot at %s: %v", apperr.ErrFatal, paths.Snapshot, err)
	}
	root := env.Document

	j, err := readJournal(fs, paths.Journal, typeTag, version)
	if err != nil {
		if logger != nil {
			logger.Warn("recovery: journal at %s did not replay, keeping snapshot-only state: %v", paths.Journal, err)
		}
		return Result{Document: root, DocumentID: env.DocumentID, Source: SourceSnapshotOnly}, nil
	}

	replayed, err := j.ApplyTo(root)
	if err != nil {
		if logger != nil {
			logger.Warn("recovery: journal at %s failed to apply, keeping snapshot-only state: %v", paths.Journal, err)
		}
		return Result{Document: root, DocumentID: env.DocumentID, Source: SourceSnapshotOnly}, nil
	}

	return Result{Document: replayed, DocumentID: env.DocumentID, Source: SourceSnapshotPlusJournal}, nil
}

// warnOnDocumentIDMismatch compares P.snapshot.new's DocumentID against
// P.snapshot's, when the latter exists, and logs a warning on mismatch.
// This is diagnostic only, per spec.md's explicit non-goal of
// cryptographic or otherwise enforced integrity: a mismatch here usually
// just means the store was reinitialized with a fresh DocumentID between
// snapshots, not corruption.
func warnOnDocumentIDMismatch(fs afero.Fs, paths Paths, newID string, logger Logger) {
	if logger == nil || !snapshot.Exists(fs, paths.Snapshot) {
		return
	}
	prior, err := snapshot.Read(fs, paths.Snapshot)
	if err != nil {
		return
	}
	if prior.DocumentID != "" && prior.DocumentID != newID {
		logger.Warn("recovery: %s has DocumentID %q, differs from %s's %q", paths.SnapshotNew, newID, paths.Snapshot, prior.DocumentID)
	}
}

// Exists reports whether a document already has a snapshot on disk, i.e.
// whether Recover can be called at all instead of initializing a fresh
// store.
func Exists(fs afero.Fs, paths Paths) bool {
	return snapshot.Exists(fs, paths.Snapshot) || snapshot.Exists(fs, paths.SnapshotNew)
}

// readJournal loads and deserializes the journal file. Any failure to
// even read the file (commonly: it doesn't exist yet, on a brand-new
// store before its first addCommand) is reported the same as a
// deserialize failure — both mean "nothing to replay".
func readJournal(fs afero.Fs, path string, typeTag string, version uint32) (*journal.Journal, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading journal file: %v", apperr.ErrCorruptJournal, err)
	}
	return journal.Deserialize(bytes.NewReader(data), typeTag, version)
}
