// Package apperr defines the typed error taxonomy shared by the path
// parser, journal, mapped stream, snapshot, document, and recovery
// packages. Call sites wrap one of the sentinels below with fmt.Errorf's
// %w so callers can branch with errors.Is/errors.As instead of matching
// strings.
package apperr

import "errors"

var (
	// ErrInvalidPath is raised by the path parser or directive construction.
	// No document mutation is performed when this is returned.
	ErrInvalidPath = errors.New("invalid path")

	// ErrBufferOverflow is raised by the mapped stream when a write would
	// exceed its fixed capacity. JournaledDocument recovers from the first
	// occurrence by snapshotting and retrying once; a second occurrence
	// escalates to ErrFatal.
	ErrBufferOverflow = errors.New("buffer overflow")

	// ErrClosed is raised by any mutating call on a closed document.
	ErrClosed = errors.New("document is closed")

	// ErrIO wraps failures from snapshot writes, renames, or stream
	// initialization. The document's in-memory state is left unchanged.
	ErrIO = errors.New("io error")

	// ErrCorruptJournal is raised by the journal's deserializer on a bad
	// header, a malformed frame, or a truncated command. The recovery
	// loader treats it as a trigger to fall back to snapshot-only state;
	// it never reaches a caller directly unless no snapshot exists either.
	ErrCorruptJournal = errors.New("corrupt journal")

	// ErrCorruptSnapshot is raised by the snapshot deserializer on invalid
	// JSON or a non-map root.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")

	// ErrSchemaMismatch is raised when a journal's (type_tag, version)
	// header does not match what the caller expects. Recovery treats it
	// identically to ErrCorruptJournal.
	ErrSchemaMismatch = errors.New("journal schema mismatch")

	// ErrFatal covers conditions with no sensible local recovery: a
	// snapshot rename failure, a second consecutive buffer overflow, or
	// an unserializable value reaching the snapshot writer.
	ErrFatal = errors.New("fatal error")
)
