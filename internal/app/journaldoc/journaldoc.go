// Package journaldoc implements the JournaledDocument orchestrator:
// component F, the only public surface an embedding caller touches
// directly. It wires the path parser, command framing, journal, mapped
// stream, and snapshot I/O together behind the mutation protocol and
// recovery policy described by the rest of this module.
package journaldoc

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/afero"

	"github.com/tsukiyo-oss/journaldoc/internal/app"
	"github.com/tsukiyo-oss/journaldoc/internal/app/config"
	"github.com/tsukiyo-oss/journaldoc/internal/app/recovery"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/apperr"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/journal"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/command"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/path"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/value"
	fsutil "github.com/tsukiyo-oss/journaldoc/internal/infra/fs"
	"github.com/tsukiyo-oss/journaldoc/internal/infra/mmapstream"
	"github.com/tsukiyo-oss/journaldoc/internal/infra/snapshot"
)

// Document is a journaled, crash-recoverable document store. The zero
// value is not usable; construct one with Open.
type Document struct {
	// mu serializes AddCommand, Snapshot, SnapshotIfHighWater and Close —
	// the only lock in this package, per spec.md §5.
	mu sync.Mutex

	// docMu guards root independently of mu, so reads never block behind
	// an in-flight mutation's disk I/O.
	docMu sync.RWMutex
	root  value.V

	// documentID is a uuid assigned once, at whichever Open call first
	// creates the store, and carried in every snapshot envelope
	// thereafter. It is a continuity diagnostic (see
	// internal/app/recovery's warnOnDocumentIDMismatch), not an integrity
	// mechanism.
	documentID string

	fs     afero.Fs
	cfg    config.Config
	paths  app.Paths
	logger app.Logger

	stream *mmapstream.Stream
	j      *journal.Journal

	closed bool
}

// Open reconstructs or initializes a document at cfg.BasePath() and
// leaves it ready to accept mutations. initialDocument seeds a brand-new
// store (one with no snapshot on disk yet); it is ignored when recovery
// finds existing artifacts. A null initialDocument defaults to an empty
// map.
func Open(fs afero.Fs, cfg config.Config, logger app.Logger, initialDocument value.V) (*Document, error) {
	paths := app.ResolvePathsWithConfig(cfg)
	rpaths := app.ToRecoveryPaths(paths)

	root := initialDocument
	documentID := ""
	if recovery.Exists(fs, rpaths) {
		result, err := app.RunStartupRecovery(fs, cfg, logger)
		if err != nil {
			return nil, err
		}
		root = result.Document
		documentID = result.DocumentID
	} else {
		if root.IsNull() {
			root = value.EmptyMap()
		}
		if !root.IsMap() {
			return nil, fmt.Errorf("%w: initial document must be a map", apperr.ErrFatal)
		}
	}
	if documentID == "" {
		documentID = uuid.NewString()
	}

	stream, err := mmapstream.Open(paths.Journal, cfg.Capacity(), mmapstream.Filler)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		fs:         fs,
		cfg:        cfg,
		paths:      paths,
		logger:     logger,
		root:       root,
		documentID: documentID,
		stream:     stream,
		j:          journal.New(cfg.TypeTag(), cfg.SchemaVersion(), ulid.Make().String()),
	}

	// Establish a consistent on-disk state before accepting mutations: the
	// recovered document becomes the canonical snapshot and the stream
	// starts empty with just its header, regardless of which recovery path
	// produced root.
	if err := doc.doSnapshot(); err != nil {
		stream.Close()
		return nil, err
	}

	runtime.SetFinalizer(doc, func(d *Document) {
		d.mu.Lock()
		closed := d.closed
		d.mu.Unlock()
		if !closed && d.logger != nil {
			d.logger.Warn("journaldoc: document at %s was garbage-collected without Close; snapshot may be stale", d.paths.Base)
		}
	})

	return doc, nil
}

// AddCommand sets (or numeric-adds, per the path's trailing '+') val at
// pathStr, per spec.md §4.F's write-stream -> mutate-memory ->
// append-journal protocol.
func (d *Document) AddCommand(pathStr string, val value.V) error {
	return d.addCommand(command.Command{Path: pathStr, Op: command.OpSet, Value: val})
}

// DeleteCommand removes the entry addressed by pathStr.
func (d *Document) DeleteCommand(pathStr string) error {
	return d.addCommand(command.Command{Path: pathStr, Op: command.OpDelete})
}

func (d *Document) addCommand(cmd command.Command) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return fmt.Errorf("%w: document is closed", apperr.ErrClosed)
	}

	// Validate against the current document before touching the stream:
	// an invalid path must leave no trace, per apperr.ErrInvalidPath's
	// "no document mutation performed" policy (spec.md §7).
	newRoot, err := cmd.Apply(d.currentRoot())
	if err != nil {
		return err
	}

	frame, err := command.Encode(cmd)
	if err != nil {
		return err
	}

	if _, err := d.stream.Write(frame); err != nil {
		if !errors.Is(err, apperr.ErrBufferOverflow) {
			return err
		}
		if err := d.doSnapshot(); err != nil {
			return err
		}
		// Re-validate against the post-snapshot document: nothing else can
		// have mutated it while the mutation lock is held, so this is just
		// recomputing newRoot for clarity, not a race.
		newRoot, err = cmd.Apply(d.currentRoot())
		if err != nil {
			return err
		}
		if _, err := d.stream.Write(frame); err != nil {
			return fmt.Errorf("%w: buffer overflow persisted after snapshot retry: %v", apperr.ErrFatal, err)
		}
	}

	d.docMu.Lock()
	d.root = newRoot
	d.docMu.Unlock()

	d.j.Add(cmd)
	return nil
}

// Snapshot atomically replaces the on-disk snapshot with the current
// in-memory document and resets the journal, per spec.md §4.F.
func (d *Document) Snapshot() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doSnapshot()
}

// doSnapshot implements the snapshot protocol; callers must hold mu.
func (d *Document) doSnapshot() error {
	root := d.currentRoot()

	env := snapshot.Envelope{DocumentID: d.documentID, Document: root}
	if err := snapshot.Write(d.fs, d.paths.SnapshotNew, env, d.cfg.FsyncSnapshot()); err != nil {
		return err
	}

	d.j.Clear()
	d.j.SegmentID = ulid.Make().String()
	d.stream.Clear()

	header, err := d.j.Serialize()
	if err != nil {
		return err
	}
	if _, err := d.stream.Write(header); err != nil {
		return fmt.Errorf("%w: writing journal header after snapshot: %v", apperr.ErrFatal, err)
	}

	if err := d.fs.Rename(d.paths.SnapshotNew, d.paths.Snapshot); err != nil {
		return fmt.Errorf("%w: renaming %s to %s: %v", apperr.ErrFatal, d.paths.SnapshotNew, d.paths.Snapshot, err)
	}

	// The rename itself only survives a crash once the directory entry
	// for it is synced; best-effort only, since FsyncDir needs a real
	// filesystem underneath d.fs and cfg.FsyncSnapshot() exists
	// specifically so tests against afero's in-memory Fs can skip this.
	if d.cfg.FsyncSnapshot() {
		if err := fsutil.FsyncDir(filepath.Dir(d.paths.Snapshot)); err != nil && d.logger != nil {
			d.logger.Warn("journaldoc: syncing snapshot directory: %v", err)
		}
	}
	return nil
}

// SnapshotIfHighWater snapshots only if the stream's used bytes are at or
// above cfg.HighWaterBytes(), rechecking under the mutation lock.
func (d *Document) SnapshotIfHighWater() error {
	if d.stream.Position() < d.cfg.HighWaterBytes() {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stream.Position() < d.cfg.HighWaterBytes() {
		return nil
	}
	return d.doSnapshot()
}

// Close snapshots once more, marks the document closed, and releases the
// mapped stream. Subsequent mutations fail with apperr.ErrClosed.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}

	if err := d.doSnapshot(); err != nil {
		return err
	}
	d.closed = true
	runtime.SetFinalizer(d, nil)
	return d.stream.Close()
}

// Get returns the value addressed by pathStr, without taking the
// mutation lock.
func (d *Document) Get(pathStr string) (value.V, bool, error) {
	directives, err := path.Parse(pathStr)
	if err != nil {
		return value.V{}, false, err
	}
	v, ok := path.Get(d.currentRoot(), directives)
	return v, ok, nil
}

// Root returns a deep copy of the entire document.
func (d *Document) Root() value.V {
	return value.Clone(d.currentRoot())
}

// Size reports the number of top-level keys in the document.
func (d *Document) Size() int {
	root := d.currentRoot()
	if !root.IsMap() {
		return 0
	}
	return len(root.M)
}

// DocumentID returns the uuid assigned to this store at its first Open.
func (d *Document) DocumentID() string {
	return d.documentID
}

// StreamPosition and StreamCapacity report the journal stream's current
// fill level, useful for a "doctor" diagnostic or a benchmark harness.
func (d *Document) StreamPosition() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stream.Position()
}

func (d *Document) StreamCapacity() int {
	return d.cfg.Capacity()
}

// SegmentID returns the ulid identifying the current segment: the
// pairing of the last sealed snapshot with the commands applied since.
func (d *Document) SegmentID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.j.SegmentID
}

func (d *Document) currentRoot() value.V {
	d.docMu.RLock()
	defer d.docMu.RUnlock()
	return d.root
}

// Exists reports whether a document store already has a snapshot on disk
// at basePath, i.e. whether Open will recover state rather than start
// fresh.
func Exists(fs afero.Fs, basePath string) bool {
	paths := app.ResolvePaths(basePath)
	return recovery.Exists(fs, app.ToRecoveryPaths(paths))
}

// LoadContents loads a document's current recovered contents without
// opening it for mutation, useful for read-only inspection tools.
func LoadContents(fs afero.Fs, basePath string, typeTag string, version uint32, logger app.Logger) (value.V, error) {
	paths := app.ResolvePaths(basePath)
	result, err := recovery.Recover(fs, app.ToRecoveryPaths(paths), typeTag, version, logger)
	if err != nil {
		return value.V{}, err
	}
	return result.Document, nil
}
