// Package snapshot implements JSON serialization of the document root to
// and from disk, through an afero.Fs so callers can test against an
// in-memory filesystem without touching the real one.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/tsukiyo-oss/journaldoc/internal/domain/apperr"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/value"
)

// Envelope is what actually gets written to disk: the document plus a
// stable DocumentID (a uuid, assigned once at construction) that lets
// recovery warn on an unexpected identity change across restarts without
// being fatal about it — the store has no multi-writer coordination to
// protect, so this is a diagnostic, not an integrity guarantee.
type Envelope struct {
	DocumentID string
	Document   value.V
}

type envelopeJSON struct {
	DocumentID string          `json:"document_id"`
	Document   json.RawMessage `json:"document"`
}

// Write renders env as JSON and writes it to path. When fsync is true,
// the payload is synced to disk before the file is closed, so a reader
// never observes a partially-written snapshot surviving a crash; callers
// that only need this for fast, throwaway tests against an in-memory
// filesystem can pass false (config.Config.FsyncSnapshot). Unlike a
// general-purpose atomic writer, Write targets path exactly rather than
// a randomly-named temp file — the caller (component F) is responsible
// for writing to the conventional "*.new" name and renaming it into
// place once this returns successfully, since recovery needs to
// recognize that exact name.
func Write(fs afero.Fs, path string, env Envelope, fsync bool) error {
	docData, err := env.Document.MarshalJSON()
	if err != nil {
		return fmt.Errorf("%w: marshaling snapshot document: %v", apperr.ErrFatal, err)
	}
	data, err := json.Marshal(envelopeJSON{DocumentID: env.DocumentID, Document: docData})
	if err != nil {
		return fmt.Errorf("%w: marshaling snapshot envelope: %v", apperr.ErrFatal, err)
	}

	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating snapshot directory %s: %v", apperr.ErrIO, dir, err)
	}

	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: opening snapshot file: %v", apperr.ErrIO, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("%w: writing snapshot file: %v", apperr.ErrIO, err)
	}
	if fsync {
		if syncer, ok := f.(interface{ Sync() error }); ok {
			if err := syncer.Sync(); err != nil {
				f.Close()
				return fmt.Errorf("%w: syncing snapshot file: %v", apperr.ErrIO, err)
			}
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: closing snapshot file: %v", apperr.ErrIO, err)
	}
	return nil
}

// Read loads and parses the JSON envelope at path. A document that is not
// a JSON object, or JSON that fails to parse at all, is reported as
// ErrCorruptSnapshot.
func Read(fs afero.Fs, path string) (Envelope, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: reading snapshot file: %v", apperr.ErrIO, err)
	}

	var raw envelopeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return Envelope{}, fmt.Errorf("%w: parsing snapshot JSON: %v", apperr.ErrCorruptSnapshot, err)
	}
	var root value.V
	if err := json.Unmarshal(raw.Document, &root); err != nil {
		return Envelope{}, fmt.Errorf("%w: parsing snapshot document: %v", apperr.ErrCorruptSnapshot, err)
	}
	if !root.IsMap() {
		return Envelope{}, fmt.Errorf("%w: snapshot root is not a JSON object", apperr.ErrCorruptSnapshot)
	}
	return Envelope{DocumentID: raw.DocumentID, Document: root}, nil
}

// Exists reports whether a snapshot file is present at path.
func Exists(fs afero.Fs, path string) bool {
	ok, err := afero.Exists(fs, path)
	return err == nil && ok
}
