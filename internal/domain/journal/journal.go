// Package journal implements the ordered, typed command list that backs
// one segment of a journaled document: the header identifying the
// document's schema, and the commands applied since the last snapshot.
package journal

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tsukiyo-oss/journaldoc/internal/domain/apperr"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/command"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/value"
)

// Journal holds a document's schema identity plus the ordered commands
// applied since the last snapshot. TypeTag and Version are checked on
// deserialize so a journal written by an incompatible build is rejected
// as ErrSchemaMismatch rather than silently misapplied. SegmentID names
// this segment — the pairing of one sealed snapshot with the commands
// applied after it — for "journaldoc doctor" diagnostics; it is carried
// through but never validated on deserialize.
type Journal struct {
	TypeTag   string
	Version   uint32
	SegmentID string
	Commands  []command.Command
}

// New constructs an empty journal for the given schema identity and
// segment id.
func New(typeTag string, version uint32, segmentID string) *Journal {
	return &Journal{TypeTag: typeTag, Version: version, SegmentID: segmentID}
}

// Add appends cmd to the in-memory command list.
func (j *Journal) Add(cmd command.Command) {
	j.Commands = append(j.Commands, cmd)
}

// Clear drops all commands, leaving the schema identity untouched. Used
// after a successful snapshot, when the commands it covers no longer
// need replaying.
func (j *Journal) Clear() {
	j.Commands = j.Commands[:0]
}

// Serialize writes the header frame followed by one frame per command.
// Like command.Encode, each frame is fully built before any byte is
// written, so a caller appending the result to the mapped stream in one
// Write call gets atomicity for free.
func (j *Journal) Serialize() ([]byte, error) {
	header, err := encodeHeader(j.TypeTag, j.Version, j.SegmentID)
	if err != nil {
		return nil, fmt.Errorf("journal: encode header: %w", err)
	}
	out := header
	for i, cmd := range j.Commands {
		frame, err := command.Encode(cmd)
		if err != nil {
			return nil, fmt.Errorf("journal: encode command %d: %w", i, err)
		}
		out = append(out, frame...)
	}
	return out, nil
}

// Deserialize reads a header from r, checks it against (expectTypeTag,
// expectVersion), then reads commands until it hits the 0x99 filler byte
// or end of stream. Any malformed command aborts with ErrCorruptJournal;
// a header mismatch raises ErrSchemaMismatch.
func Deserialize(r io.Reader, expectTypeTag string, expectVersion uint32) (*Journal, error) {
	br := bufio.NewReader(r)

	typeTag, version, segmentID, err := decodeHeader(br)
	if err != nil {
		return nil, err
	}
	if typeTag != expectTypeTag || version != expectVersion {
		return nil, fmt.Errorf("%w: journal header (%q, %d) does not match expected (%q, %d)",
			apperr.ErrSchemaMismatch, typeTag, version, expectTypeTag, expectVersion)
	}

	j := New(typeTag, version, segmentID)
	for {
		b, err := br.Peek(1)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: scanning for next command: %v", apperr.ErrCorruptJournal, err)
		}
		if b[0] == command.Filler {
			break
		}
		cmd, err := command.Decode(br)
		if err != nil {
			return nil, err
		}
		j.Add(cmd)
	}
	return j, nil
}

// ApplyTo folds every command in order over root, returning the resulting
// document. Any command that fails to apply aborts the whole fold and
// returns its error; the caller's original root is never partially
// mutated since value.V mutation is purely functional.
func (j *Journal) ApplyTo(root value.V) (value.V, error) {
	out := root
	for i, cmd := range j.Commands {
		var err error
		out, err = cmd.Apply(out)
		if err != nil {
			return value.V{}, fmt.Errorf("journal: apply command %d (%s): %w", i, cmd, err)
		}
	}
	return out, nil
}

func encodeHeader(typeTag string, version uint32, segmentID string) ([]byte, error) {
	cmd := command.Command{
		Op: command.OpSet,
		Value: value.List(
			value.String(typeTag),
			value.Int(int64(version)),
			value.String(segmentID),
		),
	}
	return command.Encode(cmd)
}

func decodeHeader(r *bufio.Reader) (typeTag string, version uint32, segmentID string, err error) {
	cmd, err := command.Decode(r)
	if err != nil {
		return "", 0, "", fmt.Errorf("journal: decode header: %w", err)
	}
	if cmd.Value.Kind != value.KindList || len(cmd.Value.L) < 2 {
		return "", 0, "", fmt.Errorf("%w: journal header payload is malformed", apperr.ErrCorruptJournal)
	}
	tag := cmd.Value.L[0]
	ver := cmd.Value.L[1]
	if tag.Kind != value.KindString || ver.Kind != value.KindInt {
		return "", 0, "", fmt.Errorf("%w: journal header fields have the wrong type", apperr.ErrCorruptJournal)
	}
	if ver.I < 0 || ver.I > int64(^uint32(0)) {
		return "", 0, "", fmt.Errorf("%w: journal header version %d out of range", apperr.ErrCorruptJournal, ver.I)
	}
	if len(cmd.Value.L) >= 3 && cmd.Value.L[2].Kind == value.KindString {
		segmentID = cmd.Value.L[2].S
	}
	return tag.S, uint32(ver.I), segmentID, nil
}
