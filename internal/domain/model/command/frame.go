package command

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tsukiyo-oss/journaldoc/internal/domain/apperr"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/value"
)

// Marker is the fixed first byte of every command frame. It is chosen to
// never collide with the journal's 0x99 filler sentinel, so a reader can
// tell "here begins a real frame" from "this is unused tail space" by
// looking at a single byte.
const Marker byte = 0x01

// Filler is the byte the mapped stream pads unused capacity with.
const Filler byte = 0x99

// Encode renders cmd as one self-delimiting frame:
// marker(1) + uvarint(payload length) + msgpack([]interface{path, op, value}).
// The entire frame is built in memory before any byte reaches the caller,
// so a caller that only appends the result to a stream in one Write call
// gets the "atomic at the stream level" guarantee spec.md §4.B requires
// for free: either the whole frame lands, or none of it does.
func Encode(cmd Command) ([]byte, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	var payload bytes.Buffer
	enc := msgpack.NewEncoder(&payload)
	if err := enc.EncodeArrayLen(3); err != nil {
		return nil, fmt.Errorf("command: encode frame: %w", err)
	}
	if err := enc.EncodeString(cmd.Path); err != nil {
		return nil, fmt.Errorf("command: encode frame: %w", err)
	}
	if err := enc.EncodeUint64(uint64(cmd.Op)); err != nil {
		return nil, fmt.Errorf("command: encode frame: %w", err)
	}
	if cmd.Op == OpDelete {
		if err := enc.EncodeNil(); err != nil {
			return nil, fmt.Errorf("command: encode frame: %w", err)
		}
	} else if err := value.EncodeMsgpack(enc, cmd.Value); err != nil {
		return nil, fmt.Errorf("command: encode frame: %w", err)
	}

	var frame bytes.Buffer
	frame.WriteByte(Marker)
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(payload.Len()))
	frame.Write(lenBuf[:n])
	frame.Write(payload.Bytes())
	return frame.Bytes(), nil
}

// Decode reads exactly one frame from r, which must be positioned at a
// marker byte (callers scanning a stream check for Filler themselves
// before calling Decode — see journal.Deserialize). It returns
// apperr.ErrCorruptJournal wrapping any structural problem: wrong marker,
// a length prefix with no matching payload, or a malformed msgpack body.
func Decode(r *bufio.Reader) (Command, error) {
	marker, err := r.ReadByte()
	if err != nil {
		return Command{}, fmt.Errorf("%w: reading frame marker: %v", apperr.ErrCorruptJournal, err)
	}
	if marker != Marker {
		return Command{}, fmt.Errorf("%w: expected frame marker 0x%02x, got 0x%02x", apperr.ErrCorruptJournal, Marker, marker)
	}

	length, err := binary.ReadUvarint(r)
	if err != nil {
		return Command{}, fmt.Errorf("%w: reading frame length: %v", apperr.ErrCorruptJournal, err)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Command{}, fmt.Errorf("%w: reading frame payload: %v", apperr.ErrCorruptJournal, err)
	}

	dec := msgpack.NewDecoder(bytes.NewReader(payload))
	arrLen, err := dec.DecodeArrayLen()
	if err != nil || arrLen != 3 {
		return Command{}, fmt.Errorf("%w: frame payload is not a 3-element array", apperr.ErrCorruptJournal)
	}
	p, err := dec.DecodeString()
	if err != nil {
		return Command{}, fmt.Errorf("%w: decoding frame path: %v", apperr.ErrCorruptJournal, err)
	}
	opRaw, err := dec.DecodeUint64()
	if err != nil {
		return Command{}, fmt.Errorf("%w: decoding frame op: %v", apperr.ErrCorruptJournal, err)
	}
	op := Op(opRaw)
	if op != OpSet && op != OpDelete {
		return Command{}, fmt.Errorf("%w: unknown frame op %d", apperr.ErrCorruptJournal, op)
	}

	var val value.V
	if op == OpDelete {
		if err := dec.DecodeNil(); err != nil {
			return Command{}, fmt.Errorf("%w: decoding frame delete marker: %v", apperr.ErrCorruptJournal, err)
		}
	} else {
		val, err = value.DecodeMsgpack(dec)
		if err != nil {
			return Command{}, fmt.Errorf("%w: decoding frame value: %v", apperr.ErrCorruptJournal, err)
		}
	}

	return Command{Path: p, Op: op, Value: val}, nil
}
