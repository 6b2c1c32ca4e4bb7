// Package mmapstream implements the append-only, fixed-capacity,
// memory-mapped byte sink the journal writes its frames into. The
// mapping itself is platform-specific (see stream_unix.go,
// stream_windows.go); this file holds the shared contract and state.
package mmapstream

import (
	"fmt"
	"os"

	"github.com/tsukiyo-oss/journaldoc/internal/domain/apperr"
)

// Filler is the byte a freshly-opened or cleared stream is filled with.
const Filler = 0x99

// mapping is the platform-specific half of Stream: the actual mapped
// byte slice and whatever teardown its OS requires.
type mapping interface {
	bytes() []byte
	close() error
}

// Stream is a fixed-capacity, append-only byte sink backed by a memory
// mapped file. It is not safe for concurrent use; callers serialize
// access themselves (see internal/app/journaldoc's single mutation
// mutex).
type Stream struct {
	file     *os.File
	capacity int
	fill     byte
	pos      int
	m        mapping
}

// Open creates (or truncates and reopens) the file at path to exactly
// capacity bytes, fills it entirely with fill, and maps it. Position
// starts at 0.
func Open(path string, capacity int, fill byte) (*Stream, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: mmapstream capacity must be positive, got %d", apperr.ErrInvalidPath, capacity)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: opening stream file: %v", apperr.ErrIO, err)
	}
	if err := f.Truncate(int64(capacity)); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: sizing stream file: %v", apperr.ErrIO, err)
	}

	m, err := mapFile(f, capacity)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: mapping stream file: %v", apperr.ErrIO, err)
	}

	s := &Stream{file: f, capacity: capacity, fill: fill, m: m}
	s.fillFrom(0)
	return s, nil
}

// BytesRemaining reports how many bytes can still be written before the
// stream's capacity is exhausted.
func (s *Stream) BytesRemaining() int {
	return s.capacity - s.pos
}

// Position reports the current write offset.
func (s *Stream) Position() int {
	return s.pos
}

// Write appends b to the stream if it fits in the remaining capacity.
// On overflow it returns apperr.ErrBufferOverflow and leaves position and
// contents entirely unchanged — no partial write ever reaches the
// mapping.
func (s *Stream) Write(b []byte) (int, error) {
	if len(b) > s.BytesRemaining() {
		return 0, fmt.Errorf("%w: writing %d bytes with only %d remaining", apperr.ErrBufferOverflow, len(b), s.BytesRemaining())
	}
	copy(s.m.bytes()[s.pos:s.pos+len(b)], b)
	s.pos += len(b)
	return len(b), nil
}

// Clear resets position to 0 and overwrites the whole buffer with fill.
func (s *Stream) Clear() {
	s.pos = 0
	s.fillFrom(0)
}

func (s *Stream) fillFrom(offset int) {
	buf := s.m.bytes()
	for i := offset; i < len(buf); i++ {
		buf[i] = s.fill
	}
}

// Close unmaps and closes the backing file.
func (s *Stream) Close() error {
	if err := s.m.close(); err != nil {
		s.file.Close()
		return fmt.Errorf("%w: unmapping stream file: %v", apperr.ErrIO, err)
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("%w: closing stream file: %v", apperr.ErrIO, err)
	}
	return nil
}
