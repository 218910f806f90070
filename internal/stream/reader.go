package stream

import (
	"context"
	"io"
	"unicode/utf8"
)

// ReaderSource adapts an io.Reader into a Source that only ever yields
// whole UTF-8 sequences. Bytes of a rune split across reads are held back
// until the rest arrives, so downstream rune decoding never sees a torn
// character.
type ReaderSource struct {
	r       io.Reader
	buf     []byte
	pending []byte
}

// NewReaderSource wraps r. Reads use a fixed 4 KiB buffer.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r, buf: make([]byte, 4096)}
}

// Next returns the next chunk of complete UTF-8 text, or io.EOF at end of
// stream. At EOF any held-back bytes are flushed as-is.
func (s *ReaderSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	n, err := s.r.Read(s.buf)
	if n > 0 {
		s.pending = append(s.pending, s.buf[:n]...)
	}

	valid := completePrefix(s.pending)
	chunk := string(s.pending[:valid])
	s.pending = append(s.pending[:0:0], s.pending[valid:]...)

	if err == io.EOF && len(s.pending) > 0 {
		// Trailing bytes that never completed a rune.
		chunk += string(s.pending)
		s.pending = nil
	}
	return chunk, err
}

// completePrefix returns the length of the longest prefix of b that ends
// on a complete UTF-8 sequence. Invalid bytes count as complete (they
// decode to RuneError either way); only a truncated multi-byte sequence at
// the tail is held back.
func completePrefix(b []byte) int {
	valid := 0
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			if !utf8.FullRune(b[i:]) {
				break
			}
			i++
			valid = i
			continue
		}
		i += size
		valid = i
	}
	return valid
}
