package core

// streaming.go normalizes uploaded bytes before CSV parsing.
//
// Spreadsheet exports frequently start with a UTF-8 byte order mark and may
// contain bytes from legacy code pages. The BOM is dropped and every invalid
// byte is replaced with '?' so parsing never fails on encoding alone. Both
// readers stream: memory use is bounded by the read chunk size.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const sanitizeChunk = 32 * 1024

// NewBOMSkippingReader returns a reader that drops a leading UTF-8 BOM.
func NewBOMSkippingReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// StreamingUTF8Sanitizer replaces invalid UTF-8 bytes with '?' as it reads.
// Multi-byte sequences split across reads are held back until complete.
type StreamingUTF8Sanitizer struct {
	src     io.Reader
	buf     []byte
	pending []byte
	out     []byte
	err     error
}

// NewStreamingUTF8Sanitizer wraps r.
func NewStreamingUTF8Sanitizer(r io.Reader) *StreamingUTF8Sanitizer {
	return &StreamingUTF8Sanitizer{
		src: r,
		buf: make([]byte, utf8.UTFMax+sanitizeChunk),
	}
}

// Read implements io.Reader.
func (s *StreamingUTF8Sanitizer) Read(p []byte) (int, error) {
	for len(s.out) == 0 {
		if s.err != nil {
			return 0, s.err
		}

		n := copy(s.buf, s.pending)
		m, err := s.src.Read(s.buf[n:])
		s.err = err
		data := s.buf[:n+m]

		hold := 0
		if err == nil {
			hold = incompleteTrailingBytes(data)
		}
		s.out = sanitizeUTF8(s.out[:0], data[:len(data)-hold])
		s.pending = append(s.pending[:0], data[len(data)-hold:]...)
	}

	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

// sanitizeUTF8 appends data to dst with invalid bytes replaced by '?'.
func sanitizeUTF8(dst, data []byte) []byte {
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			dst = append(dst, '?')
		} else {
			dst = append(dst, data[:size]...)
		}
		data = data[size:]
	}
	return dst
}

// incompleteTrailingBytes returns the number of bytes at the end of data
// that start a multi-byte sequence not yet complete.
func incompleteTrailingBytes(data []byte) int {
	for i := 1; i < utf8.UTFMax && i <= len(data); i++ {
		tail := data[len(data)-i:]
		if utf8.RuneStart(tail[0]) {
			if utf8.FullRune(tail) {
				return 0
			}
			return i
		}
	}
	return 0
}

// WrapForStreaming applies BOM skipping then UTF-8 sanitization.
func WrapForStreaming(r io.Reader) io.Reader {
	return NewStreamingUTF8Sanitizer(NewBOMSkippingReader(r))
}
