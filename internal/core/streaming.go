package core

// streaming.go provides the readers used by the pipeline's main pass:
//
//   - CountingReader: tracks bytes read for progress reporting
//   - lineReader: yields physical lines bounded to MaxLineLength bytes
//
// Memory use stays O(MaxLineLength) regardless of input size.

import (
	"bufio"
	"io"
)

// CountingReader wraps an io.Reader to track bytes read.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
	Total     int64 // If known (0 if unknown)
}

// NewCountingReader creates a counting reader with optional total size.
func NewCountingReader(r io.Reader, total int64) *CountingReader {
	return &CountingReader{
		reader: r,
		Total:  total,
	}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	return n, err
}

// lineReader reads '\n'-terminated lines. Each returned line holds at most
// max-1 bytes including its terminator; the remainder of a longer physical
// line is read and discarded.
type lineReader struct {
	br  *bufio.Reader
	buf []byte
	max int
}

func newLineReader(r io.Reader, max int) *lineReader {
	return &lineReader{
		br:  bufio.NewReaderSize(r, 64*1024),
		buf: make([]byte, 0, max),
		max: max,
	}
}

// Next returns the next line, terminator included if one was read.
// Returns io.EOF once no bytes remain.
func (l *lineReader) Next() ([]byte, error) {
	l.buf = l.buf[:0]
	readAny := false
	limit := l.max - 1

	for {
		chunk, err := l.br.ReadSlice('\n')
		if len(chunk) > 0 {
			readAny = true
			if room := limit - len(l.buf); room > 0 {
				if len(chunk) > room {
					chunk = chunk[:room]
				}
				l.buf = append(l.buf, chunk...)
			}
		}

		switch err {
		case nil:
			return l.buf, nil
		case bufio.ErrBufferFull:
			continue
		case io.EOF:
			if readAny {
				return l.buf, nil
			}
			return nil, io.EOF
		default:
			return nil, err
		}
	}
}

// Skip discards the next line. Returns io.EOF when none remain.
func (l *lineReader) Skip() error {
	_, err := l.Next()
	return err
}
