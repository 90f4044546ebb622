package core

// sniff.go inspects the start of a seekable input before the main pass:
//
//   - DetectEncoding: recognizes and skips a UTF-8 byte-order marker
//   - DetectDelimiter: picks the field delimiter from the first line
//
// Neither detector consumes input, except that a UTF-8 BOM is skipped for
// good.

import (
	"bytes"
	"fmt"
	"io"
)

// DelimiterSampleSize is the maximum number of bytes of the first line
// inspected by DetectDelimiter.
const DelimiterSampleSize = 4096

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectEncoding checks the next three bytes for a UTF-8 BOM. If found, the
// stream is left positioned after it and EncodingUTF8 is returned.
// Otherwise the position is restored and EncodingAuto is returned.
func DetectEncoding(rs io.ReadSeeker) (Encoding, error) {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return "", fmt.Errorf("sniff encoding: %w", err)
	}

	var buf [3]byte
	n, err := io.ReadFull(rs, buf[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("sniff encoding: %w", err)
	}
	if n == len(buf) && bytes.Equal(buf[:], utf8BOM) {
		return EncodingUTF8, nil
	}

	if _, err := rs.Seek(pos, io.SeekStart); err != nil {
		return "", fmt.Errorf("sniff encoding: %w", err)
	}
	return EncodingAuto, nil
}

// DetectDelimiter samples the first line and counts candidate delimiters
// outside double-quoted spans. Tab wins if present at all; semicolon wins if
// it beats both comma and pipe; pipe wins if it beats comma; comma is the
// default. The stream position is restored.
func DetectDelimiter(rs io.ReadSeeker) (byte, error) {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("sniff delimiter: %w", err)
	}

	sample := make([]byte, DelimiterSampleSize)
	n, err := io.ReadFull(rs, sample)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, fmt.Errorf("sniff delimiter: %w", err)
	}
	sample = sample[:n]

	if _, err := rs.Seek(pos, io.SeekStart); err != nil {
		return 0, fmt.Errorf("sniff delimiter: %w", err)
	}

	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		sample = sample[:i]
	}
	return chooseDelimiter(sample), nil
}

func chooseDelimiter(sample []byte) byte {
	var comma, semicolon, tab, pipe int
	inQuotes := false

	for _, c := range sample {
		if c == '"' {
			inQuotes = !inQuotes
			continue
		}
		if inQuotes {
			continue
		}
		switch c {
		case ',':
			comma++
		case ';':
			semicolon++
		case '\t':
			tab++
		case '|':
			pipe++
		}
	}

	switch {
	case tab > 0:
		return '\t'
	case semicolon > comma && semicolon > pipe:
		return ';'
	case pipe > comma:
		return '|'
	default:
		return ','
	}
}

// streamSize returns the number of bytes between the current position and
// the end of the stream, restoring the position.
func streamSize(rs io.ReadSeeker) (int64, error) {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := rs.Seek(pos, io.SeekStart); err != nil {
		return 0, err
	}
	return end - pos, nil
}
