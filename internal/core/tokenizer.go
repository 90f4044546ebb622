package core

import "strings"

// Tokenize splits one line (without its terminator) into fields.
//
// The quote character is a single quote when the line contains one and no
// double quote, otherwise a double quote. Inside quotes a doubled quote
// character yields one literal quote and a lone one closes the span;
// outside quotes the delimiter ends a field and a quote opens a span. The
// final buffer is flushed at end of line even if a quote is left open.
//
// At most MaxFields fields are returned and each keeps at most
// MaxFieldLength bytes; anything beyond is dropped silently.
func Tokenize(line string, delim byte) []string {
	quote := byte('"')
	if strings.IndexByte(line, '\'') >= 0 && strings.IndexByte(line, '"') < 0 {
		quote = '\''
	}

	fields := make([]string, 0, 8)
	buf := make([]byte, 0, 64)
	inQuotes := false

	appendByte := func(c byte) {
		if len(buf) < MaxFieldLength {
			buf = append(buf, c)
		}
	}

	for i := 0; i < len(line) && len(fields) < MaxFields; i++ {
		c := line[i]
		switch {
		case c == quote:
			if inQuotes && i+1 < len(line) && line[i+1] == quote {
				appendByte(quote)
				i++
				continue
			}
			inQuotes = !inQuotes
		case c == delim && !inQuotes:
			fields = append(fields, string(buf))
			buf = buf[:0]
		default:
			appendByte(c)
		}
	}

	if len(fields) < MaxFields {
		fields = append(fields, string(buf))
	}
	return fields
}
