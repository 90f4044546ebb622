package core

// normalize.go cleans individual field values.
//
// The cleanup runs as a fixed sequence of steps, and the order is part of
// the contract: entities are decoded before tags are stripped, so encoded
// markup such as "&lt;b&gt;" is removed along with literal tags.

import (
	"strings"

	"github.com/JonMunkholm/csvprep/internal/schema"
)

// nullMarkers are values treated as missing data.
var nullMarkers = []string{"nan", "null", "n/a"}

// htmlEntities is decoded in table order. Each entity is replaced until it
// no longer occurs before moving to the next one.
var htmlEntities = []struct {
	entity      string
	replacement string
}{
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&amp;", "&"},
	{"&quot;", "\""},
	{"&apos;", "'"},
	{"&nbsp;", " "},
	{"&#39;", "'"},
	{"&#34;", "\""},
	{"&hellip;", "..."},
	{"&mdash;", "--"},
	{"&ndash;", "-"},
	{"&lsquo;", "'"},
	{"&rsquo;", "'"},
	{"&ldquo;", "\""},
	{"&rdquo;", "\""},
}

// MaxPunctuationRun is the longest run of punctuation kept in strict mode.
const MaxPunctuationRun = 3

// Normalize cleans a single field value:
//
//  1. null markers (nan, null, n/a in any case) become empty
//  2. surrounding whitespace is trimmed
//  3. HTML entities are decoded
//  4. tag-like <...> spans are removed; an unclosed '<' truncates
//  5. control bytes are dropped and whitespace runs collapse to one space
//  6. in strict mode, punctuation runs are cut to MaxPunctuationRun
//  7. results shorter than schema.MinTextLength become empty
//  8. results longer than maxLen are truncated (maxLen <= 0 disables)
//
// Normalize works on bytes; multi-byte sequences pass through untouched.
func Normalize(s string, strict bool, maxLen int) string {
	if s == "" || isNullMarker(s) {
		return ""
	}

	s = trimSpace(s)
	s = decodeEntities(s)
	s = stripTags(s)
	s = collapseWhitespace(s)

	if strict {
		s = limitPunctuation(s, MaxPunctuationRun)
	}

	if len(s) < schema.MinTextLength {
		return ""
	}
	if maxLen > 0 && len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

func isNullMarker(s string) bool {
	for _, m := range nullMarkers {
		if strings.EqualFold(s, m) {
			return true
		}
	}
	return false
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func decodeEntities(s string) string {
	if strings.IndexByte(s, '&') < 0 {
		return s
	}
	for _, e := range htmlEntities {
		for strings.Contains(s, e.entity) {
			s = strings.ReplaceAll(s, e.entity, e.replacement)
		}
	}
	return s
}

func stripTags(s string) string {
	for {
		start := strings.IndexByte(s, '<')
		if start < 0 {
			return s
		}
		end := strings.IndexByte(s[start:], '>')
		if end < 0 {
			return s[:start]
		}
		s = s[:start] + s[start+end+1:]
	}
}

// collapseWhitespace drops control bytes other than tab, CR and LF and
// folds whitespace runs into a single space. No space is emitted at the
// start of the result.
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c < 0x20 && c != '\t' && c != '\n' && c != '\r':
			// dropped
		case isSpace(c):
			if !lastSpace && b.Len() > 0 {
				b.WriteByte(' ')
				lastSpace = true
			}
		default:
			b.WriteByte(c)
			lastSpace = false
		}
	}
	return b.String()
}

func limitPunctuation(s string, max int) string {
	var b strings.Builder
	b.Grow(len(s))

	run := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isPunct(c) {
			run++
			if run <= max {
				b.WriteByte(c)
			}
			continue
		}
		run = 0
		b.WriteByte(c)
	}
	return b.String()
}

// isSpace matches the ASCII whitespace set: space, \t, \n, \v, \f, \r.
func isSpace(c byte) bool {
	return c == ' ' || (c >= '\t' && c <= '\r')
}

// isPunct matches printable ASCII that is neither a letter, a digit nor a
// space.
func isPunct(c byte) bool {
	switch {
	case c >= '!' && c <= '/':
		return true
	case c >= ':' && c <= '@':
		return true
	case c >= '[' && c <= '`':
		return true
	case c >= '{' && c <= '~':
		return true
	}
	return false
}
