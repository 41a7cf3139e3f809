package pagetext

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SearchMode selects how Search compares the needle with the page text
type SearchMode int

const (
	// SearchExact matches bytes exactly, except that any whitespace byte matches any other
	SearchExact SearchMode = iota
	// SearchCaseInsensitive is SearchExact ignoring letter case
	SearchCaseInsensitive
	// SearchWholeWord is SearchCaseInsensitive restricted to matches set off by
	// punctuation or whitespace on both sides
	SearchWholeWord
)

func (m SearchMode) String() string {
	switch m {
	case SearchExact:
		return "exact"
	case SearchCaseInsensitive:
		return "nocase"
	case SearchWholeWord:
		return "word"
	}
	return fmt.Sprintf("SearchMode(%d)", int(m))
}

// ParseSearchMode accepts the names produced by SearchMode.String
func ParseSearchMode(s string) (SearchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exact", "":
		return SearchExact, nil
	case "nocase", "case-insensitive":
		return SearchCaseInsensitive, nil
	case "word", "whole-word":
		return SearchWholeWord, nil
	}
	return 0, fmt.Errorf("unknown search mode %q", s)
}

// Match is one search hit: its byte span in the page text and the boxes covering it
type Match struct {
	Start int // First matched byte
	End   int // Byte just past the match
	Boxes []*WordBox
}

// wordBoundaryBytes may appear on either side of a whole-word match
const wordBoundaryBytes = "\n\r\f\t :;,.()[]{}\"'\\/?!"

// isSpaceByte is the byte-level whitespace predicate used by all modes
func isSpaceByte(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r', 0x1c, 0x1d, 0x1e, 0x1f:
		return true
	}
	return false
}

// sameByte compares two bytes, treating all whitespace bytes as equal
func sameByte(a, b byte) bool {
	return a == b || (isSpaceByte(a) && isSpaceByte(b))
}

// matcher describes one search variant: how a text byte is compared with
// needle byte i, and whether a candidate span is acceptable.
type matcher struct {
	size     int
	equal    func(c byte, i int) bool
	boundary func(text []byte, start, end int) bool
}

func newMatcher(needle []byte, mode SearchMode) matcher {
	m := matcher{size: len(needle)}
	switch mode {
	case SearchExact:
		m.equal = func(c byte, i int) bool { return sameByte(c, needle[i]) }
	default:
		upper := caseVariant(needle, unicode.ToUpper)
		lower := caseVariant(needle, unicode.ToLower)
		m.equal = func(c byte, i int) bool { return sameByte(c, upper[i]) || sameByte(c, lower[i]) }
	}
	if mode == SearchWholeWord {
		m.boundary = wordBoundary
	}
	return m
}

// caseVariant maps the needle rune by rune. A rune whose mapping has a
// different encoded length keeps its original bytes, so the variant stays
// aligned with the needle byte for byte.
func caseVariant(needle []byte, mapping func(rune) rune) []byte {
	v := make([]byte, 0, len(needle))
	for len(needle) > 0 {
		r, size := utf8.DecodeRune(needle)
		if m := mapping(r); r != utf8.RuneError && utf8.RuneLen(m) == size {
			v = utf8.AppendRune(v, m)
		} else {
			v = append(v, needle[:size]...)
		}
		needle = needle[size:]
	}
	return v
}

// wordBoundary checks the single bytes around text[start:end].
// The edges of the text count as a space.
func wordBoundary(text []byte, start, end int) bool {
	before, after := byte(' '), byte(' ')
	if start > 0 {
		before = text[start-1]
	}
	if end < len(text) {
		after = text[end]
	}
	return strings.IndexByte(wordBoundaryBytes, before) >= 0 &&
		strings.IndexByte(wordBoundaryBytes, after) >= 0
}

// findSpans scans text left to right and returns non-overlapping [start, end) spans
func (m matcher) findSpans(text []byte) [][2]int {
	if m.size == 0 {
		return nil
	}
	var spans [][2]int
	for p := 0; p+m.size <= len(text); {
		if m.matchesAt(text, p) {
			spans = append(spans, [2]int{p, p + m.size})
			p += m.size
			continue
		}
		p++
	}
	return spans
}

func (m matcher) matchesAt(text []byte, p int) bool {
	for i := 0; i < m.size; i++ {
		if !m.equal(text[p+i], i) {
			return false
		}
	}
	return m.boundary == nil || m.boundary(text, p, p+m.size)
}
