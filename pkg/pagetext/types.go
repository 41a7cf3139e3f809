package pagetext

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
)

// Point is a position in page pixel space
type Point struct {
	X int
	Y int
}

// Rect is an integer rectangle in page pixel space.
// Width and Height are never negative for decoded boxes.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// MaxX returns the right edge (exclusive)
func (r Rect) MaxX() int { return r.X + r.Width }

// MaxY returns the bottom edge (exclusive)
func (r Rect) MaxY() int { return r.Y + r.Height }

// Empty reports whether the rectangle has no area
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether p lies inside r, edges included
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

// Intersects reports whether r and o overlap, touching edges included
func (r Rect) Intersects(o Rect) bool {
	return !(o.X > r.MaxX() || o.MaxX() < r.X || o.Y > r.MaxY() || o.MaxY() < r.Y)
}

// distance2 is the squared distance from p to the closest point of r
func (r Rect) distance2(p Point) int {
	dx, dy := 0, 0
	if p.X < r.X {
		dx = r.X - p.X
	} else if p.X > r.MaxX() {
		dx = p.X - r.MaxX()
	}
	if p.Y < r.Y {
		dy = r.Y - p.Y
	} else if p.Y > r.MaxY() {
		dy = p.Y - r.MaxY()
	}
	return dx*dx + dy*dy
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.X, r.Y, r.MaxX(), r.MaxY())
}

// Attr is the set of boolean word attributes
type Attr uint16

// The low byte mirrors the record's flags byte bit for bit.
const (
	InsertedHyphen Attr = 1 << iota
	EndsWord
	EndsLine
	Bold
	Italic
	Symbolic
	Serif
	FixedWidth
	BeginsPhrase
	BeginsSentence
	BeginsParagraph
)

// Has reports whether every attribute in a is set
func (s Attr) Has(a Attr) bool { return s&a == a }

var attrNames = []struct {
	attr Attr
	name string
}{
	{FixedWidth, "fixed-width"},
	{Serif, "serif"},
	{Symbolic, "symbolic"},
	{Italic, "italic"},
	{Bold, "bold"},
	{EndsLine, "ends-line"},
	{EndsWord, "ends-word"},
	{InsertedHyphen, "inserted-hyphen"},
	{BeginsParagraph, "begins-paragraph"},
	{BeginsSentence, "begins-sentence"},
	{BeginsPhrase, "begins-phrase"},
}

func (s Attr) String() string {
	var names []string
	for _, n := range attrNames {
		if s.Has(n.attr) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// startsAttr expands the 2-bit "starts" code of a record
func startsAttr(code byte) Attr {
	switch code & 0x3 {
	case 3:
		return BeginsParagraph | BeginsSentence | BeginsPhrase
	case 2:
		return BeginsSentence | BeginsPhrase
	case 1:
		return BeginsPhrase
	}
	return 0
}

// startsCode is the inverse of startsAttr
func startsCode(a Attr) byte {
	switch {
	case a.Has(BeginsParagraph):
		return 3
	case a.Has(BeginsSentence):
		return 2
	case a.Has(BeginsPhrase):
		return 1
	}
	return 0
}

// WordBox is one recognized word on a page
type WordBox struct {
	Bounds       Rect    // Pixel-space bounding box
	CharCount    int     // Characters of the original word (includes an inserted hyphen)
	FontSize     float64 // Font size in points
	Attrs        Attr    // Typographic and structural attributes
	PartOfSpeech uint8   // 6-bit part of speech code

	ContentPosition int // Byte offset into the page text
	ContentLength   int // Byte length in the page text
	StringPosition  int // Rune offset into the page text
	StringLength    int // Rune length of the word's text

	index int        // Position in the owning page's box slice
	text  string     // Decoded text span
	trim  *trimCache // Shared memo cell for TrimmedText
}

type trimCache struct {
	once sync.Once
	val  string
}

// Index returns the box's position in the page's record order
func (b *WordBox) Index() int { return b.index }

// Text returns the word's text as stored in the page text
func (b *WordBox) Text() string { return b.text }

// ContentEnd returns the byte offset just past the word's text
func (b *WordBox) ContentEnd() int { return b.ContentPosition + b.ContentLength }

// endKey is the ordering key of the text position index
func (b *WordBox) endKey() int { return b.ContentPosition + b.ContentLength - 1 }

// TrimmedText returns the word's text without leading or trailing
// characters that are neither letters nor digits. It is computed once.
func (b *WordBox) TrimmedText() string {
	if b.trim == nil {
		return trimWord(b.text)
	}
	b.trim.once.Do(func() {
		b.trim.val = trimWord(b.text)
	})
	return b.trim.val
}

func (b *WordBox) String() string {
	return fmt.Sprintf("WordBox<%d %s %q @%d+%d>", b.index, b.Bounds, b.text, b.ContentPosition, b.ContentLength)
}

func trimWord(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
