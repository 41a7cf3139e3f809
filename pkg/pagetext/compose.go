package pagetext

import (
	"math"
	"strings"
	"unicode/utf8"
)

const (
	// MaxWordBytes is the longest word text a record can point at
	MaxWordBytes = math.MaxUint8
	// MaxFontSize is the largest size a record's half-point ticks can hold
	MaxFontSize = 127.5
)

// Word is one word handed to a Composer
type Word struct {
	Text         string
	Bounds       Rect
	FontSize     float64
	Attrs        Attr
	PartOfSpeech uint8
	CharCount    int // 0 means the rune count of Text
}

// Composer builds a Source one word at a time, laying the words out in the
// page text and recording each word's byte span.
type Composer struct {
	src Source
}

// NewComposer starts an empty page whose text begins at pageStart in the document text
func NewComposer(pageStart int) *Composer {
	return &Composer{src: Source{PageStart: pageStart}}
}

// AddWord appends the word's text followed by a newline when it ends a
// line, or a space when it ends a word. Text, char count and font size are
// fitted to the record fields first.
func (c *Composer) AddWord(w Word) {
	w.Text = ClipWord(w.Text)
	w.FontSize = ClampFontSize(w.FontSize)
	chars := w.CharCount
	if chars == 0 {
		chars = utf8.RuneCountInString(w.Text)
	}
	if chars > math.MaxUint8 {
		chars = math.MaxUint8
	}
	c.src.Boxes = append(c.src.Boxes, WordBox{
		Bounds:          w.Bounds,
		CharCount:       chars,
		FontSize:        w.FontSize,
		Attrs:           w.Attrs,
		PartOfSpeech:    w.PartOfSpeech,
		ContentPosition: len(c.src.Text),
		ContentLength:   len(w.Text),
	})
	c.src.Text = append(c.src.Text, w.Text...)

	switch {
	case w.Attrs.Has(EndsLine):
		c.src.Text = append(c.src.Text, '\n')
	case w.Attrs.Has(EndsWord):
		c.src.Text = append(c.src.Text, ' ')
	}
}

// ClipWord shortens text to at most MaxWordBytes, cutting at a rune boundary
func ClipWord(text string) string {
	if len(text) <= MaxWordBytes {
		return text
	}
	cut := MaxWordBytes
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// ClampFontSize limits size to what a record can hold
func ClampFontSize(size float64) float64 {
	switch {
	case size < 0 || math.IsNaN(size):
		return 0
	case size > MaxFontSize:
		return MaxFontSize
	}
	return size
}

// Len returns the number of words added so far
func (c *Composer) Len() int { return len(c.src.Boxes) }

// Source returns the composed page
func (c *Composer) Source() *Source { return &c.src }

// StartsAfter infers the begins-* attributes of a word from the punctuation
// ending the word before it. Closing quotes and brackets are looked through.
func StartsAfter(prev string) Attr {
	prev = strings.TrimRight(prev, `"')]}»”’`)
	if prev == "" {
		return 0
	}
	switch prev[len(prev)-1] {
	case '.', '!', '?':
		return BeginsSentence | BeginsPhrase
	case ',', ';', ':':
		return BeginsPhrase
	}
	return 0
}
