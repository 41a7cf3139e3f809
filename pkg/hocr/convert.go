package hocr

import (
	"strings"

	"github.com/gardar/pagetext/pkg/pagetext"
)

// Sources lays out every page of doc, numbering each page's text from the
// end of the previous page's.
func Sources(doc *HOCR) []*pagetext.Source {
	sources := make([]*pagetext.Source, len(doc.Pages))
	pageStart := 0
	for i, page := range doc.Pages {
		sources[i] = ToSource(page, pageStart)
		pageStart += len(sources[i].Text)
	}
	return sources
}

// ToSource lays out the words of a page as page text. Lines end with a
// newline and words with a space. A word ending in '-' at the end of a line
// is taken as hyphenated. Sentence and phrase starts are inferred from the
// punctuation ending the previous word.
func ToSource(page Page, pageStart int) *pagetext.Source {
	c := pagetext.NewComposer(pageStart)
	prev := ""
	for i, w := range page.Words {
		text := pagetext.ClipWord(w.Text)
		endsLine := w.EndsLine || i == len(page.Words)-1

		var attrs pagetext.Attr
		switch {
		case endsLine && len(text) > 1 && strings.HasSuffix(text, "-"):
			attrs = pagetext.EndsLine | pagetext.InsertedHyphen
		case endsLine:
			attrs = pagetext.EndsLine | pagetext.EndsWord
		default:
			attrs = pagetext.EndsWord
		}
		if w.Bold {
			attrs |= pagetext.Bold
		}
		if w.Italic {
			attrs |= pagetext.Italic
		}
		attrs |= startsAttrs(w, prev)

		c.AddWord(pagetext.Word{
			Text:     text,
			Bounds:   w.BBox.Rect(),
			FontSize: w.FontSize,
			Attrs:    attrs,
		})
		prev = text
	}
	return c.Source()
}

// startsAttrs infers the begins-* attributes of a word
func startsAttrs(w Word, prev string) pagetext.Attr {
	if w.StartsParagraph {
		return pagetext.BeginsParagraph | pagetext.BeginsSentence | pagetext.BeginsPhrase
	}
	return pagetext.StartsAfter(prev)
}
