package gdocai

import (
	"math"
	"sort"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/pagetext/pkg/pagetext"
)

// DocumentFromProto converts a Document AI response into our structure,
// laying each page's tokens out as a bbox stream source
func DocumentFromProto(doc *documentaipb.Document) *Document {
	text := []rune(doc.GetText())
	result := &Document{Raw: doc, Text: doc.GetText()}

	for i, page := range doc.GetPages() {
		number := int(page.GetPageNumber())
		if number == 0 {
			number = i + 1
		}
		result.Pages = append(result.Pages, &Page{DocumentaiObject: page, PageNumber: number})
	}

	// Sort pages by number so page text offsets follow the page order
	sort.SliceStable(result.Pages, func(i, j int) bool {
		return result.Pages[i].PageNumber < result.Pages[j].PageNumber
	})

	pageStart := 0
	for _, p := range result.Pages {
		p.Text = textFromLayout(p.DocumentaiObject.GetLayout(), text)
		p.Source = pageSource(p.DocumentaiObject, text, pageStart)
		pageStart += len(p.Source.Text)
	}
	return result
}

// PageSources lays out every page of a Document AI response as a bbox
// stream source, in page order
func PageSources(doc *documentaipb.Document) []*pagetext.Source {
	pages := DocumentFromProto(doc).Pages
	sources := make([]*pagetext.Source, len(pages))
	for i, p := range pages {
		sources[i] = p.Source
	}
	return sources
}

// pageSource converts the tokens of one page into words. Break types decide
// how a word ends, line and paragraph membership decide where lines end and
// paragraphs begin, and style info supplies the font attributes.
func pageSource(page *documentaipb.Document_Page, text []rune, pageStart int) *pagetext.Source {
	lines := newSpanIndex(layoutsOf(page.GetLines()))
	paragraphs := newSpanIndex(layoutsOf(page.GetParagraphs()))
	tokens := page.GetTokens()

	c := pagetext.NewComposer(pageStart)
	prev, prevParagraph := "", -1
	for i, token := range tokens {
		word := strings.TrimSpace(textFromLayout(token.GetLayout(), text))
		if word == "" {
			continue
		}
		start, _, _ := layoutSpan(token.GetLayout())
		line := lines.find(start)

		// The last token of a line, or of the page, ends the line
		endsLine := i == len(tokens)-1
		if !endsLine && line >= 0 {
			next, _, _ := layoutSpan(tokens[i+1].GetLayout())
			endsLine = lines.find(next) != line
		}

		var attrs pagetext.Attr
		switch token.GetDetectedBreak().GetType() {
		case documentaipb.Document_Page_Token_DetectedBreak_HYPHEN:
			attrs = pagetext.InsertedHyphen
		case documentaipb.Document_Page_Token_DetectedBreak_SPACE,
			documentaipb.Document_Page_Token_DetectedBreak_WIDE_SPACE:
			attrs = pagetext.EndsWord
		}
		if endsLine {
			attrs |= pagetext.EndsLine
			if !attrs.Has(pagetext.InsertedHyphen) {
				attrs |= pagetext.EndsWord
			}
		}

		// Paragraph starts come from the layout, the rest from punctuation
		if p := paragraphs.find(start); p != prevParagraph && p >= 0 || prev == "" {
			attrs |= pagetext.BeginsParagraph | pagetext.BeginsSentence | pagetext.BeginsPhrase
			prevParagraph = p
		} else {
			attrs |= pagetext.StartsAfter(prev)
		}

		size, style := fontStyle(token.GetStyleInfo())
		c.AddWord(pagetext.Word{
			Text:     word,
			Bounds:   pixelRect(token.GetLayout(), page.GetDimension()),
			FontSize: size,
			Attrs:    attrs | style,
		})
		prev = word
	}
	return c.Source()
}

// fontStyle maps Document AI style info to a font size and attributes
func fontStyle(info *documentaipb.Document_Page_Token_StyleInfo) (float64, pagetext.Attr) {
	if info == nil {
		return 0, 0
	}
	var attrs pagetext.Attr
	if info.GetBold() || info.GetFontWeight() >= 700 {
		attrs |= pagetext.Bold
	}
	if info.GetItalic() {
		attrs |= pagetext.Italic
	}
	fontType := strings.ToLower(info.GetFontType())
	switch {
	case strings.Contains(fontType, "mono"):
		attrs |= pagetext.FixedWidth
	case strings.Contains(fontType, "serif") && !strings.Contains(fontType, "sans"):
		attrs |= pagetext.Serif
	}

	return pagetext.ClampFontSize(float64(info.GetFontSize())), attrs
}

// pixelRect converts a layout's bounding polygon to a pixel rectangle.
// Normalized vertices are scaled by the page dimension; pixel vertices are
// used as they are.
func pixelRect(layout *documentaipb.Document_Page_Layout, dim *documentaipb.Document_Page_Dimension) pagetext.Rect {
	poly := layout.GetBoundingPoly()
	var xs, ys []float64
	if nv := poly.GetNormalizedVertices(); len(nv) > 0 && dim != nil {
		for _, v := range nv {
			xs = append(xs, float64(v.GetX())*float64(dim.GetWidth()))
			ys = append(ys, float64(v.GetY())*float64(dim.GetHeight()))
		}
	} else {
		for _, v := range poly.GetVertices() {
			xs = append(xs, float64(v.GetX()))
			ys = append(ys, float64(v.GetY()))
		}
	}
	if len(xs) == 0 {
		return pagetext.Rect{}
	}

	minX, maxX := bounds(xs)
	minY, maxY := bounds(ys)
	x1, y1 := int(math.Round(math.Max(minX, 0))), int(math.Round(math.Max(minY, 0)))
	x2, y2 := int(math.Round(math.Max(maxX, 0))), int(math.Round(math.Max(maxY, 0)))
	return pagetext.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

func bounds(vs []float64) (lo, hi float64) {
	lo, hi = vs[0], vs[0]
	for _, v := range vs[1:] {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	return lo, hi
}

// layoutHolder is any page element with a layout
type layoutHolder interface {
	GetLayout() *documentaipb.Document_Page_Layout
}

func layoutsOf[T layoutHolder](elems []T) []*documentaipb.Document_Page_Layout {
	result := make([]*documentaipb.Document_Page_Layout, len(elems))
	for i, e := range elems {
		result[i] = e.GetLayout()
	}
	return result
}

// spanIndex finds which element's text span holds a text index
type spanIndex struct {
	starts, ends []int64
	ids          []int
}

func newSpanIndex(layouts []*documentaipb.Document_Page_Layout) *spanIndex {
	idx := &spanIndex{}
	for i, l := range layouts {
		start, end, ok := layoutSpan(l)
		if !ok {
			continue
		}
		idx.starts = append(idx.starts, start)
		idx.ends = append(idx.ends, end)
		idx.ids = append(idx.ids, i)
	}
	sort.Sort(idx)
	return idx
}

func (s *spanIndex) Len() int           { return len(s.starts) }
func (s *spanIndex) Less(i, j int) bool { return s.starts[i] < s.starts[j] }
func (s *spanIndex) Swap(i, j int) {
	s.starts[i], s.starts[j] = s.starts[j], s.starts[i]
	s.ends[i], s.ends[j] = s.ends[j], s.ends[i]
	s.ids[i], s.ids[j] = s.ids[j], s.ids[i]
}

// find returns the element whose span contains pos, or -1
func (s *spanIndex) find(pos int64) int {
	i := sort.Search(len(s.starts), func(i int) bool { return s.starts[i] > pos }) - 1
	if i < 0 || pos >= s.ends[i] {
		return -1
	}
	return s.ids[i]
}
