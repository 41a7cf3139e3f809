package pagetext

import (
	"sort"
)

// PageText is the decoded text of one page together with its three indexes.
// The page owns its boxes; the indexes refer to them by position. A PageText
// is immutable once returned and safe for concurrent readers.
type PageText struct {
	page      int
	pageStart int
	text      []byte
	boxes     []WordBox

	byPosition *TextPositionIndex
	byWord     *AlphabeticalIndex
	spatial    SpatialIndex

	diagnostics []error
}

// newPageText indexes boxes and publishes the page. boxes must already carry
// their text, string positions and memo cells.
func newPageText(page, pageStart int, text []byte, boxes []WordBox, diagnostics []error, cfg Config) *PageText {
	pt := &PageText{
		page:        page,
		pageStart:   pageStart,
		text:        text,
		boxes:       boxes,
		byPosition:  newTextPositionIndex(boxes),
		byWord:      newAlphabeticalIndex(boxes),
		spatial:     cfg.NewSpatialIndex(),
		diagnostics: diagnostics,
	}

	// Batch-build the spatial index over boxes that have an area
	var bounds Rect
	items := make([]SpatialItem, 0, len(boxes))
	for i := range boxes {
		r := boxes[i].Bounds
		if r.Empty() {
			continue
		}
		if r.MaxX() > bounds.Width {
			bounds.Width = r.MaxX()
		}
		if r.MaxY() > bounds.Height {
			bounds.Height = r.MaxY()
		}
		items = append(items, SpatialItem{Rect: r, Index: i})
	}
	pt.spatial.Build(bounds, items)
	return pt
}

// Empty returns a page with no text and no boxes. Pages whose text cannot
// be decoded are replaced by it.
func Empty(page int) *PageText {
	return newPageText(page, 0, nil, nil, nil, DefaultConfig())
}

// PageIndex returns the zero-based page number
func (pt *PageText) PageIndex() int { return pt.page }

// PageStart returns the offset of this page's text in the document's text
func (pt *PageText) PageStart() int { return pt.pageStart }

// Text returns the page text
func (pt *PageText) Text() string { return string(pt.text) }

// Len returns the length of the page text in bytes
func (pt *PageText) Len() int { return len(pt.text) }

// NumWordBoxes returns the number of boxes on the page
func (pt *PageText) NumWordBoxes() int { return len(pt.boxes) }

// IsEmpty reports whether the page has neither text nor boxes
func (pt *PageText) IsEmpty() bool { return len(pt.text) == 0 && len(pt.boxes) == 0 }

// WordBox returns the i-th box in record order, or nil
func (pt *PageText) WordBox(i int) *WordBox {
	if i < 0 || i >= len(pt.boxes) {
		return nil
	}
	return &pt.boxes[i]
}

// WordBoxes returns every box in record order
func (pt *PageText) WordBoxes() []*WordBox {
	result := make([]*WordBox, len(pt.boxes))
	for i := range pt.boxes {
		result[i] = &pt.boxes[i]
	}
	return result
}

// Diagnostics returns the anomalies found while decoding the page
func (pt *PageText) Diagnostics() []error { return pt.diagnostics }

// PositionIndex exposes the text position index
func (pt *PageText) PositionIndex() *TextPositionIndex { return pt.byPosition }

// AlphabeticalIndex exposes the alphabetical index
func (pt *PageText) AlphabeticalIndex() *AlphabeticalIndex { return pt.byWord }

// WordBoxAt returns the box containing the byte position, or the first box
// after it when the position falls between words. It returns nil for
// positions outside the page text.
func (pt *PageText) WordBoxAt(position int) *WordBox {
	if position < 0 || position >= len(pt.text) {
		return nil
	}
	return pt.byPosition.Lookup(position)
}

// WordBoxAtPoint returns the first box in record order whose bounds contain p
func (pt *PageText) WordBoxAtPoint(p Point) *WordBox {
	hits := pt.spatial.At(p)
	if len(hits) == 0 {
		return nil
	}
	sort.Ints(hits)
	return &pt.boxes[hits[0]]
}

// NearestWordBox returns the box closest to p
func (pt *PageText) NearestWordBox(p Point) *WordBox {
	i, ok := pt.spatial.Nearest(p)
	if !ok {
		return nil
	}
	return &pt.boxes[i]
}

// WordBoxesInRange returns, in text order, the boxes covering the byte span
// [pos1, pos2). See TextPositionIndex.Range.
func (pt *PageText) WordBoxesInRange(pos1, pos2 int) []*WordBox {
	return pt.byPosition.Range(pos1, pos2)
}

// WordBoxesBetween returns the boxes a reader selects by dragging from p1 to
// p2: every box in text order from the box nearest p1 to the box nearest p2.
func (pt *PageText) WordBoxesBetween(p1, p2 Point) []*WordBox {
	first, last := pt.NearestWordBox(p1), pt.NearestWordBox(p2)
	if first == nil || last == nil {
		return nil
	}
	if lessPosKey(posKey{last.endKey(), last.index}, posKey{first.endKey(), first.index}) {
		first, last = last, first
	}
	var result []*WordBox
	pt.byPosition.tree.AscendRange(
		posKey{end: first.endKey(), seq: first.index},
		posKey{end: last.endKey(), seq: last.index + 1},
		func(k posKey) bool {
			result = append(result, &pt.boxes[k.seq])
			return true
		})
	return result
}

// WordBoxesInRect returns, in record order, the boxes overlapping r
func (pt *PageText) WordBoxesInRect(r Rect) []*WordBox {
	hits := pt.spatial.Intersecting(r)
	if len(hits) == 0 {
		return nil
	}
	sort.Ints(hits)
	result := make([]*WordBox, len(hits))
	for i, idx := range hits {
		result[i] = &pt.boxes[idx]
	}
	return result
}

// PrefixMatches returns, alphabetically, the boxes whose trimmed text starts with prefix, ignoring case
func (pt *PageText) PrefixMatches(prefix string) []*WordBox {
	return pt.byWord.PrefixMatch(prefix)
}

// Search finds every non-overlapping occurrence of needle in the page text
// and reports the boxes covering each one.
func (pt *PageText) Search(needle string, mode SearchMode) []Match {
	m := newMatcher([]byte(needle), mode)
	var matches []Match
	for _, span := range m.findSpans(pt.text) {
		matches = append(matches, Match{
			Start: span[0],
			End:   span[1],
			Boxes: pt.byPosition.Range(span[0], span[1]),
		})
	}
	return matches
}
