package pagetext

import (
	"math"

	"github.com/google/btree"
)

const btreeDegree = 16

// posKey orders boxes by the offset of their last text byte.
// seq keeps duplicate offsets apart in insertion order.
type posKey struct {
	end int
	seq int
}

func lessPosKey(a, b posKey) bool {
	if a.end != b.end {
		return a.end < b.end
	}
	return a.seq < b.seq
}

// TextPositionIndex orders a page's boxes by the end of their text span
type TextPositionIndex struct {
	boxes []WordBox
	tree  *btree.BTreeG[posKey]
}

func newTextPositionIndex(boxes []WordBox) *TextPositionIndex {
	idx := &TextPositionIndex{
		boxes: boxes,
		tree:  btree.NewG(btreeDegree, lessPosKey),
	}
	for i := range boxes {
		idx.tree.ReplaceOrInsert(posKey{end: boxes[i].endKey(), seq: i})
	}
	return idx
}

// Len returns the number of indexed boxes
func (idx *TextPositionIndex) Len() int { return idx.tree.Len() }

// Lookup returns the first box whose text ends at or after position,
// i.e. the box containing position or the next one after it.
func (idx *TextPositionIndex) Lookup(position int) *WordBox {
	var found *WordBox
	idx.tree.AscendGreaterOrEqual(posKey{end: position, seq: math.MinInt}, func(k posKey) bool {
		found = &idx.boxes[k.seq]
		return false
	})
	return found
}

// Range returns, in order, the boxes whose text ends in [pos1, pos2). The
// first box ending at or after pos2 is included as well when its text starts
// before pos2, so a span that stops inside a word still reports that word.
func (idx *TextPositionIndex) Range(pos1, pos2 int) []*WordBox {
	if pos2 <= pos1 {
		return nil
	}
	var result []*WordBox
	idx.tree.AscendRange(posKey{end: pos1, seq: math.MinInt}, posKey{end: pos2, seq: math.MinInt}, func(k posKey) bool {
		result = append(result, &idx.boxes[k.seq])
		return true
	})
	if last := idx.Lookup(pos2); last != nil && last.ContentPosition < pos2 && last.ContentPosition < last.ContentEnd() {
		result = append(result, last)
	}
	return result
}

// Ascend calls fn for each box in text order until fn returns false
func (idx *TextPositionIndex) Ascend(fn func(*WordBox) bool) {
	idx.tree.Ascend(func(k posKey) bool {
		return fn(&idx.boxes[k.seq])
	})
}
