package pagetext

import (
	"math"
	"strings"

	"github.com/google/btree"
	"golang.org/x/text/cases"
)

// alphaKey orders boxes by case-folded trimmed text, then by text position
type alphaKey struct {
	word string
	end  int
	seq  int
}

func lessAlphaKey(a, b alphaKey) bool {
	if a.word != b.word {
		return a.word < b.word
	}
	if a.end != b.end {
		return a.end < b.end
	}
	return a.seq < b.seq
}

// foldWord returns the case-insensitive form used for alphabetical keys.
// A Caser is stateful, so each call gets its own.
func foldWord(s string) string {
	return cases.Fold().String(s)
}

// AlphabeticalIndex orders a page's boxes by trimmed text, ignoring case
type AlphabeticalIndex struct {
	boxes []WordBox
	tree  *btree.BTreeG[alphaKey]
}

func newAlphabeticalIndex(boxes []WordBox) *AlphabeticalIndex {
	idx := &AlphabeticalIndex{
		boxes: boxes,
		tree:  btree.NewG(btreeDegree, lessAlphaKey),
	}
	folder := cases.Fold()
	for i := range boxes {
		b := &boxes[i]
		idx.tree.ReplaceOrInsert(alphaKey{word: folder.String(b.TrimmedText()), end: b.endKey(), seq: i})
	}
	return idx
}

// Len returns the number of indexed boxes
func (idx *AlphabeticalIndex) Len() int { return idx.tree.Len() }

// PrefixMatch returns, in index order, every box whose trimmed text starts
// with prefix, ignoring case. The scan starts at the first key not below the
// prefix and stops at the first key that does not match.
func (idx *AlphabeticalIndex) PrefixMatch(prefix string) []*WordBox {
	folded := foldWord(prefix)
	var result []*WordBox
	idx.tree.AscendGreaterOrEqual(alphaKey{word: folded, end: math.MinInt, seq: math.MinInt}, func(k alphaKey) bool {
		if !strings.HasPrefix(k.word, folded) {
			return false
		}
		result = append(result, &idx.boxes[k.seq])
		return true
	})
	return result
}

// Ascend calls fn for each box in alphabetical order until fn returns false
func (idx *AlphabeticalIndex) Ascend(fn func(*WordBox) bool) {
	idx.tree.Ascend(func(k alphaKey) bool {
		return fn(&idx.boxes[k.seq])
	})
}
