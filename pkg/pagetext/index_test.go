package pagetext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordBoxAtEveryPosition(t *testing.T) {
	src := composeWords("The", "quick,", "brown", "fox", "jumps")
	pt := decodeSource(t, quietReader(), src)

	for p := 0; p < pt.Len(); p++ {
		got := pt.WordBoxAt(p)

		// Expected: the box containing p, else the first box after p
		var want *WordBox
		for _, b := range pt.WordBoxes() {
			if b.ContentEnd() > p {
				want = b
				break
			}
		}
		if want == nil {
			// Only the trailing newline follows the last word
			assert.Nil(t, got, "position %d", p)
			assert.Equal(t, pt.Len()-1, p)
			continue
		}
		require.Same(t, want, got, "position %d", p)
		if p >= got.ContentPosition {
			assert.Less(t, p, got.ContentEnd(), "position %d", p)
		} else {
			assert.True(t, isSpaceByte(pt.text[p]), "gap at %d", p)
		}
	}
}

func TestWordBoxAtOutsideText(t *testing.T) {
	pt := decodeSource(t, quietReader(), composeWords("alpha", "beta"))

	assert.Nil(t, pt.WordBoxAt(pt.Len()))
	assert.Nil(t, pt.WordBoxAt(pt.Len()+100))
	assert.Nil(t, pt.WordBoxAt(-1))
	assert.Nil(t, Empty(0).WordBoxAt(0))
}

func TestWordBoxesInRange(t *testing.T) {
	// alpha [0,5) beta [6,10) gamma [11,16)
	pt := decodeSource(t, quietReader(), composeWords("alpha", "beta", "gamma"))

	tests := []struct {
		name       string
		pos1, pos2 int
		want       []string
	}{
		{"all", 0, 16, []string{"alpha", "beta", "gamma"}},
		{"one word", 0, 5, []string{"alpha"}},
		{"inside a word", 6, 8, []string{"beta"}},
		{"across a gap", 3, 8, []string{"alpha", "beta"}},
		{"just the gap", 5, 6, nil},
		{"empty", 5, 5, nil},
		{"reversed", 10, 2, nil},
		{"past the end", 20, 30, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := pt.WordBoxesInRange(tc.pos1, tc.pos2)
			if tc.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, texts(got))
		})
	}
}

func TestPositionIndexKeepsDuplicateKeys(t *testing.T) {
	src := &Source{
		Text: []byte("same"),
		Boxes: []WordBox{
			{Bounds: Rect{X: 0, Y: 0, Width: 5, Height: 5}, ContentPosition: 0, ContentLength: 4},
			{Bounds: Rect{X: 10, Y: 0, Width: 5, Height: 5}, ContentPosition: 0, ContentLength: 4},
		},
	}
	pt := decodeSource(t, quietReader(), src)

	assert.Equal(t, 2, pt.PositionIndex().Len())
	assert.Same(t, pt.WordBox(0), pt.WordBoxAt(2))

	got := pt.WordBoxesInRange(0, 4)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Index())
	assert.Equal(t, 1, got[1].Index())
}

func TestPrefixMatches(t *testing.T) {
	pt := decodeSource(t, quietReader(), composeWords("banana", "(Apple)", "apple,", "cherry", "apricot", "Banana"))

	assert.Equal(t, []string{"(Apple)", "apple,", "apricot"}, texts(pt.PrefixMatches("ap")))
	assert.Equal(t, []string{"(Apple)", "apple,", "apricot"}, texts(pt.PrefixMatches("AP")))
	assert.Equal(t, []string{"(Apple)", "apple,"}, texts(pt.PrefixMatches("apple")))
	assert.Equal(t, []string{"banana", "Banana"}, texts(pt.PrefixMatches("Ban")))
	assert.Empty(t, pt.PrefixMatches("z"))
	assert.Empty(t, pt.PrefixMatches("applesauce"))
	assert.Len(t, pt.PrefixMatches(""), 6)
	assert.Empty(t, Empty(0).PrefixMatches("a"))
}

func TestAlphabeticalOrder(t *testing.T) {
	pt := decodeSource(t, quietReader(), composeWords("delta", "Alpha", "charlie", "bravo"))

	var got []string
	pt.AlphabeticalIndex().Ascend(func(b *WordBox) bool {
		got = append(got, b.TrimmedText())
		return true
	})
	assert.Equal(t, []string{"Alpha", "bravo", "charlie", "delta"}, got)
	assert.Equal(t, 4, pt.AlphabeticalIndex().Len())
}
