package pagetext

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pageFromText builds a page with one box per space-free run of the text
func pageFromText(t *testing.T, text string) *PageText {
	t.Helper()
	src := &Source{Text: []byte(text)}
	start := -1
	for i := 0; i <= len(text); i++ {
		if i < len(text) && !isSpaceByte(text[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			src.Boxes = append(src.Boxes, WordBox{
				Bounds:          Rect{X: 10 * start, Y: 0, Width: 10 * (i - start), Height: 10},
				ContentPosition: start,
				ContentLength:   i - start,
			})
			start = -1
		}
	}
	return decodeSource(t, quietReader(), src)
}

func spans(matches []Match) [][2]int {
	var result [][2]int
	for _, m := range matches {
		result = append(result, [2]int{m.Start, m.End})
	}
	return result
}

func TestSearchWhitespaceEquivalence(t *testing.T) {
	pt := pageFromText(t, "a\tb")

	matches := pt.Search("a b", SearchExact)
	require.Len(t, matches, 1)
	assert.Equal(t, []string{"a", "b"}, texts(matches[0].Boxes))

	assert.Len(t, pageFromText(t, "Hello\nWorld").Search("hello world", SearchCaseInsensitive), 1)
	assert.Empty(t, pageFromText(t, "Hello\nWorld").Search("hello world", SearchExact))
}

func TestSearchModes(t *testing.T) {
	text := "cat concatenate Cat. CAT"
	tests := []struct {
		needle string
		mode   SearchMode
		want   [][2]int
	}{
		{"cat", SearchExact, [][2]int{{0, 3}, {7, 10}}},
		{"cat", SearchCaseInsensitive, [][2]int{{0, 3}, {7, 10}, {16, 19}, {21, 24}}},
		{"cat", SearchWholeWord, [][2]int{{0, 3}, {16, 19}, {21, 24}}},
		{"CONCAT", SearchWholeWord, nil},
		{"concatenate", SearchWholeWord, [][2]int{{4, 15}}},
		{"dog", SearchCaseInsensitive, nil},
		{"", SearchExact, nil},
	}
	pt := pageFromText(t, text)
	for _, tc := range tests {
		t.Run(tc.mode.String()+"/"+tc.needle, func(t *testing.T) {
			assert.Equal(t, tc.want, spans(pt.Search(tc.needle, tc.mode)))
		})
	}
}

func TestSearchDoesNotOverlap(t *testing.T) {
	pt := pageFromText(t, "aaaa aaa")
	assert.Equal(t, [][2]int{{0, 2}, {2, 4}, {5, 7}}, spans(pt.Search("aa", SearchExact)))
}

func TestSearchMapsPartialWordsToBoxes(t *testing.T) {
	pt := pageFromText(t, "alpha beta gamma")

	matches := pt.Search("ha be", SearchExact)
	require.Len(t, matches, 1)
	assert.Equal(t, []string{"alpha", "beta"}, texts(matches[0].Boxes))

	matches = pt.Search("BETA", SearchCaseInsensitive)
	require.Len(t, matches, 1)
	assert.Equal(t, []string{"beta"}, texts(matches[0].Boxes))
}

func TestSearchNonASCII(t *testing.T) {
	pt := pageFromText(t, "un été chaud")

	assert.Equal(t, [][2]int{{3, 8}}, spans(pt.Search("ÉTÉ", SearchCaseInsensitive)))
	assert.Equal(t, [][2]int{{3, 8}}, spans(pt.Search("été", SearchWholeWord)))
	assert.Empty(t, pt.Search("ÉTÉ", SearchExact))
}

func TestSearchKeepsRunesWhoseCaseChangesLength(t *testing.T) {
	// Upper-case dotless ı is the one-byte I, so ı stays as it is while
	// the other letters still fold
	pt := pageFromText(t, "kırmızı ELMA")

	assert.Equal(t, [][2]int{{0, 15}}, spans(pt.Search("Kırmızı elma", SearchCaseInsensitive)))
	assert.Equal(t, [][2]int{{11, 15}}, spans(pt.Search("elma", SearchWholeWord)))
	assert.Empty(t, pt.Search("KIRMIZI", SearchCaseInsensitive))

	assert.Equal(t, []byte("KıRMıZı ELMA"), caseVariant([]byte("kırmızı elma"), unicode.ToUpper))
	assert.Equal(t, []byte{'a', 0xff, 'b'}, caseVariant([]byte{'A', 0xff, 'B'}, unicode.ToLower))
}

func TestWordBoundaryAtTextEdges(t *testing.T) {
	assert.True(t, wordBoundary([]byte("word"), 0, 4))
	assert.True(t, wordBoundary([]byte("(word)"), 1, 5))
	assert.True(t, wordBoundary([]byte("'word'?"), 1, 5))
	assert.False(t, wordBoundary([]byte("words"), 0, 4))
	assert.False(t, wordBoundary([]byte("-word"), 1, 5))
}

func TestParseSearchMode(t *testing.T) {
	for _, mode := range []SearchMode{SearchExact, SearchCaseInsensitive, SearchWholeWord} {
		got, err := ParseSearchMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, got)
	}
	_, err := ParseSearchMode("fuzzy")
	assert.Error(t, err)
}
