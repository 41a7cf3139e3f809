package gdocai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

// textFromLayout extracts text from a layout's text anchor segments.
// Segment indexes count runes of the document text.
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText []rune) string {
	var result strings.Builder
	for _, seg := range layout.GetTextAnchor().GetTextSegments() {
		start, end := clampSegment(seg, len(fullText))
		result.WriteString(string(fullText[start:end]))
	}
	return result.String()
}

// clampSegment keeps a segment inside a text of n runes
func clampSegment(seg *documentaipb.Document_TextAnchor_TextSegment, n int) (int, int) {
	start, end := int(seg.GetStartIndex()), int(seg.GetEndIndex())
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start > end {
		start = end
	}
	return start, end
}

// layoutSpan returns the range of the first text segment of a layout
func layoutSpan(layout *documentaipb.Document_Page_Layout) (start, end int64, ok bool) {
	segs := layout.GetTextAnchor().GetTextSegments()
	if len(segs) == 0 {
		return 0, 0, false
	}
	return segs[0].GetStartIndex(), segs[0].GetEndIndex(), true
}
