package hocr

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// ParseTitle breaks down an hOCR title attribute into its components
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// ParseBoundingBoxFromTitle extracts a bounding box from a title string
// Returns nil if the title has no complete bbox property
func ParseBoundingBoxFromTitle(title string) *BoundingBox {
	bbox, ok := ParseTitle(title)["bbox"]
	if !ok || len(bbox) < 4 {
		return nil
	}
	var v [4]float64
	for i := range v {
		f, err := strconv.ParseFloat(bbox[i], 64)
		if err != nil {
			return nil
		}
		v[i] = f
	}
	result := NewBoundingBox(v[0], v[1], v[2], v[3])
	return &result
}

// ExtractHOCRText extracts all text from an HOCR document
// Words are separated by spaces and lines by newlines; pages are separated
// by double newlines
func ExtractHOCRText(hocrDoc *HOCR) string {
	var builder strings.Builder
	for i, page := range hocrDoc.Pages {
		if i > 0 {
			builder.WriteString("\n\n")
		}
		for j, word := range page.Words {
			if j > 0 && !page.Words[j-1].EndsLine {
				builder.WriteString(" ")
			}
			builder.WriteString(word.Text)
			if word.EndsLine {
				builder.WriteString("\n")
			}
		}
	}
	return builder.String()
}

// textContent concatenates the text nodes under n
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

// hasClass reports whether the class attribute of n lists class
func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttrVal(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// Get the value of a specific attribute from a node
func getAttrVal(n *html.Node, attrName string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrName {
			return attr.Val
		}
	}
	return ""
}
