package hocr

import (
	"math"

	"github.com/gardar/pagetext/pkg/pagetext"
)

// HOCR is a parsed hOCR document reduced to what a page's text needs:
// the pages and, on each page, its words in reading order.
type HOCR struct {
	Title    string            // Document title
	Language string            // Document language
	Metadata map[string]string // ocr-system, ocr-capabilities and friends
	Pages    []Page            // Pages in document order
}

// Page is one page of recognized text
// Corresponds to hOCR element with class: 'ocr_page'
type Page struct {
	ID        string      // Unique identifier
	Number    int         // ppageno, or the page's position when absent
	ImageName string      // Source image filename
	Lang      string      // Language code for this page
	BBox      BoundingBox // Page coordinates
	Words     []Word      // Every word on the page, flattened
}

// Word is a recognized word with bounding box
// Corresponds to hOCR element with class: 'ocrx_word'
type Word struct {
	ID         string
	Text       string
	BBox       BoundingBox
	Confidence float64 // x_wconf (0-100)
	FontSize   float64 // x_fsize in points
	Lang       string
	Bold       bool // Wrapped in <strong> or <b>
	Italic     bool // Wrapped in <em> or <i>

	// Structure derived from the enclosing elements
	StartsParagraph bool
	EndsLine        bool
}

// BoundingBox represents a rectangle in the document
// Used to store hOCR 'bbox' property values
type BoundingBox struct {
	X1 float64 // Left coordinate
	Y1 float64 // Top coordinate
	X2 float64 // Right coordinate
	Y2 float64 // Bottom coordinate
}

// NewBoundingBox creates a bounding box from the x1 y1 x2 y2 values of a 'bbox' property
func NewBoundingBox(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Rect rounds the box to page pixels, putting the corners in order
func (b BoundingBox) Rect() pagetext.Rect {
	x1, x2 := math.Round(math.Min(b.X1, b.X2)), math.Round(math.Max(b.X1, b.X2))
	y1, y2 := math.Round(math.Min(b.Y1, b.Y2)), math.Round(math.Max(b.Y1, b.Y2))
	return pagetext.Rect{X: int(x1), Y: int(y1), Width: int(x2 - x1), Height: int(y2 - y1)}
}

// boundingBoxOf is the inverse of Rect
func boundingBoxOf(r pagetext.Rect) BoundingBox {
	return NewBoundingBox(float64(r.X), float64(r.Y), float64(r.MaxX()), float64(r.MaxY()))
}
