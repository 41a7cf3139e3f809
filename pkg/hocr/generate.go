package hocr

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/net/html"

	"github.com/gardar/pagetext/pkg/pagetext"
)

//go:embed templates/hocr.tmpl
var templateFS embed.FS

// document is the template's view of the pages being rendered
type document struct {
	Title string
	Pages []pageView
}

type pageView struct {
	ID         string
	Number     int
	BBox       string
	Paragraphs []paragraphView
}

type paragraphView struct {
	ID    string
	BBox  string
	Lines []lineView
}

type lineView struct {
	ID    string
	BBox  string
	Words []wordView
}

type wordView struct {
	ID       string
	BBox     string
	FontSize float64
	Text     string
	Bold     bool
	Italic   bool
}

// GenerateHOCRDocument renders decoded pages as an hOCR HTML document.
// Paragraphs start at words that begin one and lines end at words that
// end one; the boxes of both are the union of their words' boxes.
func GenerateHOCRDocument(title string, pages ...*pagetext.PageText) (string, error) {
	// Set up the template with its helper functions
	tmpl, err := template.New("hocr.tmpl").Funcs(template.FuncMap{
		"escape": html.EscapeString,
		"trim":   strings.TrimSpace,
	}).ParseFS(templateFS, "templates/hocr.tmpl")
	if err != nil {
		return "", fmt.Errorf("error parsing hOCR template: %w", err)
	}

	doc := document{Title: title}
	for _, pt := range pages {
		doc.Pages = append(doc.Pages, buildPageView(pt))
	}

	// Render the template with the page views
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("error rendering hOCR template: %w", err)
	}
	return buf.String(), nil
}

// buildPageView groups a page's boxes into paragraphs and lines
func buildPageView(pt *pagetext.PageText) pageView {
	n := pt.PageIndex() + 1
	page := pageView{ID: fmt.Sprintf("page_%d", n), Number: pt.PageIndex()}

	var pageBox, parBox, lineBox pagetext.Rect
	var par *paragraphView
	var line *lineView
	lines, words := 0, 0

	closeLine := func() {
		if line != nil && len(line.Words) > 0 {
			line.BBox = formatBBox(lineBox)
			par.Lines = append(par.Lines, *line)
		}
		line = nil
	}
	closeParagraph := func() {
		closeLine()
		if par != nil && len(par.Lines) > 0 {
			par.BBox = formatBBox(parBox)
			page.Paragraphs = append(page.Paragraphs, *par)
		}
		par = nil
	}

	for _, b := range pt.WordBoxes() {
		if par == nil || b.Attrs.Has(pagetext.BeginsParagraph) {
			closeParagraph()
			par = &paragraphView{ID: fmt.Sprintf("par_%d_%d", n, len(page.Paragraphs)+1)}
			parBox = pagetext.Rect{}
		}
		if line == nil {
			lines++
			line = &lineView{ID: fmt.Sprintf("line_%d_%d", n, lines)}
			lineBox = pagetext.Rect{}
		}

		words++
		line.Words = append(line.Words, wordView{
			ID:       fmt.Sprintf("word_%d_%d", n, words),
			BBox:     formatBBox(b.Bounds),
			FontSize: b.FontSize,
			Text:     b.Text(),
			Bold:     b.Attrs.Has(pagetext.Bold),
			Italic:   b.Attrs.Has(pagetext.Italic),
		})
		lineBox = union(lineBox, b.Bounds)
		parBox = union(parBox, b.Bounds)
		pageBox = union(pageBox, b.Bounds)

		if b.Attrs.Has(pagetext.EndsLine) {
			closeLine()
		}
	}
	closeParagraph()

	page.BBox = formatBBox(pagetext.Rect{Width: pageBox.MaxX(), Height: pageBox.MaxY()})
	return page
}

// union grows r to cover o; an all-zero r counts as unset
func union(r, o pagetext.Rect) pagetext.Rect {
	if r == (pagetext.Rect{}) {
		return o
	}
	x1, y1 := min(r.X, o.X), min(r.Y, o.Y)
	x2, y2 := max(r.MaxX(), o.MaxX()), max(r.MaxY(), o.MaxY())
	return pagetext.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

func formatBBox(r pagetext.Rect) string {
	b := boundingBoxOf(r)
	return fmt.Sprintf("%g %g %g %g", b.X1, b.Y1, b.X2, b.Y2)
}
