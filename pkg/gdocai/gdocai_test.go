package gdocai

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/pagetext/pkg/pagetext"
)

const (
	pageWidth  = 1000
	pageHeight = 2000
)

func anchor(start, end int64) *documentaipb.Document_TextAnchor {
	return &documentaipb.Document_TextAnchor{
		TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{{StartIndex: start, EndIndex: end}},
	}
}

// layout builds a layout over text [start, end) whose box is given in page pixels
func layout(start, end int64, x1, y1, x2, y2 float32) *documentaipb.Document_Page_Layout {
	nx1, ny1, nx2, ny2 := x1/pageWidth, y1/pageHeight, x2/pageWidth, y2/pageHeight
	return &documentaipb.Document_Page_Layout{
		TextAnchor: anchor(start, end),
		BoundingPoly: &documentaipb.BoundingPoly{
			NormalizedVertices: []*documentaipb.NormalizedVertex{
				{X: nx1, Y: ny1}, {X: nx2, Y: ny1}, {X: nx2, Y: ny2}, {X: nx1, Y: ny2},
			},
		},
	}
}

func token(start, end int64, brk documentaipb.Document_Page_Token_DetectedBreak_Type, x float32, style *documentaipb.Document_Page_Token_StyleInfo) *documentaipb.Document_Page_Token {
	return &documentaipb.Document_Page_Token{
		Layout:        layout(start, end, x, 100, x+50, 120),
		DetectedBreak: &documentaipb.Document_Page_Token_DetectedBreak{Type: brk},
		StyleInfo:     style,
	}
}

// samplePage covers "Hello, big wor-\nld.\nNew para\n" with two paragraphs on three lines
func samplePage(number int32) *documentaipb.Document_Page {
	space := documentaipb.Document_Page_Token_DetectedBreak_SPACE
	return &documentaipb.Document_Page{
		PageNumber: number,
		Dimension:  &documentaipb.Document_Page_Dimension{Width: pageWidth, Height: pageHeight, Unit: "pixels"},
		Layout:     &documentaipb.Document_Page_Layout{TextAnchor: anchor(0, 29)},
		Paragraphs: []*documentaipb.Document_Page_Paragraph{
			{Layout: layout(0, 20, 0, 0, 0, 0)},
			{Layout: layout(20, 29, 0, 0, 0, 0)},
		},
		Lines: []*documentaipb.Document_Page_Line{
			{Layout: layout(0, 16, 0, 0, 0, 0)},
			{Layout: layout(16, 20, 0, 0, 0, 0)},
			{Layout: layout(20, 29, 0, 0, 0, 0)},
		},
		Tokens: []*documentaipb.Document_Page_Token{
			token(0, 7, space, 100, &documentaipb.Document_Page_Token_StyleInfo{FontSize: 12, FontType: "Serif"}),
			token(7, 11, space, 200, &documentaipb.Document_Page_Token_StyleInfo{FontSize: 12, Bold: true, FontType: "SANS_SERIF"}),
			token(11, 16, documentaipb.Document_Page_Token_DetectedBreak_HYPHEN, 300, nil),
			token(16, 20, space, 400, nil),
			token(20, 24, space, 500, &documentaipb.Document_Page_Token_StyleInfo{FontSize: 200, FontWeight: 700, Italic: true, FontType: "Monospace"}),
			token(24, 29, space, 600, nil),
		},
	}
}

const sampleText = "Hello, big wor-\nld.\nNew para\n"

func TestPageSource(t *testing.T) {
	doc := DocumentFromProto(&documentaipb.Document{Text: sampleText, Pages: []*documentaipb.Document_Page{samplePage(1)}})
	require.Len(t, doc.Pages, 1)
	page := doc.Pages[0]
	assert.Equal(t, 1, page.PageNumber)
	assert.Equal(t, sampleText, page.Text)

	src := page.Source
	assert.Equal(t, sampleText, string(src.Text))
	require.Len(t, src.Boxes, 6)

	begins := pagetext.BeginsParagraph | pagetext.BeginsSentence | pagetext.BeginsPhrase
	want := []pagetext.Attr{
		pagetext.EndsWord | begins | pagetext.Serif,
		pagetext.EndsWord | pagetext.BeginsPhrase | pagetext.Bold,
		pagetext.InsertedHyphen | pagetext.EndsLine,
		pagetext.EndsWord | pagetext.EndsLine,
		pagetext.EndsWord | begins | pagetext.Bold | pagetext.Italic | pagetext.FixedWidth,
		pagetext.EndsWord | pagetext.EndsLine,
	}
	for i, attrs := range want {
		assert.Equal(t, attrs, src.Boxes[i].Attrs, "token %d: %s", i, src.Boxes[i].Attrs)
	}

	assert.Equal(t, pagetext.Rect{X: 100, Y: 100, Width: 50, Height: 20}, src.Boxes[0].Bounds)
	assert.Equal(t, pagetext.Rect{X: 600, Y: 100, Width: 50, Height: 20}, src.Boxes[5].Bounds)
	assert.Equal(t, 12.0, src.Boxes[0].FontSize)
	assert.Equal(t, 127.5, src.Boxes[4].FontSize)
	assert.Equal(t, 0.0, src.Boxes[2].FontSize)
	assert.Equal(t, 11, src.Boxes[2].ContentPosition)
	assert.Equal(t, 4, src.Boxes[2].ContentLength)
}

func TestDocumentFromProtoOrdersPages(t *testing.T) {
	raw := &documentaipb.Document{
		Text:  sampleText,
		Pages: []*documentaipb.Document_Page{samplePage(2), samplePage(1)},
	}
	doc := DocumentFromProto(raw)
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, 1, doc.Pages[0].PageNumber)
	assert.Equal(t, 2, doc.Pages[1].PageNumber)
	assert.Equal(t, 0, doc.Pages[0].Source.PageStart)
	assert.Equal(t, len(sampleText), doc.Pages[1].Source.PageStart)
	assert.Same(t, raw, doc.Raw)

	sources := PageSources(raw)
	require.Len(t, sources, 2)
	assert.Equal(t, len(sampleText), sources[1].PageStart)
}

func TestPageTextsAndWriteBBoxes(t *testing.T) {
	doc := DocumentFromProto(&documentaipb.Document{
		Text:  sampleText,
		Pages: []*documentaipb.Document_Page{samplePage(1), samplePage(2)},
	})
	logger, _ := logtest.NewNullLogger()

	pages, err := doc.PageTexts(pagetext.Config{Logger: logger})
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, 1, pages[1].PageIndex())
	assert.Equal(t, "wor-", pages[0].WordBoxAt(12).Text())
	assert.Len(t, pages[0].Search("wor- ld.", pagetext.SearchExact), 1)
	assert.Equal(t, "New", pages[0].WordBoxAtPoint(pagetext.Point{X: 520, Y: 110}).Text())

	root := filepath.Join(t.TempDir(), "bboxes")
	require.NoError(t, doc.WriteBBoxes(root))
	assert.FileExists(t, filepath.Join(root, "1.bboxes"))
	assert.FileExists(t, filepath.Join(root, "2.bboxes"))

	rd := pagetext.NewReader(pagetext.Config{Logger: logger})
	pt := rd.ReadFile(root, 1)
	assert.Equal(t, sampleText, pt.Text())
	assert.Equal(t, len(sampleText), pt.PageStart())
}

func TestLongTokenIsClippedToFitRecord(t *testing.T) {
	long := strings.Repeat("a", 300)
	text := "Visit " + long + "\n"
	space := documentaipb.Document_Page_Token_DetectedBreak_SPACE
	page := &documentaipb.Document_Page{
		PageNumber: 1,
		Dimension:  &documentaipb.Document_Page_Dimension{Width: pageWidth, Height: pageHeight, Unit: "pixels"},
		Layout:     &documentaipb.Document_Page_Layout{TextAnchor: anchor(0, int64(len(text)))},
		Tokens: []*documentaipb.Document_Page_Token{
			token(0, 6, space, 100, nil),
			token(6, 306, space, 200, nil),
		},
	}
	doc := DocumentFromProto(&documentaipb.Document{Text: text, Pages: []*documentaipb.Document_Page{page}})

	src := doc.Pages[0].Source
	require.Len(t, src.Boxes, 2)
	assert.Equal(t, pagetext.MaxWordBytes, src.Boxes[1].ContentLength)
	assert.Equal(t, pagetext.MaxWordBytes, src.Boxes[1].CharCount)

	root := filepath.Join(t.TempDir(), "bboxes")
	require.NoError(t, doc.WriteBBoxes(root))

	logger, _ := logtest.NewNullLogger()
	pages, err := doc.PageTexts(pagetext.Config{Logger: logger})
	require.NoError(t, err)
	assert.Equal(t, long[:pagetext.MaxWordBytes], pages[0].WordBox(1).Text())

	pt := pagetext.NewReader(pagetext.Config{Logger: logger}).ReadFile(root, 0)
	assert.Equal(t, "Visit", pt.WordBox(0).Text())
	assert.Equal(t, long[:pagetext.MaxWordBytes], pt.WordBox(1).Text())
}

func TestTextFromLayoutCountsRunes(t *testing.T) {
	text := []rune("héllo wörld")
	l := &documentaipb.Document_Page_Layout{TextAnchor: &documentaipb.Document_TextAnchor{
		TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{
			{StartIndex: 6, EndIndex: 11},
			{StartIndex: 5, EndIndex: 6},
			{StartIndex: 0, EndIndex: 99},
		},
	}}
	assert.Equal(t, "wörld héllo wörld", textFromLayout(l, text))
	assert.Equal(t, "", textFromLayout(nil, text))
}

func TestPixelRect(t *testing.T) {
	dim := &documentaipb.Document_Page_Dimension{Width: pageWidth, Height: pageHeight}

	// Pixel vertices when there are no normalized ones
	l := &documentaipb.Document_Page_Layout{BoundingPoly: &documentaipb.BoundingPoly{
		Vertices: []*documentaipb.Vertex{{X: 30, Y: 40}, {X: 10, Y: 45}, {X: -5, Y: 60}},
	}}
	assert.Equal(t, pagetext.Rect{X: 0, Y: 40, Width: 30, Height: 20}, pixelRect(l, dim))

	assert.Equal(t, pagetext.Rect{X: 10, Y: 20, Width: 30, Height: 40}, pixelRect(layout(0, 0, 10, 20, 40, 60), dim))
	assert.Equal(t, pagetext.Rect{}, pixelRect(nil, dim))
}

func TestSpanIndex(t *testing.T) {
	idx := newSpanIndex([]*documentaipb.Document_Page_Layout{
		{TextAnchor: anchor(10, 20)},
		{TextAnchor: anchor(0, 10)},
		nil,
		{TextAnchor: anchor(25, 30)},
	})
	assert.Equal(t, 1, idx.find(0))
	assert.Equal(t, 1, idx.find(9))
	assert.Equal(t, 0, idx.find(10))
	assert.Equal(t, -1, idx.find(22))
	assert.Equal(t, 3, idx.find(29))
	assert.Equal(t, -1, idx.find(30))
	assert.Equal(t, -1, idx.find(-1))
}

func TestToJSON(t *testing.T) {
	out, err := ToJSON(&documentaipb.Document{Text: "hello"})
	require.NoError(t, err)
	assert.Contains(t, out, `"text"`)
	assert.Contains(t, out, `"hello"`)

	out, err = ToJSON(map[string]int{"pages": 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"pages": 2}`, out)
}

func TestExtractImageFromPage(t *testing.T) {
	_, err := ExtractImageFromPage(nil)
	assert.Error(t, err)

	page := &Page{PageNumber: 1, DocumentaiObject: &documentaipb.Document_Page{}}
	_, err = ExtractImageFromPage(page)
	assert.Error(t, err)

	page.DocumentaiObject.Image = &documentaipb.Document_Page_Image{Content: []byte{1, 2, 3}, MimeType: "image/png"}
	img, err := ExtractImageFromPage(page)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, img)
	assert.Equal(t, ".png", ImageExtension(page))

	page.DocumentaiObject.Image.MimeType = "image/JPEG"
	assert.Equal(t, ".jpg", ImageExtension(page))
	assert.Equal(t, ".png", ImageExtension(&Page{}))
}

func TestProcessDocumentRequiresProcessor(t *testing.T) {
	_, err := ProcessDocument(context.Background(), nil, &Config{ProjectID: "p"})
	assert.Error(t, err)
	_, err = ProcessDocument(context.Background(), nil, nil)
	assert.Error(t, err)

	cfg := &Config{ProjectID: "p", Location: "eu", ProcessorID: "x"}
	require.NoError(t, cfg.validate())
	assert.Equal(t, "projects/p/locations/eu/processors/x", cfg.processorName())

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	assert.Len(t, cfg.clientOptions(), 1)
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/etc/creds.json")
	assert.Len(t, cfg.clientOptions(), 2)
}
