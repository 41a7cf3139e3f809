package hocr

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ParseHOCR converts raw hOCR data into a structured HOCR object.
// Words are collected per page in document order; empty words are dropped.
func ParseHOCR(data []byte) (HOCR, error) {
	result := HOCR{Metadata: make(map[string]string)}

	// Convert to UTF-8 if the file declares a single-byte charset
	if dec := charsetDecoder(detectCharset(data)); dec != nil {
		decoded, err := dec.Bytes(data)
		if err != nil {
			return result, fmt.Errorf("failed to decode hOCR charset: %w", err)
		}
		data = decoded
	}

	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return result, fmt.Errorf("failed to parse hOCR: %w", err)
	}

	extractDocumentMeta(&result, doc)

	p := &parser{doc: &result}
	p.walk(doc)

	if len(result.Pages) == 0 {
		return result, fmt.Errorf("no ocr_page elements found in HOCR data")
	}
	return result, nil
}

// detectCharset looks for a charset declaration near the top of the file
func detectCharset(data []byte) string {
	head := data
	if len(head) > 2048 {
		head = head[:2048]
	}
	lower := bytes.ToLower(head)
	i := bytes.Index(lower, []byte("charset="))
	if i < 0 {
		return "utf-8"
	}
	fields := bytes.FieldsFunc(lower[i+len("charset="):], func(r rune) bool {
		return r == '"' || r == ';' || r == '\'' || r == '>' || r == '/' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return "utf-8"
	}
	return string(fields[0])
}

// charsetDecoder returns nil for UTF-8 and anything it does not know
func charsetDecoder(charset string) *encoding.Decoder {
	switch charset {
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder()
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15.NewDecoder()
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder()
	}
	return nil
}

// extractDocumentMeta extracts document-level metadata from the html and head elements
func extractDocumentMeta(result *HOCR, doc *html.Node) {
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "html":
				if lang := getAttrVal(n, "lang"); lang != "" {
					result.Language = lang
				} else if lang := getAttrVal(n, "xml:lang"); lang != "" {
					result.Language = lang
				}
			case "title":
				result.Title = strings.TrimSpace(textContent(n))
			case "meta":
				name, content := getAttrVal(n, "name"), getAttrVal(n, "content")
				switch {
				case name == "" || content == "":
				case strings.HasPrefix(name, "ocr-"):
					result.Metadata[name] = content
				case name == "dc.language":
					result.Language = content
				}
			case "body":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)
}

// parser flattens the page tree in a single walk
type parser struct {
	doc          *HOCR
	page         *Page
	newParagraph bool
}

func (p *parser) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch {
		case hasClass(n, "ocr_page"):
			p.openPage(n)
			p.walkChildren(n)
			p.doc.Pages = append(p.doc.Pages, *p.page)
			p.page = nil
			return

		case hasClass(n, "ocrx_word"):
			p.addWord(n)
			return

		case hasClass(n, "ocr_carea"), hasClass(n, "ocr_par"):
			p.newParagraph = true

		case isLine(n) && p.page != nil:
			start := len(p.page.Words)
			p.walkChildren(n)
			if end := len(p.page.Words); end > start {
				p.page.Words[end-1].EndsLine = true
			}
			return
		}
	}
	p.walkChildren(n)
}

func (p *parser) walkChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c)
	}
}

// openPage starts a page from the attributes of an ocr_page element
func (p *parser) openPage(n *html.Node) {
	page := &Page{
		ID:     getAttrVal(n, "id"),
		Lang:   getAttrVal(n, "lang"),
		Number: len(p.doc.Pages),
	}
	title := getAttrVal(n, "title")
	if bbox := ParseBoundingBoxFromTitle(title); bbox != nil {
		page.BBox = *bbox
	}
	props := ParseTitle(title)
	if image, ok := props["image"]; ok && len(image) > 0 {
		page.ImageName = strings.Trim(strings.Join(image, " "), `"`)
	}
	if ppageno, ok := props["ppageno"]; ok && len(ppageno) > 0 {
		if num, err := strconv.Atoi(ppageno[0]); err == nil {
			page.Number = num
		}
	}
	p.page = page
	p.newParagraph = true
}

// addWord records an ocrx_word element on the current page
func (p *parser) addWord(n *html.Node) {
	if p.page == nil {
		return
	}
	word := Word{
		ID:   getAttrVal(n, "id"),
		Lang: getAttrVal(n, "lang"),
		Text: strings.TrimSpace(textContent(n)),
	}
	if word.Text == "" {
		return
	}

	title := getAttrVal(n, "title")
	if bbox := ParseBoundingBoxFromTitle(title); bbox != nil {
		word.BBox = *bbox
	}
	props := ParseTitle(title)
	if conf, ok := props["x_wconf"]; ok && len(conf) > 0 {
		word.Confidence, _ = strconv.ParseFloat(conf[0], 64)
	}
	if size, ok := props["x_fsize"]; ok && len(size) > 0 {
		word.FontSize, _ = strconv.ParseFloat(size[0], 64)
	}

	// Emphasis may sit inside or around the text
	var style func(*html.Node)
	style = func(c *html.Node) {
		if c.Type == html.ElementNode {
			switch c.Data {
			case "strong", "b":
				word.Bold = true
			case "em", "i":
				word.Italic = true
			}
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			style(cc)
		}
	}
	style(n)

	word.StartsParagraph = p.newParagraph
	p.newParagraph = false
	p.page.Words = append(p.page.Words, word)
}

// isLine reports whether n is one of the hOCR line-level elements
func isLine(n *html.Node) bool {
	return hasClass(n, "ocr_line") || hasClass(n, "ocr_header") ||
		hasClass(n, "ocr_caption") || hasClass(n, "ocr_textfloat")
}
