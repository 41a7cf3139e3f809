// Package gdocai produces page text bbox streams with Google Document AI.
//
// A PDF is sent to a Document AI OCR processor and every recognized token
// becomes a word of a pagetext.Source: its bounding polygon is scaled to page
// pixels, its detected break decides whether it ends a word or carries an
// inserted hyphen, its line and paragraph membership set the line and
// paragraph flags, and its style info supplies the font size and attributes.
//
// Main Functions:
//
// - ProcessDocument: Sends a document to Google Document AI for processing
// - DocumentFromProto: Converts a Document AI response into pages and sources
// - DocumentOCR: Processes a PDF and returns the converted Document
// - DocumentOCRFromPages: Processes several PDFs as the pages of one document
// - PageSources: The bbox stream sources of a Document AI response
//
// Usage Requirements:
//
// - Google Cloud project with Document AI API enabled
// - Document AI processor configured for OCR
// - Authentication via GOOGLE_APPLICATION_CREDENTIALS environment variable
package gdocai

import (
	"bytes"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gardar/pagetext/pkg/pagetext"
)

// DocumentOCR processes a PDF with Document AI and returns our structured Document
func DocumentOCR(ctx context.Context, pdfBytes []byte, cfg *Config) (*Document, error) {
	rawDoc, err := ProcessDocument(ctx, pdfBytes, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}
	doc := DocumentFromProto(rawDoc)
	cfg.logger().WithField("pages", len(doc.Pages)).Info("document processed")
	return doc, nil
}

// DocumentOCRFromPages processes multiple PDFs as individual pages and
// combines them into a single document. Each PDF must hold exactly one page.
// The combined document has no Raw response.
func DocumentOCRFromPages(ctx context.Context, pagePdfBytesList [][]byte, cfg *Config) (*Document, error) {
	doc := &Document{}
	pageStart := 0
	for i, pageBytes := range pagePdfBytesList {
		pageDoc, err := ProcessDocument(ctx, pageBytes, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to process page %d: %w", i+1, err)
		}
		if n := len(pageDoc.GetPages()); n != 1 {
			return nil, fmt.Errorf("expected 1 page in result for page %d, got %d", i+1, n)
		}

		page := DocumentFromProto(pageDoc).Pages[0]
		page.PageNumber = i + 1
		page.Source.PageStart = pageStart
		pageStart += len(page.Source.Text)

		if i > 0 {
			doc.Text += "\n\n"
		}
		doc.Text += pageDoc.GetText()
		doc.Pages = append(doc.Pages, page)
		cfg.logger().WithFields(logrus.Fields{"page": i + 1, "words": len(page.Source.Boxes)}).Info("page processed")
	}
	return doc, nil
}

// WriteBBoxes stores every page of the document under root as "<N>.bboxes"
func (d *Document) WriteBBoxes(root string) error {
	for i, p := range d.Pages {
		if err := pagetext.WriteFile(root, i, p.Source); err != nil {
			return fmt.Errorf("failed to write page %d: %w", p.PageNumber, err)
		}
	}
	return nil
}

// PageTexts encodes each page and decodes it again, giving the indexed
// pages exactly as a reader of the stored streams would see them
func (d *Document) PageTexts(cfg pagetext.Config) ([]*pagetext.PageText, error) {
	rd := pagetext.NewReader(cfg)
	result := make([]*pagetext.PageText, len(d.Pages))
	for i, p := range d.Pages {
		var buf bytes.Buffer
		if err := pagetext.Encode(&buf, p.Source); err != nil {
			return nil, fmt.Errorf("failed to encode page %d: %w", p.PageNumber, err)
		}
		pt, err := rd.Decode(i, &buf)
		if err != nil {
			return nil, fmt.Errorf("failed to decode page %d: %w", p.PageNumber, err)
		}
		result[i] = pt
	}
	return result, nil
}
