// Package hocr converts between hOCR, the HTML-based standard format for OCR
// results, and page text bbox streams.
//
// This package provides:
//
// - A flat object model of an hOCR document: pages and their words, with the
// line and paragraph structure folded into per-word flags
// - Parsing of hOCR HTML, including files declared in ISO-8859-1
// - Conversion of parsed pages into pagetext sources ready to encode
// - Generation of hOCR HTML from decoded pages
//
// Key Types:
//
// - HOCR: Top-level structure representing an entire hOCR document
// - Page: Represents a single page with class 'ocr_page'
// - Word: Represents a single word with class 'ocrx_word'
// - BoundingBox: Represents a rectangle with coordinates for positioning elements
//
// Main Functions:
//
// - ParseHOCR: Parses hOCR data from HTML into the object model
// - ToSource, Sources: Lay out parsed pages as bbox stream sources
// - GenerateHOCRDocument: Renders decoded pages as hOCR HTML
package hocr
