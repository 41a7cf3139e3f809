// Package pagetext decodes and indexes the word-level text of a single scanned page.
//
// A page's text is stored as a "bbox stream": an 11 byte magic literal, a short
// big-endian header, and a raw DEFLATE body holding one 16 byte record per word
// followed by the page's UTF-8 text. Each record carries the word's pixel-space
// bounding box, its font attributes and the byte span of its text.
//
// This package provides:
//
// - Decoding of individual records and of whole streams (Decode, Read)
// - Encoding of streams for fixtures and converters (Encode, Composer)
// - Three ordered views over the decoded words: by text position, by page
// position and alphabetically by trimmed text
// - Substring search over the page text in three modes, mapped back to words
//
// Key Types:
//
// - PageText: the decoded page and its indexes; immutable once returned
// - WordBox: one recognized word
// - SpatialIndex: the point/rectangle/nearest capability used for page positions
//
// Main Functions:
//
// - Read: decodes a stream, falling back to an empty page on any format error
// - Decode: like Read, but reports the error
// - Encode: writes a stream from a Source
// - PagePath, ReadFile: locate and load "<N+1>.bboxes" files under a document root
package pagetext
