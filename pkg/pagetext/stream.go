package pagetext

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"io"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// Magic starts every bbox stream
const Magic = "UpLib:pbb:1"

// Stream header: magic, one pad byte, then box count (u16),
// text length (u16) and page start offset (i32), big-endian.
const (
	headerSize    = 20
	offBoxCount   = 12
	offTextLength = 14
	offPageStart  = 16
	maxBoxCount   = 0xffff
	maxTextLength = 0xffff
)

// Reader decodes bbox streams with a fixed configuration
type Reader struct {
	cfg Config
}

// NewReader returns a Reader; unset config fields take their defaults
func NewReader(cfg Config) *Reader {
	return &Reader{cfg: cfg.withDefaults()}
}

var defaultReader = NewReader(DefaultConfig())

// Read decodes a page with the default configuration. See Reader.Read.
func Read(page int, r io.Reader) *PageText {
	return defaultReader.Read(page, r)
}

// Decode decodes a page with the default configuration. See Reader.Decode.
func Decode(page int, r io.Reader) (*PageText, error) {
	return defaultReader.Decode(page, r)
}

// Read decodes a page and never fails: a stream that cannot be decoded is
// logged and replaced by an empty page, so the rest of the document still renders.
func (rd *Reader) Read(page int, r io.Reader) *PageText {
	pt, err := rd.Decode(page, r)
	if err != nil {
		rd.cfg.Logger.WithFields(logrus.Fields{"page": page}).WithError(err).Warn("page text unavailable")
		return rd.empty(page)
	}
	return pt
}

// empty is the fallback page, indexed with the reader's config
func (rd *Reader) empty(page int) *PageText {
	return newPageText(page, 0, nil, nil, nil, rd.cfg)
}

// Decode reads a whole bbox stream from r and returns the indexed page.
// Bad magic, a short stream or a corrupt DEFLATE body yield a *FormatError.
func (rd *Reader) Decode(page int, r io.Reader) (*PageText, error) {
	// Validate the fixed preamble
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, formatErrorf(err, "reading header")
	}
	if !bytes.Equal(header[:len(Magic)], []byte(Magic)) {
		return nil, formatErrorf(ErrBadMagic, "stream starts with %q", header[:len(Magic)])
	}
	boxCount := int(binary.BigEndian.Uint16(header[offBoxCount:]))
	textLength := int(binary.BigEndian.Uint16(header[offTextLength:]))
	pageStart := int(int32(binary.BigEndian.Uint32(header[offPageStart:])))

	// Inflate both sections; ReadFull loops over short reads
	zr := flate.NewReader(r)
	defer zr.Close()
	records := make([]byte, boxCount*RecordSize)
	if _, err := io.ReadFull(zr, records); err != nil {
		return nil, formatErrorf(err, "inflating %d box records", boxCount)
	}
	text := make([]byte, textLength)
	if _, err := io.ReadFull(zr, text); err != nil {
		return nil, formatErrorf(err, "inflating %d bytes of text", textLength)
	}

	return rd.build(page, pageStart, records, text)
}

// build decodes each record in order and indexes the result
func (rd *Reader) build(page, pageStart int, records, text []byte) (*PageText, error) {
	log := rd.cfg.Logger.WithField("page", page)
	boxCount := len(records) / RecordSize
	boxes := make([]WordBox, 0, boxCount)
	var diagnostics []error

	note := func(a *BoundsAnomaly) {
		diagnostics = append(diagnostics, a)
		log.WithFields(logrus.Fields{"box": a.Box, "kind": a.Kind.String(), "a": a.A, "b": a.B}).Warn("bbox anomaly")
	}

	stringPosition := 0
	lastContentsPosition := -1
	for i := 0; i < boxCount; i++ {
		box, anomalies, err := DecodeRecord(records[i*RecordSize:(i+1)*RecordSize], i)
		if err != nil {
			return nil, err
		}
		for _, a := range anomalies {
			note(a)
		}

		// Offsets may go backwards; that is only worth a note
		if box.ContentPosition < lastContentsPosition {
			note(&BoundsAnomaly{Box: i, Kind: PositionRegression, A: lastContentsPosition, B: box.ContentPosition})
		}
		lastContentsPosition = box.ContentPosition

		// Clip the text span to the page text
		start, end := box.ContentPosition, box.ContentEnd()
		if end > len(text) {
			note(&BoundsAnomaly{Box: i, Kind: SpanOutOfRange, A: end, B: len(text)})
			end = len(text)
			if start > end {
				start = end
			}
		}
		box.text = string(text[start:end])
		box.trim = &trimCache{}

		box.StringPosition = stringPosition
		box.StringLength = utf8.RuneCountInString(box.text)
		boxes = append(boxes, box)
		stringPosition += box.StringLength
	}

	log.WithFields(logrus.Fields{"boxes": len(boxes), "text": len(text)}).Debug("decoded page text")
	return newPageText(page, pageStart, text, boxes, diagnostics, rd.cfg), nil
}
