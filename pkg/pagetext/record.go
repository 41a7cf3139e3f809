package pagetext

import (
	"encoding/binary"
	"fmt"
	"math"
)

// RecordSize is the length of one encoded word record
const RecordSize = 16

// Record layout, all integers big-endian:
//
//	0-1   upper-left X      8   char count
//	2-3   upper-left Y      9   font size in half points
//	4-5   lower-right X     10  flags (see Attr)
//	6-7   lower-right Y     11  content byte length
//	12    unused            13  starts code (bits 7-6), part of speech (bits 5-0)
//	14-15 content byte offset
const (
	offULX      = 0
	offULY      = 2
	offLRX      = 4
	offLRY      = 6
	offChars    = 8
	offFontSize = 9
	offFlags    = 10
	offLength   = 11
	offPOS      = 13
	offPosition = 14
)

// DecodeRecord parses one record into a WordBox. The text fields
// (StringPosition, StringLength and the text itself) are left for the caller.
// Inverted corners are swapped and reported as anomalies; a record of the
// wrong length is a FormatError.
func DecodeRecord(rec []byte, index int) (WordBox, []*BoundsAnomaly, error) {
	if len(rec) != RecordSize {
		return WordBox{}, nil, formatErrorf(nil, "record %d has %d bytes, want %d", index, len(rec), RecordSize)
	}

	ulx := int(binary.BigEndian.Uint16(rec[offULX:]))
	uly := int(binary.BigEndian.Uint16(rec[offULY:]))
	lrx := int(binary.BigEndian.Uint16(rec[offLRX:]))
	lry := int(binary.BigEndian.Uint16(rec[offLRY:]))

	// Normalize inverted corners
	var anomalies []*BoundsAnomaly
	if lry < uly {
		anomalies = append(anomalies, &BoundsAnomaly{Box: index, Kind: SwappedY, A: uly, B: lry})
		uly, lry = lry, uly
	}
	if lrx < ulx {
		anomalies = append(anomalies, &BoundsAnomaly{Box: index, Kind: SwappedX, A: ulx, B: lrx})
		ulx, lrx = lrx, ulx
	}

	pos := rec[offPOS]
	box := WordBox{
		Bounds:          Rect{X: ulx, Y: uly, Width: lrx - ulx, Height: lry - uly},
		CharCount:       int(rec[offChars]),
		FontSize:        float64(rec[offFontSize]) / 2.0,
		Attrs:           Attr(rec[offFlags]) | startsAttr(pos>>6),
		PartOfSpeech:    pos & 0x3f,
		ContentLength:   int(rec[offLength]),
		ContentPosition: int(binary.BigEndian.Uint16(rec[offPosition:])),
		index:           index,
	}
	return box, anomalies, nil
}

// EncodeRecord writes the wire form of b into rec, which must hold RecordSize bytes.
// Values that do not fit their fields are an error.
func EncodeRecord(rec []byte, b *WordBox) error {
	if len(rec) < RecordSize {
		return fmt.Errorf("record buffer has %d bytes, want %d", len(rec), RecordSize)
	}
	r := b.Bounds
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("box %s has negative size", r)
	}
	for _, v := range []int{r.X, r.Y, r.MaxX(), r.MaxY(), b.ContentPosition} {
		if v < 0 || v > math.MaxUint16 {
			return fmt.Errorf("value %d does not fit in 16 bits", v)
		}
	}
	ticks := math.Round(b.FontSize * 2)
	switch {
	case b.CharCount < 0 || b.CharCount > math.MaxUint8:
		return fmt.Errorf("char count %d does not fit in 8 bits", b.CharCount)
	case b.ContentLength < 0 || b.ContentLength > math.MaxUint8:
		return fmt.Errorf("content length %d does not fit in 8 bits", b.ContentLength)
	case ticks < 0 || ticks > math.MaxUint8:
		return fmt.Errorf("font size %.1f out of range", b.FontSize)
	case b.PartOfSpeech > 0x3f:
		return fmt.Errorf("part of speech %d does not fit in 6 bits", b.PartOfSpeech)
	}

	binary.BigEndian.PutUint16(rec[offULX:], uint16(r.X))
	binary.BigEndian.PutUint16(rec[offULY:], uint16(r.Y))
	binary.BigEndian.PutUint16(rec[offLRX:], uint16(r.MaxX()))
	binary.BigEndian.PutUint16(rec[offLRY:], uint16(r.MaxY()))
	rec[offChars] = byte(b.CharCount)
	rec[offFontSize] = byte(ticks)
	rec[offFlags] = byte(b.Attrs & 0xff)
	rec[offLength] = byte(b.ContentLength)
	rec[12] = 0
	rec[offPOS] = startsCode(b.Attrs)<<6 | b.PartOfSpeech
	binary.BigEndian.PutUint16(rec[offPosition:], uint16(b.ContentPosition))
	return nil
}
