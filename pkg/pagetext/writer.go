package pagetext

import (
	"bufio"
	"compress/flate"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Source is the raw material of a bbox stream: the page text and its boxes.
// Only the wire fields of each box are used.
type Source struct {
	PageStart int
	Text      []byte
	Boxes     []WordBox
}

// Encode writes src to w as a bbox stream
func Encode(w io.Writer, src *Source) error {
	// Validate what the header can carry
	if len(src.Boxes) > maxBoxCount {
		return fmt.Errorf("%d boxes exceed the format limit of %d", len(src.Boxes), maxBoxCount)
	}
	if len(src.Text) > maxTextLength {
		return fmt.Errorf("%d bytes of text exceed the format limit of %d", len(src.Text), maxTextLength)
	}
	if src.PageStart < math.MinInt32 || src.PageStart > math.MaxInt32 {
		return fmt.Errorf("page start %d does not fit in 32 bits", src.PageStart)
	}

	bw := bufio.NewWriter(w)
	header := make([]byte, headerSize)
	copy(header, Magic)
	binary.BigEndian.PutUint16(header[offBoxCount:], uint16(len(src.Boxes)))
	binary.BigEndian.PutUint16(header[offTextLength:], uint16(len(src.Text)))
	binary.BigEndian.PutUint32(header[offPageStart:], uint32(int32(src.PageStart)))
	if _, err := bw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// Records then text, in one raw DEFLATE stream
	zw, err := flate.NewWriter(bw, flate.BestCompression)
	if err != nil {
		return fmt.Errorf("failed to create deflate writer: %w", err)
	}
	rec := make([]byte, RecordSize)
	for i := range src.Boxes {
		if err := EncodeRecord(rec, &src.Boxes[i]); err != nil {
			return fmt.Errorf("box %d: %w", i, err)
		}
		if _, err := zw.Write(rec); err != nil {
			return fmt.Errorf("failed to write box %d: %w", i, err)
		}
	}
	if _, err := zw.Write(src.Text); err != nil {
		return fmt.Errorf("failed to write text: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish deflate stream: %w", err)
	}
	return bw.Flush()
}
