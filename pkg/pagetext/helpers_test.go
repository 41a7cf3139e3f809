package pagetext

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// encodeSource runs src through Encode
func encodeSource(t *testing.T, src *Source) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, src))
	return buf.Bytes()
}

// decodeSource encodes src and decodes it again with the given reader
func decodeSource(t *testing.T, rd *Reader, src *Source) *PageText {
	t.Helper()
	pt, err := rd.Decode(0, bytes.NewReader(encodeSource(t, src)))
	require.NoError(t, err)
	return pt
}

// composeWords lays out plain words separated by spaces, one box per word,
// each 10 pixels wide on a single line
func composeWords(words ...string) *Source {
	c := NewComposer(0)
	for i, w := range words {
		attrs := EndsWord
		if i == len(words)-1 {
			attrs = EndsLine
		}
		c.AddWord(Word{
			Text:     w,
			Bounds:   Rect{X: 10 + 20*i, Y: 10, Width: 10, Height: 10},
			FontSize: 10,
			Attrs:    attrs,
		})
	}
	return c.Source()
}

// rawRecord builds a record byte by byte, allowing values Encode rejects
func rawRecord(ulx, uly, lrx, lry uint16, chars, ticks, flags, length, pos byte, position uint16) []byte {
	rec := make([]byte, RecordSize)
	binary.BigEndian.PutUint16(rec[0:], ulx)
	binary.BigEndian.PutUint16(rec[2:], uly)
	binary.BigEndian.PutUint16(rec[4:], lrx)
	binary.BigEndian.PutUint16(rec[6:], lry)
	rec[8] = chars
	rec[9] = ticks
	rec[10] = flags
	rec[11] = length
	rec[13] = pos
	binary.BigEndian.PutUint16(rec[14:], position)
	return rec
}

// rawStream assembles a stream from hand-made records and text
func rawStream(t *testing.T, pageStart int32, records [][]byte, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	header := make([]byte, 20)
	copy(header, Magic)
	binary.BigEndian.PutUint16(header[12:], uint16(len(records)))
	binary.BigEndian.PutUint16(header[14:], uint16(len(text)))
	binary.BigEndian.PutUint32(header[16:], uint32(pageStart))
	buf.Write(header)

	zw, err := flate.NewWriter(&buf, flate.DefaultCompression)
	require.NoError(t, err)
	for _, rec := range records {
		_, err = zw.Write(rec)
		require.NoError(t, err)
	}
	_, err = zw.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// texts returns the text of each box
func texts(boxes []*WordBox) []string {
	result := make([]string, len(boxes))
	for i, b := range boxes {
		result[i] = b.Text()
	}
	return result
}
