package pagetext

import (
	"errors"
	"fmt"
)

// ErrBadMagic is wrapped by the FormatError returned for a stream that does
// not start with the bbox magic literal.
var ErrBadMagic = errors.New("bad magic")

// FormatError reports a bbox stream or record that cannot be decoded.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bbox format error: %s: %v", e.Reason, e.Err)
	}
	return "bbox format error: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

func formatErrorf(err error, format string, args ...interface{}) *FormatError {
	return &FormatError{Reason: fmt.Sprintf(format, args...), Err: err}
}

// AnomalyKind identifies a non-fatal inconsistency in decoded data
type AnomalyKind int

const (
	// SwappedX means the lower-right X was left of the upper-left X
	SwappedX AnomalyKind = iota + 1
	// SwappedY means the lower-right Y was above the upper-left Y
	SwappedY
	// PositionRegression means a box's text starts before the previous box's text started
	PositionRegression
	// SpanOutOfRange means a box's text span extends past the page text
	SpanOutOfRange
)

func (k AnomalyKind) String() string {
	switch k {
	case SwappedX:
		return "swapped-x"
	case SwappedY:
		return "swapped-y"
	case PositionRegression:
		return "position-regression"
	case SpanOutOfRange:
		return "span-out-of-range"
	}
	return fmt.Sprintf("anomaly(%d)", int(k))
}

// BoundsAnomaly records a corrected or tolerated inconsistency in one record.
// Decoding continues past it.
type BoundsAnomaly struct {
	Box  int // Record index
	Kind AnomalyKind
	A, B int // The two values that disagreed
}

func (a *BoundsAnomaly) Error() string {
	return fmt.Sprintf("box %d: %s (%d, %d)", a.Box, a.Kind, a.A, a.B)
}
