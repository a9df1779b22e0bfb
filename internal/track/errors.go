package track

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySegment is returned when a segment has no points.
	ErrEmptySegment = errors.New("track: empty segment")
	// ErrInvalidWindow is returned for a window of zero or one not smaller than the point count.
	ErrInvalidWindow = errors.New("track: invalid window")
	// ErrMissingTimestamp is returned when a point compared during annotation has no time.
	ErrMissingTimestamp = errors.New("track: missing timestamp")
	// ErrMissingField is returned when an extracted field is absent on some point.
	ErrMissingField = errors.New("track: missing field")
	// ErrZeroDuration is returned when two compared points are not strictly increasing in time.
	ErrZeroDuration = errors.New("track: zero or negative duration")
)

// PointError reports an annotation failure between point Index and the
// look-ahead point Other.
type PointError struct {
	Index int
	Other int
	Err   error
}

func (e *PointError) Error() string {
	return fmt.Sprintf("points %d and %d: %v", e.Index, e.Other, e.Err)
}

func (e *PointError) Unwrap() error { return e.Err }

// FieldError reports the first point lacking an extracted field.
type FieldError struct {
	Field string
	Index int
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("track: point %d has no %s", e.Index, e.Field)
}

func (e *FieldError) Is(target error) bool { return target == ErrMissingField }

// Class groups errors by what a caller can do about them.
type Class int

const (
	ClassNone       Class = iota // no error
	ClassNoData                  // nothing to analyze: skip
	ClassInvalid                 // data present but structurally unusable: abort or filter
	ClassDegenerate              // numerically degenerate: retry with another window
	ClassUnknown
)

func (c Class) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassNoData:
		return "no_data"
	case ClassInvalid:
		return "invalid"
	case ClassDegenerate:
		return "degenerate"
	default:
		return "unknown"
	}
}

// Classify maps an error returned by this package to its Class.
func Classify(err error) Class {
	switch {
	case err == nil:
		return ClassNone
	case errors.Is(err, ErrEmptySegment):
		return ClassNoData
	case errors.Is(err, ErrInvalidWindow),
		errors.Is(err, ErrMissingTimestamp),
		errors.Is(err, ErrMissingField):
		return ClassInvalid
	case errors.Is(err, ErrZeroDuration):
		return ClassDegenerate
	default:
		return ClassUnknown
	}
}
