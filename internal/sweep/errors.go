package sweep

import (
	"errors"
	"fmt"
)

// Sentinel errors for sweep-file parsing and validation.
var (
	// ErrUnexpectedEOF indicates the file ended in the middle of an entry.
	ErrUnexpectedEOF = errors.New("unexpected end of sweep file")
	// ErrBadNumber indicates a token could not be read as a number.
	ErrBadNumber = errors.New("malformed number")
	// ErrZeroStep indicates a range entry with a zero step.
	ErrZeroStep = errors.New("range step must be nonzero")
	// ErrEmptyList indicates an explicit value list with no values.
	ErrEmptyList = errors.New("value list is empty")
	// ErrUnterminatedList indicates an explicit value list missing its closing brace.
	ErrUnterminatedList = errors.New("value list missing closing }")
	// ErrExtraLabel indicates more than one bare label token before an operator.
	ErrExtraLabel = errors.New("parameter entry has more than one label")
	// ErrBadOverride indicates a malformed spin override entry.
	ErrBadOverride = errors.New("malformed spin override")
	// ErrLabelLength indicates two parameters under one label with different
	// sequence lengths.
	ErrLabelLength = errors.New("inconsistent value count under label")
	// ErrMissingKey indicates a required fixed key is absent from the file.
	ErrMissingKey = errors.New("required key missing")
)

// ParseError records a parse failure with source context. It wraps one of
// the sentinel errors above for errors.Is checks.
type ParseError struct {
	Line int    // 1-based line where the entry started, 0 if unknown
	Key  string // parameter key being parsed, if any
	Err  error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Key != "":
		return fmt.Sprintf("line %d: key %q: %v", e.Line, e.Key, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	default:
		return e.Err.Error()
	}
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *ParseError) Unwrap() error {
	return e.Err
}
