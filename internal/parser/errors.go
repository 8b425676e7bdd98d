package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrNotRecognized is returned when the input carries no VAMAS
	// signature. Callers treat it as "skip this input", not as a failure.
	ErrNotRecognized   = errors.New("not a VAMAS file")
	ErrTruncatedFile   = errors.New("unexpected end of file")
	ErrMalformedNumber = errors.New("malformed number")
	ErrInvalidBlock    = errors.New("invalid block")
)

// DecodeError locates a fatal decoding failure. Block is -1 while the
// header is being decoded.
type DecodeError struct {
	Line  int
	Block int
	Field string
	Raw   string
	Err   error
}

func (e *DecodeError) Error() string {
	where := "header"
	if e.Block >= 0 {
		where = fmt.Sprintf("block %d", e.Block)
	}
	if e.Field != "" {
		where += ", " + e.Field
	}
	msg := fmt.Sprintf("line %d (%s): %v", e.Line, where, e.Err)
	if e.Raw != "" {
		msg += fmt.Sprintf(" %q", e.Raw)
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

func isMalformed(err error) bool {
	return errors.Is(err, ErrMalformedNumber)
}
