package parser

import (
	"errors"
	"io"
)

// scanSignature advances past the signature line. ok is false when the
// input ends without one.
func scanSignature(c *cursor) (line string, ok bool, err error) {
	for {
		line, err = c.nextLine()
		if err != nil {
			if errors.Is(err, ErrTruncatedFile) {
				return "", false, nil
			}
			return "", false, err
		}
		if line == Signature {
			return line, true, nil
		}
	}
}

// IsVAMAS reports whether r contains the VAMAS signature line.
func IsVAMAS(r io.Reader) (bool, error) {
	c, err := newCursor(r, EncodingUTF8)
	if err != nil {
		return false, err
	}
	_, ok, err := scanSignature(c)
	return ok, err
}
