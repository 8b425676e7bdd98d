package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Encoding names the character set of the input text.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingLatin1      Encoding = "latin1"
	EncodingWindows1252 Encoding = "windows-1252"
)

func (e Encoding) decoder() (*encoding.Decoder, error) {
	switch strings.ToLower(string(e)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", string(e))
	}
}

// Validate reports whether e names a supported character set.
func (e Encoding) Validate() error {
	_, err := e.decoder()
	return err
}

const maxLineLength = 1 << 20

// cursor reads the file one line at a time, strictly forward. block and
// field describe what is being decoded so errors can point at it.
type cursor struct {
	s     *bufio.Scanner
	line  int
	block int
	field string
}

func newCursor(r io.Reader, enc Encoding) (*cursor, error) {
	dec, err := enc.decoder()
	if err != nil {
		return nil, err
	}
	if dec != nil {
		r = dec.Reader(r)
	}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 4096), maxLineLength)
	s.Split(scanAnyLines)
	return &cursor{s: s, block: -1}, nil
}

// scanAnyLines is bufio.ScanLines that also ends a line on a lone '\r',
// so CR-only files from older instruments decode.
func scanAnyLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// need one more byte to tell "\r\n" from a lone "\r"
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func (c *cursor) fail(err error, raw string) *DecodeError {
	return &DecodeError{Line: c.line, Block: c.block, Field: c.field, Raw: raw, Err: err}
}

// nextRaw returns the next line without trimming.
func (c *cursor) nextRaw() (string, error) {
	if !c.s.Scan() {
		if err := c.s.Err(); err != nil {
			return "", c.fail(fmt.Errorf("read failed: %w", err), "")
		}
		c.line++
		return "", c.fail(ErrTruncatedFile, "")
	}
	c.line++
	return strings.TrimSuffix(c.s.Text(), "\r"), nil
}

func (c *cursor) nextLine() (string, error) {
	raw, err := c.nextRaw()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

func (c *cursor) nextInt() (int, error) {
	s, err := c.nextLine()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, c.fail(ErrMalformedNumber, s)
	}
	return n, nil
}

func (c *cursor) nextFloat() (float64, error) {
	s, err := c.nextLine()
	if err != nil {
		return 0, err
	}
	v, err := parseFloat(s)
	if err != nil {
		return 0, c.fail(ErrMalformedNumber, s)
	}
	return v, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// nextCount reads an integer that some writers emit in float notation.
func (c *cursor) nextCount() (int, error) {
	s, err := c.nextLine()
	if err != nil {
		return 0, err
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, c.fail(ErrMalformedNumber, s)
	}
	return int(v), nil
}

// nextText reads count raw lines into the "\n\t<line>\n..." comment form.
func (c *cursor) nextText(count int) (string, error) {
	var sb strings.Builder
	sb.WriteString("\n")
	for i := 0; i < count; i++ {
		raw, err := c.nextRaw()
		if err != nil {
			return "", err
		}
		sb.WriteString("\t")
		sb.WriteString(raw)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// formatFloat renders v the way the original converter printed floats into
// the synthesised strings: shortest round trip, always with a fraction or
// an exponent.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	if math.IsInf(v, 1) {
		return "inf"
	}
	if math.IsInf(v, -1) {
		return "-inf"
	}
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
