package parser

import (
	"fmt"
	"io"
	"os"
)

// ParseOptions tunes decoding. A nil *ParseOptions uses the defaults.
type ParseOptions struct {
	Encoding Encoding
}

func (o *ParseOptions) encoding() Encoding {
	if o == nil || o.Encoding == "" {
		return EncodingUTF8
	}
	return o.Encoding
}

// Parse decodes a VAMAS file. It returns ErrNotRecognized when r has no
// signature line; any other error is a *DecodeError (or an option error)
// and no partial document is returned.
func Parse(r io.Reader, opts *ParseOptions) (*Document, error) {
	c, err := newCursor(r, opts.encoding())
	if err != nil {
		return nil, err
	}

	signature, ok, err := scanSignature(c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotRecognized
	}

	doc := NewDocument()
	hdr, err := decodeHeader(c, signature, doc)
	if err != nil {
		return nil, err
	}
	doc.Header = hdr

	state := &carriedState{}
	for i := 0; i < hdr.NumberOfBlocks; i++ {
		blk, err := decodeBlock(c, hdr, i, state, doc)
		if err != nil {
			return nil, err
		}
		doc.Blocks = append(doc.Blocks, blk)
	}
	return doc, nil
}

// ParseFile opens and decodes the VAMAS file at path.
func ParseFile(path string, opts *ParseOptions) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open VAMAS file: %w", err)
	}
	defer file.Close()

	return Parse(file, opts)
}
