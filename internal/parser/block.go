package parser

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Velocidex/ordereddict"
)

// carriedState holds values a block may omit through the parameter
// selector. An omitted parameter keeps the value of the previous block.
type carriedState struct {
	date      [7]string // year, month, day, hours, minutes, seconds, GMT offset
	technique string
	variables []Variable
	abscissa  *Abscissa
}

func (s *carriedState) dateString() string {
	return strings.Join(s.date[:], "")
}

type blockContext struct {
	c     *cursor
	hdr   *Header
	block *Block
	state *carriedState
	doc   *Document
}

func (b *blockContext) set(key string, value any) {
	b.block.Fields.Set(key, value)
}

func (b *blockContext) warn(format string, args ...any) {
	b.doc.addWarning("block %d (line %d): %s", b.block.Index, b.c.line, fmt.Sprintf(format, args...))
}

// decodeBlock reads block index from c. Parameters are decoded in table
// order; each one is skipped without consuming input unless the selector
// lists it and its gate passes.
func decodeBlock(c *cursor, hdr *Header, index int, state *carriedState, doc *Document) (*Block, error) {
	c.block = index
	defer func() { c.field = "" }()

	blk := &Block{
		Index:    index,
		Fields:   ordereddict.NewDict(),
		ScanMode: hdr.ScanMode,
	}
	b := &blockContext{c: c, hdr: hdr, block: blk, state: state, doc: doc}
	b.set("scan_mode", hdr.ScanMode)

	c.field = "block_identifier"
	id, err := c.nextLine()
	if err != nil {
		return nil, err
	}
	blk.Identifier = id
	b.set("block_identifier", id)

	c.field = "sample_identifier"
	sample, err := c.nextLine()
	if err != nil {
		return nil, err
	}
	b.set("sample_identifier", sample)

	available := hdr.Selector.Available(index)
	for _, f := range fieldTable {
		c.field = f.Name
		if available.Has(f.ID) && (f.Gate == nil || f.Gate(b)) {
			if err := f.Decode(b); err != nil {
				return nil, err
			}
		}
		if f.ID == FieldGMTOffset {
			b.set("date", state.dateString())
		}
	}

	blk.Technique = state.technique
	blk.Variables = slices.Clone(state.variables)
	if blk.Regular() && state.abscissa != nil {
		a := *state.abscissa
		blk.Abscissa = &a
	}

	c.field = "future_upgrade_block_entries"
	entries, err := readLines(c, hdr.FutureUpgradeBlockEntries)
	if err != nil {
		return nil, err
	}
	b.set("future_upgrade_block_entries", entries)

	c.field = "number_of_data_points_in_block"
	if blk.NumberOfDataPoints, err = c.nextInt(); err != nil {
		return nil, err
	}
	b.set("number_of_data_points_in_block", blk.NumberOfDataPoints)

	nvars := len(blk.Variables)
	if nvars == 0 {
		return nil, c.fail(fmt.Errorf("%w: no corresponding variables", ErrInvalidBlock), "")
	}
	if blk.Regular() && blk.Abscissa == nil {
		return nil, c.fail(fmt.Errorf("%w: regular scan without abscissa", ErrInvalidBlock), "")
	}

	// The declared ranges are informational only; the matrix is trusted.
	c.field = "variables_ranges"
	ranges := make([]string, 0, nvars)
	for _, v := range blk.Variables {
		lo, err := c.nextFloat()
		if err != nil {
			return nil, err
		}
		hi, err := c.nextFloat()
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, fmt.Sprintf("%s: [%s, %s]", v, formatFloat(lo), formatFloat(hi)))
	}
	b.set("variables_ranges", ranges)

	if rem := blk.NumberOfDataPoints % nvars; rem != 0 {
		b.warn("%d data points do not divide into %d variables, dropping %d trailing values",
			blk.NumberOfDataPoints, nvars, rem)
	}

	c.field = "data_values"
	blk.Data, err = decodeMatrix(c, nvars, blk.NumberOfDataPoints, blk.Abscissa)
	if err != nil {
		return nil, err
	}
	b.set("data_values", blk.Data)
	return blk, nil
}
