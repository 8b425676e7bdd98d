package parser

import (
	"encoding/json"
	"fmt"

	"github.com/Velocidex/ordereddict"
)

// Signature is the magic line every VAMAS file carries before its header.
const Signature = "VAMAS Surface Chemical Analysis Standard Data Transfer Format 1988 May 4"

// NumParameters is the number of standardised per-block parameters.
const NumParameters = 40

// ScanModeRegular marks an evenly spaced abscissa that is rebuilt from
// start and increment instead of being stored with the data.
const ScanModeRegular = "REGULAR"

// Document is the decoded content of one VAMAS file.
type Document struct {
	Header   *Header
	Blocks   []*Block
	Warnings []string // non-fatal notes collected while decoding
}

// NewDocument returns an empty document ready for decoding.
func NewDocument() *Document {
	return &Document{
		Blocks:   make([]*Block, 0),
		Warnings: make([]string, 0),
	}
}

func (d *Document) addWarning(format string, args ...any) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

// MarshalJSON renders the document as {"header": {...}, "blocks": [...]}
// keeping the file order of every key.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := ordereddict.NewDict()
	if d.Header != nil {
		out.Set("header", d.Header.Fields)
	}
	blocks := make([]*ordereddict.Dict, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		blocks = append(blocks, b.Fields)
	}
	out.Set("blocks", blocks)
	return json.Marshal(out)
}

// Header holds the file level fields. Fields keeps every decoded value in
// file order; the typed members are the values later decoding depends on.
type Header struct {
	Fields                    *ordereddict.Dict
	ExperimentMode            string // upper cased
	ScanMode                  string
	ExperimentalVariables     []Variable
	Selector                  ParameterSelector
	FutureUpgradeBlockEntries int
	NumberOfBlocks            int
}

// Variable is a label and its unit.
type Variable struct {
	Label string
	Unit  string
}

func (v Variable) String() string {
	return fmt.Sprintf("%s (%s)", v.Label, v.Unit)
}

// Abscissa describes a regularly spaced X axis.
type Abscissa struct {
	Label     string
	Units     string
	Start     float64
	Increment float64
}

// At returns the abscissa value of row r.
func (a Abscissa) At(r int) float64 {
	return a.Start + float64(r)*a.Increment
}

// Block is one measurement record.
type Block struct {
	Index      int
	Fields     *ordereddict.Dict
	Identifier string
	ScanMode   string
	Technique  string
	// Abscissa is nil unless the scan mode is REGULAR and field 31 was
	// decoded by this block or an earlier one.
	Abscissa           *Abscissa
	Variables          []Variable
	NumberOfDataPoints int
	Data               [][]float64
}

// Regular reports whether the block carries a synthesised X column.
func (b *Block) Regular() bool {
	return b.ScanMode == ScanModeRegular
}

// Get returns a field value by its key.
func (b *Block) Get(key string) (any, bool) {
	return b.Fields.Get(key)
}
