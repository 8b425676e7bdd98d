package parser

import "github.com/Velocidex/ordereddict"

// Info describes the columns of a projected block.
type Info struct {
	ColumnNames []string
	// ColumnX is the abscissa label. HasColumnX is false when the block is
	// not a REGULAR scan, in which case ColumnX must not be used.
	ColumnX    string
	HasColumnX bool
	Units      []string
}

// Extract reshapes a block into its metadata (every field except the
// matrix), its column description and its numeric matrix.
func Extract(b *Block) (*ordereddict.Dict, Info, [][]float64) {
	meta := ordereddict.NewDict()
	for _, key := range b.Fields.Keys() {
		if key == "data_values" {
			continue
		}
		v, _ := b.Fields.Get(key)
		meta.Set(key, v)
	}

	var info Info
	if b.Regular() && b.Abscissa != nil {
		info.ColumnX = b.Abscissa.Label
		info.HasColumnX = true
		info.ColumnNames = append(info.ColumnNames, b.Abscissa.Label)
		info.Units = append(info.Units, b.Abscissa.Units)
	}
	for _, v := range b.Variables {
		info.ColumnNames = append(info.ColumnNames, v.String())
		info.Units = append(info.Units, v.Unit)
	}
	return meta, info, b.Data
}
