package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fieldIDs(ids ...int) []FieldID {
	out := make([]FieldID, 0, len(ids))
	for _, id := range ids {
		out = append(out, FieldID(id))
	}
	return out
}

func allIDsExcept(skip ...int) []FieldID {
	out := make([]FieldID, 0, NumParameters)
	for id := 1; id <= NumParameters; id++ {
		keep := true
		for _, s := range skip {
			if s == id {
				keep = false
			}
		}
		if keep {
			out = append(out, FieldID(id))
		}
	}
	return out
}

func TestParameterSelector_Available(t *testing.T) {
	tests := []struct {
		name     string
		selector ParameterSelector
		block    int
		want     []FieldID
	}{
		{"zero count", ParameterSelector{}, 3, allIDsExcept()},
		{"exclusion", ParameterSelector{Count: -2, List: []int{14, 22}}, 1, allIDsExcept(14, 22)},
		{"inclusion", ParameterSelector{Count: 3, List: []int{32, 9, 1}}, 2, fieldIDs(1, 9, 32)},
		{"first block ignores exclusion", ParameterSelector{Count: -1, List: []int{5}}, 0, allIDsExcept()},
		{"first block ignores inclusion", ParameterSelector{Count: 1, List: []int{5}}, 0, allIDsExcept()},
		{"out of range ignored", ParameterSelector{Count: 2, List: []int{0, 41}}, 1, fieldIDs()},
		{"duplicates", ParameterSelector{Count: 2, List: []int{7, 7}}, 1, fieldIDs(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.selector.Available(tt.block).IDs())
		})
	}
}

func TestFieldSet_Has(t *testing.T) {
	s := AllFields()
	assert.True(t, s.Has(1))
	assert.True(t, s.Has(40))
	assert.False(t, s.Has(0))
	assert.False(t, s.Has(41))
}

func TestFieldTable_Order(t *testing.T) {
	for i, f := range fieldTable {
		assert.Equal(t, FieldID(i+1), f.ID, f.Name)
		assert.NotNil(t, f.Decode, f.Name)
		assert.Equal(t, f.Name, FieldName(f.ID))
	}
	assert.Equal(t, "field 41", FieldName(41))
}

func TestFieldTable_Gates(t *testing.T) {
	ctx := func(mode, scan, technique string) *blockContext {
		return &blockContext{
			hdr:   &Header{ExperimentMode: mode, ScanMode: scan},
			state: &carriedState{technique: technique},
		}
	}
	gate := func(id FieldID) func(*blockContext) bool { return fieldTable[id-1].Gate }

	assert.True(t, gate(FieldCoordinates)(ctx("MAP", "", "")))
	assert.False(t, gate(FieldCoordinates)(ctx("NORM", "", "")))

	assert.True(t, gate(FieldSputteringIon)(ctx("SDP", "", "XPS")))
	assert.True(t, gate(FieldSputteringIon)(ctx("NORM", "", "SIMS")))
	assert.False(t, gate(FieldSputteringIon)(ctx("NORM", "", "SIMS ENERGY SPEC")))
	assert.False(t, gate(FieldSputteringIon)(ctx("NORM", "", "XPS")))

	assert.True(t, gate(FieldFieldOfView)(ctx("SEM", "", "")))
	assert.False(t, gate(FieldLinescan)(ctx("MAP", "", "")))
	assert.True(t, gate(FieldLinescan)(ctx("MAPSV", "", "")))

	assert.True(t, gate(FieldDifferentialWidth)(ctx("NORM", "", "AES DIFF")))
	assert.False(t, gate(FieldDifferentialWidth)(ctx("NORM", "", "AES DIR")))

	assert.True(t, gate(FieldAbscissa)(ctx("NORM", "REGULAR", "")))
	assert.False(t, gate(FieldAbscissa)(ctx("NORM", "regular", "")))

	assert.True(t, gate(FieldSputteringSource)(ctx("SDPSV", "", "UPS")))
	assert.False(t, gate(FieldSputteringSource)(ctx("SDP", "", "SIMS")))
	assert.False(t, gate(FieldSputteringSource)(ctx("NORM", "", "XPS")))

	for _, id := range []FieldID{FieldYear, FieldTechnique, FieldCorrespondingVariables, FieldAdditionalParameters} {
		assert.Nil(t, fieldTable[id-1].Gate, FieldName(id))
	}
}
