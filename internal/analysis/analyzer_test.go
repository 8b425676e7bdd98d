package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdeskprojs/vamas_converter_go/internal/parser"
)

const twoBlocks = `VAMAS Surface Chemical Analysis Standard Data Transfer Format 1988 May 4
inst
model
op
exp
0
NORM
REGULAR
1
0
-1
8
0
0
0
2
wide
s
2024
1
2
3
4
5
0
0
XPS
Al
1486.6
300
100
100
54.7
0
FAT
80
1
4.5
0
700
300
0
0
C
1s
-1
Binding Energy
eV
280
0.5
1
Intensity
d
pulse counting
0.1
1
0
0
0
0
0
4
1
9
1
9
5
3
narrow
s
2024
1
2
3
4
5
0
XPS
Al
1486.6
300
100
100
54.7
0
FAT
20
1
4.5
0
700
300
0
0
O
1s
-1
Binding Energy
eV
530
0.1
1
Intensity
d
pulse counting
0.1
1
0
0
0
0
0
3
2
40
2
40
10
`

func parseTwoBlocks(t *testing.T) *parser.Document {
	doc, err := parser.Parse(strings.NewReader(twoBlocks), nil)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 2)
	return doc
}

func TestZoomFactor(t *testing.T) {
	z, err := ZoomFactor([][]float64{{280, 1}, {281.5, 2}, {282, 3}})
	require.NoError(t, err)
	assert.InDelta(t, 1/3.0, z, 1e-12)

	_, err = ZoomFactor(nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestColumn(t *testing.T) {
	data := [][]float64{{1, 2}, {3}, {5, 6}}
	assert.Equal(t, []float64{1, 3, 5}, Column(data, 0))
	assert.Equal(t, []float64{2, 6}, Column(data, 1))
}

func TestColumnStats(t *testing.T) {
	cs := columnStats("y", "d", []float64{2, 4, math.NaN(), 6})
	assert.Equal(t, 3, cs.NumValid)
	assert.Equal(t, 2.0, cs.Min)
	assert.Equal(t, 6.0, cs.Max)
	assert.Equal(t, 4.0, cs.Range)
	assert.Equal(t, 4.0, cs.Mean)
	assert.InDelta(t, math.Sqrt(8.0/3.0), cs.StdDev, 1e-12)

	empty := columnStats("y", "d", []float64{math.NaN()})
	assert.Equal(t, 0, empty.NumValid)
	assert.True(t, math.IsNaN(empty.Mean))

	single := columnStats("y", "d", []float64{7})
	assert.Equal(t, 0.0, single.StdDev)
}

func TestAnalyzeDocument(t *testing.T) {
	doc := parseTwoBlocks(t)
	results, err := AnalyzeDocument(doc)
	require.NoError(t, err)
	require.Len(t, results.Results, 2)
	assert.Empty(t, results.AnalysisErrors)

	wide := results.Results[0]
	assert.Equal(t, "wide", wide.BlockID)
	assert.Equal(t, "XPS", wide.Technique)
	assert.Equal(t, "C", wide.Species)
	assert.Equal(t, "1s", wide.Transition)
	assert.Equal(t, 4, wide.NumRows)
	assert.Equal(t, 280.0, wide.XMin)
	assert.Equal(t, 281.5, wide.XMax)
	assert.InDelta(t, 1/2.5, wide.Zoom, 1e-12)
	assert.Equal(t, 9.0, wide.PeakY)
	assert.Equal(t, 280.5, wide.PeakX)
	require.Len(t, wide.Columns, 2)
	assert.Equal(t, "Binding Energy", wide.Columns[0].Name)
	assert.Equal(t, "Intensity (d)", wide.Columns[1].Name)

	assert.Equal(t, []string{"narrow", "wide"}, []string{results.RankedByPeak[0].BlockID, results.RankedByPeak[1].BlockID})
	assert.Equal(t, 40.0, results.RankedByPeak[0].Value)
	assert.Equal(t, "narrow", results.RankedBySpan[0].BlockID)
	assert.Equal(t, 38.0, results.RankedBySpan[0].Value)
	assert.Len(t, results.RankedByNoise, 2)
}

func TestAnalyzeDocument_Empty(t *testing.T) {
	_, err := AnalyzeDocument(nil)
	assert.Error(t, err)
	_, err = AnalyzeDocument(parser.NewDocument())
	assert.Error(t, err)
}
