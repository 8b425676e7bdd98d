package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Velocidex/ordereddict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdeskprojs/vamas_converter_go/internal/analysis"
	"github.com/sdeskprojs/vamas_converter_go/internal/parser"
)

var pngMagic = []byte("\x89PNG")

func sampleDocument(t *testing.T) *parser.Document {
	lines := []string{
		parser.Signature, "inst", "model", "op", "exp",
		"0", "NORM", "REGULAR", "1", "0", "1", "32", "0", "0", "0", "2",
	}
	block := func(id string, start string, values ...string) []string {
		b := []string{id, "s", "2024", "1", "2", "3", "4", "5", "0", "0", "XPS", "Al", "1486.6",
			"300", "100", "100", "54.7", "0", "FAT", "80", "1", "4.5", "0", "700", "300", "0", "0",
			"C", "1s", "-1", "Binding Energy", "eV", start, "0.5",
			"1", "Intensity", "d",
			"pulse counting", "0.1", "1", "0", "0", "0", "0", "0"}
		b = append(b, "4", "0", "100")
		return append(b, values...)
	}
	lines = append(lines, block("C 1s", "280", "1", "9", "5", "3")...)
	// second block only carries field 32, so it inherits the abscissa
	lines = append(lines, "O 1s", "s", "1", "Intensity", "d", "4", "0", "100", "2", "40", "10", "7")

	doc, err := parser.Parse(strings.NewReader(strings.Join(lines, "\n")), nil)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 2)
	return doc
}

func TestCreateSpectrumPlot(t *testing.T) {
	doc := sampleDocument(t)
	img, err := CreateSpectrumPlot(doc.Blocks[0], 400, 200)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngMagic))

	_, err = CreateSpectrumPlot(&parser.Block{}, 400, 200)
	assert.Error(t, err)
	_, err = CreateSpectrumPlot(nil, 400, 200)
	assert.Error(t, err)
}

func TestCreateIntensityHeatmap(t *testing.T) {
	doc := sampleDocument(t)
	img, err := CreateIntensityHeatmap(doc, "Intensity", 500, 250)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngMagic))

	_, err = CreateIntensityHeatmap(parser.NewDocument(), "empty", 500, 250)
	assert.Error(t, err)
}

func TestIntensityGrid(t *testing.T) {
	g := intensityGrid{z: [][]float64{{1, 2, 3}, {4}}, cols: 3}
	c, r := g.Dims()
	assert.Equal(t, 3, c)
	assert.Equal(t, 2, r)
	assert.Equal(t, 4.0, g.Z(0, 1))
	assert.True(t, g.Z(2, 1) != g.Z(2, 1)) // NaN
	assert.Equal(t, 2.0, g.X(2))
}

func TestGenerateTicks(t *testing.T) {
	ticks := generateTicks(0, 10, 5)
	require.Len(t, ticks, 3)
	assert.Equal(t, "10", ticks[2].Label)
	assert.Len(t, generateTicks(3, 1, 0), 1)
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "C 1s_ke.txt", OutputName("C 1s"))
	assert.Equal(t, "a_b_c_ke.txt", OutputName("a/b\\c"))
	assert.Equal(t, "block_ke.txt", OutputName("  "))
}

func TestWriteTSV(t *testing.T) {
	meta := ordereddict.NewDict().
		Set("block_identifier", "C 1s").
		Set("block_comment", "\n\tfirst\n\tsecond\n").
		Set("abscissa_start", 280.0).
		Set("corresponding_variables", []string{"Intensity (d)"})

	var buf bytes.Buffer
	err := WriteTSV(&buf, meta, []string{"Binding Energy", "Intensity (d)"}, [][]float64{{280, 1}, {280.5, 9}})
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"# block_identifier: C 1s",
		"# block_comment: first | second",
		"# abscissa_start: 280",
		`# corresponding_variables: ["Intensity (d)"]`,
		"Binding Energy\tIntensity (d)",
		"280\t1",
		"280.5\t9",
		"",
	}, "\n"), buf.String())
}

func TestWriteTSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), OutputName("x"))
	require.NoError(t, WriteTSVFile(path, nil, []string{"a"}, [][]float64{{1}}))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n", string(raw))

	assert.Error(t, WriteTSVFile(filepath.Join(t.TempDir(), "missing", "x.txt"), nil, nil, nil))
}

func TestBuildPDFReport(t *testing.T) {
	doc := sampleDocument(t)
	results, err := analysis.AnalyzeDocument(doc)
	require.NoError(t, err)
	results.Source = "sample.vms"

	images := map[string][]byte{}
	images[HeatmapKey], err = CreateIntensityHeatmap(doc, "Intensity", 500, 250)
	require.NoError(t, err)
	for _, blk := range doc.Blocks {
		images[SpectrumKey(blk.Index)], err = CreateSpectrumPlot(blk, 400, 200)
		require.NoError(t, err)
	}

	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, BuildPDFReport(path, doc, results, images))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	empty := filepath.Join(t.TempDir(), "empty.pdf")
	require.NoError(t, BuildPDFReport(empty, nil, nil, nil))
}
