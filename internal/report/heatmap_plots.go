package report

import (
	"fmt"
	"image/color"
	"math"

	"github.com/sdeskprojs/vamas_converter_go/internal/parser"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
)

// intensityGrid lays blocks out as rows and data points as columns. Short
// blocks are padded with NaN.
type intensityGrid struct {
	z    [][]float64
	cols int
}

func (g intensityGrid) Dims() (c, r int) { return g.cols, len(g.z) }

func (g intensityGrid) Z(c, r int) float64 {
	if c < len(g.z[r]) {
		return g.z[r][c]
	}
	return math.NaN()
}

func (g intensityGrid) X(c int) float64 { return float64(c) }
func (g intensityGrid) Y(r int) float64 { return float64(r) }

// signalValues returns the first signal column of a block.
func signalValues(blk *parser.Block) []float64 {
	col := 0
	if blk.Regular() && blk.Abscissa != nil {
		col = 1
	}
	out := make([]float64, 0, len(blk.Data))
	for _, row := range blk.Data {
		if col < len(row) {
			out = append(out, row[col])
		} else {
			out = append(out, math.NaN())
		}
	}
	return out
}

// CreateIntensityHeatmap draws the first signal column of every block as
// one heatmap row. Depth profiles and maps show their evolution this way.
func CreateIntensityHeatmap(doc *parser.Document, plotTitle string, width, height float64) ([]byte, error) {
	if doc == nil || len(doc.Blocks) == 0 {
		return nil, fmt.Errorf("no blocks to plot heatmap")
	}

	grid := intensityGrid{}
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for _, blk := range doc.Blocks {
		row := signalValues(blk)
		grid.z = append(grid.z, row)
		grid.cols = max(grid.cols, len(row))
		for _, v := range row {
			if !math.IsNaN(v) {
				minZ = math.Min(minZ, v)
				maxZ = math.Max(maxZ, v)
			}
		}
	}
	if grid.cols == 0 || math.IsInf(minZ, 1) {
		return nil, fmt.Errorf("no data values found for heatmap")
	}
	if minZ == maxZ {
		maxZ = minZ + 1
	}

	p := plot.New()
	p.Title.Text = plotTitle
	p.X.Label.Text = "Point"
	p.Y.Label.Text = "Block"

	yTicks := make([]plot.Tick, len(doc.Blocks))
	for i, blk := range doc.Blocks {
		yTicks[i] = plot.Tick{Value: float64(i), Label: blk.Identifier}
	}
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.Y.Min = -0.5
	p.Y.Max = float64(len(doc.Blocks)) - 0.5

	step := max(grid.cols/10, 1)
	p.X.Tick.Marker = plot.ConstantTicks(generateTicks(0, grid.cols-1, step))
	p.X.Min = -0.5
	p.X.Max = float64(grid.cols) - 0.5

	hm := plotter.NewHeatMap(grid, palette.Heat(16, 1))
	hm.Min = minZ
	hm.Max = maxZ
	hm.NaN = color.Gray{Y: 200}
	p.Add(hm)

	return renderPNG(p, width, height)
}
