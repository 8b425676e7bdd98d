package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/sdeskprojs/vamas_converter_go/internal/parser"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var plotColors = []color.Color{
	color.RGBA{R: 255, A: 255},         // Red
	color.RGBA{B: 255, A: 255},         // Blue
	color.RGBA{G: 128, A: 255},         // Green
	color.RGBA{R: 255, G: 165, A: 255}, // Orange
	color.RGBA{R: 128, B: 128, A: 255}, // Purple
	color.RGBA{G: 128, B: 128, A: 255}, // Teal
}

// CreateSpectrumPlot draws every signal column of a block against its
// abscissa, or against the point number when the scan is not REGULAR.
func CreateSpectrumPlot(blk *parser.Block, width, height float64) ([]byte, error) {
	if blk == nil || len(blk.Data) == 0 {
		return nil, fmt.Errorf("no data values to plot")
	}
	_, info, data := parser.Extract(blk)

	p := plot.New()
	p.Title.Text = blk.Identifier
	first := 0
	if info.HasColumnX {
		first = 1
		p.X.Label.Text = axisLabel(info.ColumnX, info.Units[0])
		// binding energy is conventionally drawn decreasing to the right
		if strings.Contains(strings.ToLower(info.ColumnX), "binding") {
			p.X.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
		}
	} else {
		p.X.Label.Text = "Point"
	}
	if first < len(info.ColumnNames) {
		p.Y.Label.Text = info.ColumnNames[first]
	}
	p.Add(plotter.NewGrid())

	linesPlotted := 0
	for c := first; c < len(info.ColumnNames); c++ {
		pts := make(plotter.XYs, 0, len(data))
		for r, row := range data {
			if c >= len(row) || math.IsNaN(row[c]) {
				continue
			}
			x := float64(r)
			if info.HasColumnX {
				x = row[0]
			}
			pts = append(pts, plotter.XY{X: x, Y: row[c]})
		}
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create line for %s: %v", info.ColumnNames[c], err)
		}
		line.Color = plotColors[linesPlotted%len(plotColors)]
		line.LineStyle.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(info.ColumnNames[c], line)
		linesPlotted++
	}
	if linesPlotted == 0 {
		return nil, fmt.Errorf("block %s has no plottable values", blk.Identifier)
	}
	p.Legend.Top = true

	return renderPNG(p, width, height)
}

func axisLabel(label, unit string) string {
	if unit == "" {
		return label
	}
	return fmt.Sprintf("%s (%s)", label, unit)
}

func renderPNG(p *plot.Plot, width, height float64) ([]byte, error) {
	writer, err := p.WriterTo(vg.Points(width), vg.Points(height), "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %v", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %v", err)
	}
	return buf.Bytes(), nil
}

// generateTicks returns ticks every step from min to max inclusive.
func generateTicks(min, max, step int) []plot.Tick {
	if step <= 0 {
		step = 1
	}
	var ticks []plot.Tick
	for i := min; i <= max; i += step {
		ticks = append(ticks, plot.Tick{Value: float64(i), Label: fmt.Sprintf("%d", i)})
	}
	if len(ticks) == 0 {
		ticks = append(ticks, plot.Tick{Value: float64(min), Label: fmt.Sprintf("%d", min)})
	}
	return ticks
}
