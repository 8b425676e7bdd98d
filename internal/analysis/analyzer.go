package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/sdeskprojs/vamas_converter_go/internal/parser"
)

// ErrNoData is returned by ZoomFactor for an empty matrix.
var ErrNoData = errors.New("no data values")

// Helper to calculate mean
func calculateMean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// Population standard deviation, 0 for a single value.
func calculateStdDev(data []float64, mean float64) float64 {
	if len(data) < 1 || math.IsNaN(mean) {
		return math.NaN()
	}
	if len(data) == 1 {
		return 0.0
	}
	sumSqDiff := 0.0
	for _, v := range data {
		sumSqDiff += (v - mean) * (v - mean)
	}
	return math.Sqrt(sumSqDiff / float64(len(data)))
}

func calculateMinMax(data []float64) (float64, float64) {
	if len(data) == 0 {
		return math.NaN(), math.NaN()
	}
	minVal, maxVal := data[0], data[0]
	for _, v := range data[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

// Column returns column c of data, skipping rows that are too short.
func Column(data [][]float64, c int) []float64 {
	out := make([]float64, 0, len(data))
	for _, row := range data {
		if c < len(row) {
			out = append(out, row[c])
		}
	}
	return out
}

// ZoomFactor returns the display scale 1 / (max(x) - min(x) + 1) where x
// is the first column of data.
func ZoomFactor(data [][]float64) (float64, error) {
	x := Column(data, 0)
	if len(x) == 0 {
		return 0, ErrNoData
	}
	minX, maxX := calculateMinMax(x)
	return 1 / (maxX - minX + 1), nil
}

func columnStats(name, unit string, values []float64) ColumnStats {
	cs := newColumnStats(name, unit)
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	cs.NumValid = len(valid)
	if len(valid) == 0 {
		return cs
	}
	cs.Min, cs.Max = calculateMinMax(valid)
	cs.Range = cs.Max - cs.Min
	cs.Mean = calculateMean(valid)
	cs.StdDev = calculateStdDev(valid, cs.Mean)
	return cs
}

func stringField(b *parser.Block, key string) string {
	if v, ok := b.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// AnalyzeBlock computes the statistics of one block.
func AnalyzeBlock(b *parser.Block) BlockAnalysisResult {
	_, info, data := parser.Extract(b)
	res := BlockAnalysisResult{
		BlockIndex: b.Index,
		BlockID:    b.Identifier,
		Technique:  b.Technique,
		Species:    stringField(b, "species_label"),
		Transition: stringField(b, "transition_or_charge_state_label"),
		NumRows:    len(data),
		XMin:       math.NaN(),
		XMax:       math.NaN(),
		PeakX:      math.NaN(),
		PeakY:      math.NaN(),
	}
	if len(data) == 0 {
		res.Error = "block has no data values"
		return res
	}

	for c, name := range info.ColumnNames {
		unit := ""
		if c < len(info.Units) {
			unit = info.Units[c]
		}
		res.Columns = append(res.Columns, columnStats(name, unit, Column(data, c)))
	}

	res.XMin, res.XMax = calculateMinMax(Column(data, 0))
	res.Zoom, _ = ZoomFactor(data)

	signal := 0
	if info.HasColumnX {
		signal = 1
	}
	for _, row := range data {
		if signal >= len(row) || math.IsNaN(row[signal]) {
			continue
		}
		if math.IsNaN(res.PeakY) || row[signal] > res.PeakY {
			res.PeakY = row[signal]
			res.PeakX = row[0]
		}
	}
	return res
}

// signalColumn returns the statistics of the first non abscissa column.
func (r BlockAnalysisResult) signalColumn(hasX bool) (ColumnStats, bool) {
	i := 0
	if hasX {
		i = 1
	}
	if i >= len(r.Columns) {
		return ColumnStats{}, false
	}
	return r.Columns[i], true
}

// AnalyzeDocument performs statistical analysis on every block of doc.
func AnalyzeDocument(doc *parser.Document) (*AnalysisResults, error) {
	if doc == nil || len(doc.Blocks) == 0 {
		return nil, fmt.Errorf("document is nil or has no blocks, cannot analyze")
	}

	results := NewAnalysisResults()

	for _, blk := range doc.Blocks {
		res := AnalyzeBlock(blk)
		results.Results = append(results.Results, res)
		if res.Error != "" {
			results.AnalysisErrors = append(results.AnalysisErrors, fmt.Sprintf("Block %d (%s): %s", res.BlockIndex, res.BlockID, res.Error))
			continue
		}

		if !math.IsNaN(res.PeakY) {
			results.RankedByPeak = append(results.RankedByPeak, RankedBlockInfo{BlockID: res.BlockID, BlockIndex: res.BlockIndex, Value: res.PeakY})
		}
		if sig, ok := res.signalColumn(blk.Regular() && blk.Abscissa != nil); ok {
			if !math.IsNaN(sig.StdDev) {
				results.RankedByNoise = append(results.RankedByNoise, RankedBlockInfo{BlockID: res.BlockID, BlockIndex: res.BlockIndex, Value: sig.StdDev})
			}
			if !math.IsNaN(sig.Range) {
				results.RankedBySpan = append(results.RankedBySpan, RankedBlockInfo{BlockID: res.BlockID, BlockIndex: res.BlockIndex, Value: sig.Range})
			}
		}
	}

	for _, ranking := range [][]RankedBlockInfo{results.RankedByPeak, results.RankedByNoise, results.RankedBySpan} {
		sort.SliceStable(ranking, func(i, j int) bool {
			return ranking[i].Value > ranking[j].Value // Descending
		})
	}

	if len(results.Results) > 0 && len(results.AnalysisErrors) == len(results.Results) {
		results.AnalysisErrors = append(results.AnalysisErrors, "Analysis completed but no block carried data values.")
	}

	return results, nil
}
