package analysis

import "math"

// ColumnStats holds the statistics of one data column of a block.
type ColumnStats struct {
	Name     string
	Unit     string
	NumValid int // number of non-NaN values
	Min      float64
	Max      float64
	Mean     float64
	StdDev   float64
	Range    float64
}

// BlockAnalysisResult holds the calculated statistics for a single block.
type BlockAnalysisResult struct {
	BlockIndex int
	BlockID    string // block_identifier
	Technique  string
	Species    string
	Transition string
	NumRows    int
	Columns    []ColumnStats
	// XMin and XMax span the first projected column, the axis used for
	// display scaling.
	XMin float64
	XMax float64
	Zoom float64
	// PeakX/PeakY locate the largest value of the first signal column.
	PeakX float64
	PeakY float64
	Error string
}

// RankedBlockInfo is used for ranking blocks by different criteria.
type RankedBlockInfo struct {
	BlockID    string
	BlockIndex int
	Value      float64
}

// AnalysisResults holds all results from the analysis of one document.
type AnalysisResults struct {
	Source         string
	Results        []BlockAnalysisResult
	RankedByPeak   []RankedBlockInfo // sorted by peak intensity, descending
	RankedByNoise  []RankedBlockInfo // sorted by signal std dev, descending
	RankedBySpan   []RankedBlockInfo // sorted by signal range, descending
	AnalysisErrors []string
}

func NewAnalysisResults() *AnalysisResults {
	return &AnalysisResults{
		Results:        make([]BlockAnalysisResult, 0),
		RankedByPeak:   make([]RankedBlockInfo, 0),
		RankedByNoise:  make([]RankedBlockInfo, 0),
		RankedBySpan:   make([]RankedBlockInfo, 0),
		AnalysisErrors: make([]string, 0),
	}
}

func newColumnStats(name, unit string) ColumnStats {
	return ColumnStats{
		Name:   name,
		Unit:   unit,
		Min:    math.NaN(),
		Max:    math.NaN(),
		Mean:   math.NaN(),
		StdDev: math.NaN(),
		Range:  math.NaN(),
	}
}
