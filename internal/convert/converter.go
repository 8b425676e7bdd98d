package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/sdeskprojs/vamas_converter_go/internal/analysis"
	"github.com/sdeskprojs/vamas_converter_go/internal/config"
	"github.com/sdeskprojs/vamas_converter_go/internal/parser"
	"github.com/sdeskprojs/vamas_converter_go/internal/report"
)

// Output is one TSV artifact written for a block.
type Output struct {
	BlockIndex int
	BlockID    string
	Path       string
	Columns    []string
	Rows       int
	Zoom       float64
}

// FileResult is the outcome of converting one input file.
type FileResult struct {
	Input      string
	Skipped    bool
	SkipReason string
	Document   *parser.Document
	Analysis   *analysis.AnalysisResults
	Outputs    []Output
	// Properties are attached to the input record by the host platform.
	Properties map[string]string
	ReportPath string
	Err        error
}

// PropertyText renders Properties as sorted "key: value" pairs.
func (r FileResult) PropertyText() string {
	keys := make([]string, 0, len(r.Properties))
	for k := range r.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + ": " + r.Properties[k]
	}
	return strings.Join(pairs, ", ")
}

// Converter turns VAMAS files into TSV artifacts and optional reports.
type Converter struct {
	cfg    config.Config
	status func(string)

	mu    sync.Mutex
	dirs  map[string]string // input path -> output directory
	taken map[string]bool   // lower-cased directory names in use
}

// New returns a Converter. status receives progress messages; nil logs them.
func New(cfg config.Config, status func(string)) *Converter {
	if status == nil {
		status = func(msg string) { log.Println(msg) }
	}
	return &Converter{
		cfg:    cfg,
		status: status,
		dirs:   make(map[string]string),
		taken:  make(map[string]bool),
	}
}

func (cv *Converter) sendStatus(format string, args ...any) {
	cv.status(fmt.Sprintf(format, args...))
}

// CollectInputs expands directories and keeps the files whose extension
// the configuration accepts. Explicit file arguments are kept as given.
func CollectInputs(paths []string, cfg config.Config) ([]string, error) {
	var inputs []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat input: %w", err)
		}
		if !info.IsDir() {
			inputs = append(inputs, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && cfg.AcceptsFile(path) {
				inputs = append(inputs, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
	}
	return inputs, nil
}

// SelectBlocks keeps the blocks whose identifier fuzzily matches pattern,
// in file order. An empty pattern keeps every block.
func SelectBlocks(blocks []*parser.Block, pattern string) []*parser.Block {
	if strings.TrimSpace(pattern) == "" {
		return blocks
	}
	ids := make([]string, len(blocks))
	for i, b := range blocks {
		ids[i] = b.Identifier
	}
	ranks := fuzzy.RankFindFold(pattern, ids)
	sort.Slice(ranks, func(i, j int) bool { return ranks[i].OriginalIndex < ranks[j].OriginalIndex })
	selected := make([]*parser.Block, 0, len(ranks))
	for _, r := range ranks {
		selected = append(selected, blocks[r.OriginalIndex])
	}
	return selected
}

// ClosestBlock returns the identifier that best matches pattern, used to
// suggest a filter when nothing matched.
func ClosestBlock(blocks []*parser.Block, pattern string) string {
	ids := make([]string, len(blocks))
	for i, b := range blocks {
		ids[i] = b.Identifier
	}
	ranks := fuzzy.RankFindNormalizedFold(pattern, ids)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

// outputDir returns the per-input directory, named after the input file.
// Inputs sharing a stem get "_2", "_3", ... in the order they are claimed;
// the same input always maps to the same directory.
func (cv *Converter) outputDir(input string) string {
	key := filepath.Clean(input)
	cv.mu.Lock()
	defer cv.mu.Unlock()
	if dir, ok := cv.dirs[key]; ok {
		return dir
	}
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name := stem
	for n := 2; cv.taken[strings.ToLower(name)]; n++ {
		name = fmt.Sprintf("%s_%d", stem, n)
	}
	cv.taken[strings.ToLower(name)] = true
	dir := filepath.Join(cv.cfg.OutputDir, name)
	cv.dirs[key] = dir
	return dir
}

// ConvertFile decodes one input and writes its artifacts.
func (cv *Converter) ConvertFile(ctx context.Context, input string) FileResult {
	res := FileResult{Input: input}
	if !cv.cfg.AcceptsFile(input) {
		res.Skipped = true
		res.SkipReason = fmt.Sprintf("extension %q not accepted", filepath.Ext(input))
		return res
	}

	cv.sendStatus("Parsing: %s", input)
	doc, err := parser.ParseFile(input, cv.cfg.ParseOptions())
	if errors.Is(err, parser.ErrNotRecognized) {
		res.Skipped = true
		res.SkipReason = "no VAMAS signature"
		cv.sendStatus("Skipping %s: %s", input, res.SkipReason)
		return res
	}
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", input, err)
		return res
	}
	res.Document = doc
	cv.sendStatus("Parsed %d blocks from %s.", len(doc.Blocks), input)
	for _, w := range doc.Warnings {
		cv.sendStatus("- %s", w)
	}

	blocks := SelectBlocks(doc.Blocks, cv.cfg.BlockFilter)
	if len(blocks) == 0 && len(doc.Blocks) > 0 {
		cv.sendStatus("No block matches %q (closest: %q)", cv.cfg.BlockFilter, ClosestBlock(doc.Blocks, cv.cfg.BlockFilter))
	}

	dir := cv.outputDir(input)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		res.Err = fmt.Errorf("failed to create output directory: %w", err)
		return res
	}

	used := make(map[string]bool)
	for _, blk := range blocks {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}
		out, err := writeBlock(dir, blk, used)
		if err != nil {
			res.Err = fmt.Errorf("%s block %d: %w", input, blk.Index, err)
			return res
		}
		res.Outputs = append(res.Outputs, out)
		cv.sendStatus("Wrote %s (%d rows, zoom %g)", out.Path, out.Rows, out.Zoom)
	}
	res.Properties = map[string]string{"technique": cv.cfg.Technique}

	if cv.cfg.Report.PDF {
		if err := cv.writeReport(&res, dir); err != nil {
			res.Err = err
			return res
		}
	}
	cv.sendStatus("Converted %s: %d outputs, %s.", input, len(res.Outputs), res.PropertyText())
	return res
}

func writeBlock(dir string, blk *parser.Block, used map[string]bool) (Output, error) {
	meta, info, data := parser.Extract(blk)
	name := report.OutputName(blk.Identifier)
	if used[name] {
		name = report.OutputName(fmt.Sprintf("%s_%d", blk.Identifier, blk.Index))
	}
	used[name] = true

	out := Output{
		BlockIndex: blk.Index,
		BlockID:    blk.Identifier,
		Path:       filepath.Join(dir, name),
		Columns:    info.ColumnNames,
		Rows:       len(data),
	}
	if zoom, err := analysis.ZoomFactor(data); err == nil {
		out.Zoom = zoom
	}
	if err := report.WriteTSVFile(out.Path, meta, info.ColumnNames, data); err != nil {
		return out, err
	}
	return out, nil
}

func (cv *Converter) writeReport(res *FileResult, dir string) error {
	results, err := analysis.AnalyzeDocument(res.Document)
	if err != nil {
		return fmt.Errorf("error analyzing %s: %w", res.Input, err)
	}
	results.Source = res.Input
	res.Analysis = results

	width, height := cv.cfg.Report.PlotWidth, cv.cfg.Report.PlotHeight
	plotImages := make(map[string][]byte)
	if cv.cfg.Report.Heatmap && len(res.Document.Blocks) > 1 {
		img, err := report.CreateIntensityHeatmap(res.Document, "Signal Intensity by Block", width, height)
		if err != nil {
			cv.sendStatus("Error generating heatmap: %v", err)
		} else {
			plotImages[report.HeatmapKey] = img
		}
	}
	for _, blk := range res.Document.Blocks {
		img, err := report.CreateSpectrumPlot(blk, width, height)
		if err != nil {
			cv.sendStatus("Error generating plot for block %d: %v", blk.Index, err)
			continue
		}
		plotImages[report.SpectrumKey(blk.Index)] = img
	}

	res.ReportPath = filepath.Join(dir, "report.pdf")
	cv.sendStatus("Generating PDF: %s...", res.ReportPath)
	if err := report.BuildPDFReport(res.ReportPath, res.Document, results, plotImages); err != nil {
		return fmt.Errorf("error generating PDF report: %w", err)
	}
	return nil
}

// ConvertAll converts inputs with up to cfg.Workers files in flight.
// Results keep the order of inputs.
func (cv *Converter) ConvertAll(ctx context.Context, inputs []string) []FileResult {
	results := make([]FileResult, len(inputs))
	// directories are claimed up front so names follow input order
	for _, input := range inputs {
		if cv.cfg.AcceptsFile(input) {
			cv.outputDir(input)
		}
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < max(cv.cfg.Workers, 1); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = cv.ConvertFile(ctx, inputs[i])
			}
		}()
	}
	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}
