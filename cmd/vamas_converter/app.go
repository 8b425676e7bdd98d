package main

import (
	"context"
	"fmt"
	"log"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/sdeskprojs/vamas_converter_go/internal/config"
	"github.com/sdeskprojs/vamas_converter_go/internal/convert"
)

// App struct
type App struct {
	ctx context.Context
	cfg config.Config
}

// NewApp creates a new App application struct
func NewApp() *App {
	return &App{cfg: config.Default()}
}

// Startup is called when the app starts. The context is saved
// so we can call the runtime methods.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
	runtime.WindowSetTitle(a.ctx, "VAMAS Converter")
	cfg, err := config.Load("")
	if err != nil {
		a.sendStatus(fmt.Sprintf("Using default configuration: %v", err))
		return
	}
	a.cfg = cfg
}

func (a *App) sendStatus(message string) {
	if a.ctx != nil {
		runtime.EventsEmit(a.ctx, "statusUpdate", message)
	}
	log.Println(message)
}

func (a *App) clearLog() {
	if a.ctx != nil {
		runtime.EventsEmit(a.ctx, "clearLog")
	}
}

// SelectInputs opens a multi-file dialog filtered to the accepted extensions.
func (a *App) SelectInputs() ([]string, error) {
	pattern := ""
	for i, ext := range a.cfg.Extensions {
		if i > 0 {
			pattern += ";"
		}
		pattern += "*" + ext
	}
	return runtime.OpenMultipleFilesDialog(a.ctx, runtime.OpenDialogOptions{
		Title:   "Select VAMAS files",
		Filters: []runtime.FileFilter{{DisplayName: "VAMAS files", Pattern: pattern}},
	})
}

// SelectOutputDir opens a directory dialog for the conversion target.
func (a *App) SelectOutputDir() (string, error) {
	return runtime.OpenDirectoryDialog(a.ctx, runtime.OpenDialogOptions{Title: "Select output directory"})
}

// OutputSummary is the frontend view of one written artifact.
type OutputSummary struct {
	BlockID string  `json:"blockId"`
	Path    string  `json:"path"`
	Rows    int     `json:"rows"`
	Zoom    float64 `json:"zoom"`
}

// FileSummary is the payload of the "fileConverted" event.
type FileSummary struct {
	Input      string            `json:"input"`
	Properties map[string]string `json:"properties"`
	Outputs    []OutputSummary   `json:"outputs"`
}

func fileSummary(res convert.FileResult) FileSummary {
	s := FileSummary{Input: res.Input, Properties: res.Properties}
	for _, out := range res.Outputs {
		s.Outputs = append(s.Outputs, OutputSummary{BlockID: out.BlockID, Path: out.Path, Rows: out.Rows, Zoom: out.Zoom})
	}
	return s
}

// HandleConvert is called from the frontend to convert files in the background.
// Progress and the final outcome are reported through events.
func (a *App) HandleConvert(inputs []string, outputDir string, blockFilter string, withPDF bool) (string, error) {
	if len(inputs) == 0 {
		return "", fmt.Errorf("no input files selected")
	}
	cfg := a.cfg
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	cfg.BlockFilter = blockFilter
	cfg.Report.PDF = withPDF
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	a.clearLog()
	a.sendStatus(fmt.Sprintf("Request: %d files -> [%s], block=%q, PDF=%t", len(inputs), cfg.OutputDir, blockFilter, withPDF))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				errMsg := fmt.Sprintf("PANIC recovered: %v", r)
				a.sendStatus(errMsg)
				runtime.EventsEmit(a.ctx, "generationComplete", false, errMsg)
			}
		}()

		runtime.EventsEmit(a.ctx, "generationStart")

		converted, skipped, failed := 0, 0, 0
		for _, res := range convert.New(cfg, a.sendStatus).ConvertAll(a.ctx, inputs) {
			switch {
			case res.Err != nil:
				failed++
				a.sendStatus(fmt.Sprintf("Error: %v", res.Err))
			case res.Skipped:
				skipped++
			default:
				converted++
				runtime.EventsEmit(a.ctx, "fileConverted", fileSummary(res))
				if res.ReportPath != "" {
					a.sendStatus(fmt.Sprintf("PDF report: %s", res.ReportPath))
				}
			}
		}

		msg := fmt.Sprintf("Converted %d files, skipped %d, failed %d.", converted, skipped, failed)
		a.sendStatus(msg)
		runtime.EventsEmit(a.ctx, "generationComplete", failed == 0, msg)
	}()

	return "Conversion started in background.", nil
}
