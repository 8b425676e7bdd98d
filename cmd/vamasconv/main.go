package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/sdeskprojs/vamas_converter_go/internal/analysis"
	"github.com/sdeskprojs/vamas_converter_go/internal/config"
	"github.com/sdeskprojs/vamas_converter_go/internal/convert"
	"github.com/sdeskprojs/vamas_converter_go/internal/parser"
)

func usage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s [options] file.vms|dir ...\n", name)
	fmt.Fprintf(os.Stderr, "\nConvert VAMAS spectra into per-block TSV files. Each artifact is printed as\n\"input<TAB>path<TAB>rows<TAB>zoom\"; progress goes to stderr.\n")
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  %s -out spectra run.vms          # write spectra/run/<block>_ke.txt\n", name)
	fmt.Fprintf(os.Stderr, "  %s -block c1s -pdf data/          # only C 1s blocks, with a PDF report\n", name)
	fmt.Fprintf(os.Stderr, "  %s -json run.vms                  # dump header and blocks as NDJSON\n", name)
}

// dumpJSON writes the header followed by one line per block. Files without
// a VAMAS signature are skipped.
func dumpJSON(path string, cfg config.Config) error {
	doc, err := parser.ParseFile(path, cfg.ParseOptions())
	if errors.Is(err, parser.ErrNotRecognized) {
		log.Printf("skipped %s: no VAMAS signature", path)
		return nil
	}
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(doc.Header.Fields); err != nil {
		return err
	}
	for _, blk := range doc.Blocks {
		meta, info, data := parser.Extract(blk)
		meta.Set("columns", info.ColumnNames)
		meta.Set("rows", len(data))
		if zoom, err := analysis.ZoomFactor(data); err == nil {
			meta.Set("zoom", zoom)
		}
		meta.Set("technique", cfg.Technique)
		if err := enc.Encode(meta); err != nil {
			return err
		}
	}
	for _, w := range doc.Warnings {
		log.Printf("warning: %s", w)
	}
	return nil
}

func main() {
	log.SetFlags(0)

	var (
		configPath string
		outDir     string
		block      string
		encoding   string
		workers    int
		pdf        bool
		dump       bool
	)
	flag.StringVar(&configPath, "config", os.Getenv("VAMAS_CONFIG"), "YAML configuration file")
	flag.StringVar(&outDir, "out", "", "output directory (overrides config)")
	flag.StringVar(&block, "block", "", "convert only blocks whose identifier fuzzily matches this pattern")
	flag.StringVar(&encoding, "encoding", "", "input encoding: utf-8, latin1 or windows-1252")
	flag.IntVar(&workers, "workers", 0, "files converted in parallel (0 keeps config)")
	flag.BoolVar(&pdf, "pdf", false, "also write a PDF report per file")
	flag.BoolVar(&dump, "json", false, "print decoded metadata as NDJSON instead of converting")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if outDir != "" {
		cfg.OutputDir = outDir
	}
	if block != "" {
		cfg.BlockFilter = block
	}
	if encoding != "" {
		cfg.Encoding = encoding
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if pdf {
		cfg.Report.PDF = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	if dump {
		for _, path := range flag.Args() {
			if err := dumpJSON(path, cfg); err != nil {
				log.Fatal(err)
			}
		}
		return
	}

	inputs, err := convert.CollectInputs(flag.Args(), cfg)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	failed := 0
	for _, res := range convert.New(cfg, nil).ConvertAll(ctx, inputs) {
		switch {
		case res.Err != nil:
			failed++
			log.Printf("error: %v", res.Err)
		case res.Skipped:
			log.Printf("skipped %s: %s", res.Input, res.SkipReason)
		default:
			for _, out := range res.Outputs {
				fmt.Printf("%s\t%s\t%d\t%g\n", res.Input, out.Path, out.Rows, out.Zoom)
			}
		}
	}
	if failed > 0 {
		log.Fatalf("%d of %d files failed", failed, len(inputs))
	}
}
