package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sdeskprojs/vamas_converter_go/internal/parser"
)

// ReportConfig controls the optional PDF report.
type ReportConfig struct {
	PDF        bool    `yaml:"pdf"`
	Heatmap    bool    `yaml:"heatmap"`
	PlotWidth  float64 `yaml:"plot_width"`  // points
	PlotHeight float64 `yaml:"plot_height"` // points
}

// Config is the converter configuration shared by the CLI and the desktop app.
type Config struct {
	Encoding    string       `yaml:"encoding"`
	Extensions  []string     `yaml:"extensions"`
	OutputDir   string       `yaml:"output_dir"`
	BlockFilter string       `yaml:"block_filter"`
	Workers     int          `yaml:"workers"`
	Technique   string       `yaml:"technique"` // tag attached to every converted input
	Report      ReportConfig `yaml:"report"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Encoding:   string(parser.EncodingUTF8),
		Extensions: []string{".vms", ".vamas", ".txt"},
		OutputDir:  ".",
		Workers:    runtime.NumCPU(),
		Technique:  "XPS",
		Report: ReportConfig{
			PDF:        false,
			Heatmap:    true,
			PlotWidth:  800,
			PlotHeight: 400,
		},
	}
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func envInt(name string, def int) int {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(name string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return def
}

func envString(name string, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

func (c *Config) applyEnv() {
	c.Encoding = envString("VAMAS_ENCODING", c.Encoding)
	c.OutputDir = envString("VAMAS_OUTPUT_DIR", c.OutputDir)
	c.Workers = envInt("VAMAS_WORKERS", c.Workers)
	c.Report.PDF = envBool("VAMAS_PDF", c.Report.PDF)
}

// Validate checks the values that cannot be fixed up silently.
func (c Config) Validate() error {
	var errs []error
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if err := parser.Encoding(c.Encoding).Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(c.Extensions) == 0 {
		errs = append(errs, errors.New("no input extensions configured"))
	}
	if c.Report.PlotWidth <= 0 || c.Report.PlotHeight <= 0 {
		errs = append(errs, fmt.Errorf("invalid plot size %gx%g", c.Report.PlotWidth, c.Report.PlotHeight))
	}
	return errors.Join(errs...)
}

// ParseOptions returns the decoder options for this configuration.
func (c Config) ParseOptions() *parser.ParseOptions {
	return &parser.ParseOptions{Encoding: parser.Encoding(c.Encoding)}
}

// AcceptsFile reports whether name has one of the configured extensions.
func (c Config) AcceptsFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range c.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
