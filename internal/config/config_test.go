package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "utf-8", cfg.Encoding)
	assert.Equal(t, "XPS", cfg.Technique)
	assert.True(t, cfg.Report.Heatmap)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vamas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
encoding: latin1
workers: 3
block_filter: C 1s
extensions: [".vms"]
report:
  pdf: true
  plot_width: 600
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "latin1", cfg.Encoding)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "C 1s", cfg.BlockFilter)
	assert.True(t, cfg.Report.PDF)
	assert.Equal(t, 600.0, cfg.Report.PlotWidth)
	assert.Equal(t, 400.0, cfg.Report.PlotHeight)
	assert.Equal(t, []string{".vms"}, cfg.Extensions)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("VAMAS_WORKERS", "2")
	t.Setenv("VAMAS_PDF", "yes")
	t.Setenv("VAMAS_ENCODING", "windows-1252")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
	assert.True(t, cfg.Report.PDF)
	assert.Equal(t, "windows-1252", cfg.Encoding)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("VAMAS_WORKERS", "0")
	t.Setenv("VAMAS_ENCODING", "ebcdic")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
	assert.Contains(t, err.Error(), "ebcdic")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestAcceptsFile(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.AcceptsFile("spectrum.VMS"))
	assert.True(t, cfg.AcceptsFile("dir/run.vamas"))
	assert.True(t, cfg.AcceptsFile("export.txt"))
	assert.False(t, cfg.AcceptsFile("image.png"))
	assert.False(t, cfg.AcceptsFile("noext"))
}
