package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdeskprojs/vamas_converter_go/internal/config"
	"github.com/sdeskprojs/vamas_converter_go/internal/parser"
)

func TestDumpJSON_SkipsUnrecognized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("just some notes\n"), 0o644))

	assert.NoError(t, dumpJSON(path, config.Default()))
}

func TestDumpJSON_FormatErrorsFail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cut.vms")
	content := strings.Join([]string{parser.Signature, "inst", "model"}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	err := dumpJSON(path, config.Default())
	assert.ErrorIs(t, err, parser.ErrTruncatedFile)
}
