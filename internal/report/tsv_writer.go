package report

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Velocidex/ordereddict"
)

// OutputName returns the artifact name for a block, "{block_identifier}_ke.txt".
// Path separators in the identifier are replaced so the file stays in its
// output directory.
func OutputName(blockID string) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(strings.TrimSpace(blockID))
	if name == "" {
		name = "block"
	}
	return name + "_ke.txt"
}

// HeaderText renders metadata as "key: value" lines.
func HeaderText(meta *ordereddict.Dict) string {
	var sb strings.Builder
	for _, key := range meta.Keys() {
		v, _ := meta.Get(key)
		fmt.Fprintf(&sb, "%s: %s\n", key, headerValue(v))
	}
	return sb.String()
}

func headerValue(v any) string {
	switch val := v.(type) {
	case string:
		lines := strings.Split(strings.TrimSpace(val), "\n")
		for i := range lines {
			lines[i] = strings.TrimSpace(lines[i])
		}
		return strings.Join(lines, " | ")
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(raw)
	}
}

// WriteTSV writes the header as "# " prefixed lines, then the column names
// and the data rows, tab separated.
func WriteTSV(w io.Writer, meta *ordereddict.Dict, columns []string, data [][]float64) error {
	bw := bufio.NewWriter(w)
	if meta != nil {
		for _, line := range strings.Split(strings.TrimSuffix(HeaderText(meta), "\n"), "\n") {
			if _, err := fmt.Fprintf(bw, "# %s\n", line); err != nil {
				return err
			}
		}
	}

	cw := csv.NewWriter(bw)
	cw.Comma = '\t'
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("failed to write column names: %w", err)
	}
	record := make([]string, 0, len(columns))
	for _, row := range data {
		record = record[:0]
		for _, v := range row {
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write data row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteTSVFile writes a TSV artifact to path.
func WriteTSVFile(path string, meta *ordereddict.Dict, columns []string, data [][]float64) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create TSV file: %w", err)
	}
	if err := WriteTSV(file, meta, columns, data); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
