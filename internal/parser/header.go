package parser

import (
	"slices"
	"strings"

	"github.com/Velocidex/ordereddict"
)

func modeIn(mode string, modes ...string) bool {
	return slices.Contains(modes, mode)
}

// decodeHeader reads the experiment level preamble that follows the
// signature line.
func decodeHeader(c *cursor, signature string, doc *Document) (*Header, error) {
	hdr := &Header{Fields: ordereddict.NewDict()}
	f := hdr.Fields
	f.Set("format_identifier", signature)

	for _, key := range []string{
		"institution_identifier",
		"instrument_model_identifier",
		"operator_identifier",
		"experiment_identifier",
	} {
		c.field = key
		v, err := c.nextLine()
		if err != nil {
			return nil, err
		}
		f.Set(key, v)
	}

	c.field = "comment"
	n, err := c.nextInt()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		comment, err := c.nextText(n)
		if err != nil {
			return nil, err
		}
		f.Set("comment", comment)
	}

	c.field = "experiment_mode"
	mode, err := c.nextLine()
	if err != nil {
		return nil, err
	}
	hdr.ExperimentMode = strings.ToUpper(mode)
	f.Set("experiment_mode", hdr.ExperimentMode)

	c.field = "scan_mode"
	if hdr.ScanMode, err = c.nextLine(); err != nil {
		return nil, err
	}
	f.Set("scan_mode", hdr.ScanMode)

	if modeIn(hdr.ExperimentMode, "MAP", "MAPDP", "NORM", "SDP") {
		c.field = "number_of_spectral_regions"
		n, err := c.nextInt()
		if err != nil {
			return nil, err
		}
		f.Set("number_of_spectral_regions", n)
	}

	if modeIn(hdr.ExperimentMode, "MAP", "MAPDP") {
		for _, key := range []string{
			"number_of_analysis_positions",
			"number_of_discrete_x_coordinates_available_in_full_map",
			"number_of_discrete_y_coordinates_available_in_full_map",
		} {
			c.field = key
			n, err := c.nextInt()
			if err != nil {
				return nil, err
			}
			f.Set(key, n)
		}
	}

	c.field = "experimental_variables"
	vars, err := readVariables(c)
	if err != nil {
		return nil, err
	}
	hdr.ExperimentalVariables = vars
	labels, units := splitVariables(vars)
	f.Set("experimental_variables", labels)
	f.Set("experimental_variables_units", units)

	c.field = "parameter_inclusion_or_exclusion_list"
	if hdr.Selector.Count, err = c.nextInt(); err != nil {
		return nil, err
	}
	for i := 0; i < abs(hdr.Selector.Count); i++ {
		id, err := c.nextInt()
		if err != nil {
			return nil, err
		}
		if id < 1 || id > NumParameters {
			doc.addWarning("header: parameter %d in inclusion/exclusion list is outside 1..%d", id, NumParameters)
		}
		hdr.Selector.List = append(hdr.Selector.List, id)
	}

	c.field = "manually_entered_items"
	n, err = c.nextInt()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		items := make([]int, 0, n)
		for i := 0; i < n; i++ {
			v, err := c.nextInt()
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		f.Set("manually_entered_items", items)
	}

	c.field = "future_upgrade_experiment_entries"
	experimentEntries, err := c.nextInt()
	if err != nil {
		return nil, err
	}
	c.field = "future_upgrade_block_entries"
	if hdr.FutureUpgradeBlockEntries, err = c.nextInt(); err != nil {
		return nil, err
	}
	if experimentEntries > 0 {
		c.field = "future_upgrade_experiment_entries"
		entries, err := readLines(c, experimentEntries)
		if err != nil {
			return nil, err
		}
		f.Set("future_upgrade_experiment_entries", entries)
	}

	c.field = "number_of_blocks"
	if hdr.NumberOfBlocks, err = c.nextInt(); err != nil {
		return nil, err
	}
	f.Set("number_of_blocks", hdr.NumberOfBlocks)
	c.field = ""
	return hdr, nil
}

// readVariables reads a count followed by that many label/unit pairs.
func readVariables(c *cursor) ([]Variable, error) {
	n, err := c.nextCount()
	if err != nil {
		return nil, err
	}
	vars := make([]Variable, 0, max(n, 0))
	for i := 0; i < n; i++ {
		label, err := c.nextLine()
		if err != nil {
			return nil, err
		}
		unit, err := c.nextLine()
		if err != nil {
			return nil, err
		}
		vars = append(vars, Variable{Label: label, Unit: unit})
	}
	return vars, nil
}

func splitVariables(vars []Variable) (labels, units []string) {
	labels = make([]string, 0, len(vars))
	units = make([]string, 0, len(vars))
	for _, v := range vars {
		labels = append(labels, v.String())
		units = append(units, v.Unit)
	}
	return labels, units
}

func readLines(c *cursor, n int) ([]string, error) {
	lines := make([]string, 0, max(n, 0))
	for i := 0; i < n; i++ {
		l, err := c.nextLine()
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
