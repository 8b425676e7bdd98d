package parser

import (
	"fmt"
	"slices"
	"strings"
)

const (
	FieldYear FieldID = iota + 1
	FieldMonth
	FieldDay
	FieldHours
	FieldMinutes
	FieldSeconds
	FieldGMTOffset
	FieldBlockComment
	FieldTechnique
	FieldCoordinates
	FieldExperimentalVariables
	FieldAnalysisSourceLabel
	FieldSputteringIon
	FieldSourceEnergy
	FieldSourceStrength
	FieldSourceBeamWidth
	FieldFieldOfView
	FieldLinescan
	FieldSourcePolarAngle
	FieldSourceAzimuth
	FieldAnalyserMode
	FieldPassEnergy
	FieldDifferentialWidth
	FieldMagnification
	FieldWorkFunction
	FieldTargetBias
	FieldAnalysisWidth
	FieldTakeOffAngles
	FieldSpeciesLabel
	FieldTransition
	FieldAbscissa
	FieldCorrespondingVariables
	FieldSignalMode
	FieldCollectionTime
	FieldScanCount
	FieldTimeCorrection
	FieldSputteringSource
	FieldSampleTilt
	FieldSampleRotation
	FieldAdditionalParameters
)

var (
	sputteringModes = []string{"MAPDP", "MAPSVDP", "SDP", "SVDP"}
	// Compared against the upper cased technique, so the mixed case
	// entries never match. Kept as the format's published list.
	sputteringTechniques = []string{
		"FABMS", "FABMS energy spec", "ISS", "SIMS", "SIMS energy spec", "SNMS", "SNMS energy spec",
	}
	fieldOfViewModes       = []string{"MAP", "MAPDP", "MAPSV", "MAPSVDP", "SEM"}
	linescanModes          = []string{"MAPSV", "MAPSVDP", "SEM"}
	depthProfileTechniques = []string{"AES DIFF", "AES DIR", "EDX", "ELS", "UPS", "XPS", "XRF"}
	depthProfileModes      = []string{"MAPDP", "MAPSVDP", "SDP", "SDPSV"}
	// separators placed before year, month, day, hours, minutes, seconds
	datePrefixes = [...]string{"", "-", "-", " ", ":", ":"}
)

const techniqueAESDiff = "AES DIFF"

// fieldSpec is one numbered parameter: an optional gate evaluated after
// the selector check, and the routine that consumes its lines.
type fieldSpec struct {
	ID     FieldID
	Name   string
	Gate   func(*blockContext) bool
	Decode func(*blockContext) error
}

// fieldTable lists the parameters in decoding order. fieldTable[i].ID == i+1.
var fieldTable = [NumParameters]fieldSpec{
	{ID: FieldYear, Name: "year", Decode: datePart(0)},
	{ID: FieldMonth, Name: "month", Decode: datePart(1)},
	{ID: FieldDay, Name: "day", Decode: datePart(2)},
	{ID: FieldHours, Name: "hours", Decode: datePart(3)},
	{ID: FieldMinutes, Name: "minutes", Decode: datePart(4)},
	{ID: FieldSeconds, Name: "seconds", Decode: datePart(5)},
	{ID: FieldGMTOffset, Name: "number_of_hours_in_advance_of_greenwich_mean_time", Decode: decodeGMT},
	{ID: FieldBlockComment, Name: "block_comment", Decode: decodeBlockComment},
	{ID: FieldTechnique, Name: "technique", Decode: decodeTechnique},
	{ID: FieldCoordinates, Name: "coordinates",
		Gate:   experimentModeIn("MAP", "MAPDP"),
		Decode: ints("x_coordinate", "y_coordinate")},
	{ID: FieldExperimentalVariables, Name: "experimental_variables", Decode: decodeExperimentalValues},
	{ID: FieldAnalysisSourceLabel, Name: "analysis_source_label", Decode: strs("analysis_source_label")},
	{ID: FieldSputteringIon, Name: "sputtering_ion", Gate: gateSputteringIon, Decode: decodeSputteringIon},
	{ID: FieldSourceEnergy, Name: "analysis_source_characteristic_energy",
		Decode: tolerant(floats("analysis_source_characteristic_energy"))},
	{ID: FieldSourceStrength, Name: "analysis_source_strength", Decode: floats("analysis_source_strength")},
	{ID: FieldSourceBeamWidth, Name: "analysis_source_beam_width",
		Decode: floats("analysis_source_beam_width_x", "analysis_source_beam_width_y")},
	{ID: FieldFieldOfView, Name: "field_of_view",
		Gate:   experimentModeIn(fieldOfViewModes...),
		Decode: floats("field_of_view_x", "field_of_view_y")},
	{ID: FieldLinescan, Name: "linescan",
		Gate: experimentModeIn(linescanModes...),
		Decode: ints(
			"first_linescan_start_x_coordinate", "first_linescan_start_y_coordinate",
			"first_linescan_finish_x_coordinate", "first_linescan_finish_y_coordinate",
			"last_linescan_finish_x_coordinate", "last_linescan_finish_y_coordinate",
		)},
	{ID: FieldSourcePolarAngle, Name: "analysis_source_polar_angle_of_incidence",
		Decode: floats("analysis_source_polar_angle_of_incidence")},
	{ID: FieldSourceAzimuth, Name: "analysis_source_azimuth", Decode: floats("analysis_source_azimuth")},
	{ID: FieldAnalyserMode, Name: "analyser_mode", Decode: strs("analyser_mode")},
	{ID: FieldPassEnergy, Name: "analyser_pass_energy_of_retard_ratio_or_mass_resolution",
		Decode: tolerant(floats("analyser_pass_energy_of_retard_ratio_or_mass_resolution"))},
	{ID: FieldDifferentialWidth, Name: "differential_width",
		Gate:   func(b *blockContext) bool { return b.state.technique == techniqueAESDiff },
		Decode: floats("differential_width")},
	{ID: FieldMagnification, Name: "magnification_of_analyser_transfer_lens",
		Decode: floats("magnification_of_analyser_transfer_lens")},
	{ID: FieldWorkFunction, Name: "analyser_work_function_or_acceptance_energy_of_atom_or_ion",
		Decode: floats("analyser_work_function_or_acceptance_energy_of_atom_or_ion")},
	{ID: FieldTargetBias, Name: "target_bias", Decode: floats("target_bias")},
	{ID: FieldAnalysisWidth, Name: "analysis_width", Decode: floats("analysis_width_x", "analysis_width_y")},
	{ID: FieldTakeOffAngles, Name: "analyser_axis_take_off",
		Decode: floats("analyser_axis_take_off_polar_angle", "analyser_axis_take_off_azimuth")},
	{ID: FieldSpeciesLabel, Name: "species_label", Decode: strs("species_label")},
	{ID: FieldTransition, Name: "transition_or_charge_state_label",
		Decode: tolerant(sequence(strs("transition_or_charge_state_label"), ints("charge_of_detected_particle")))},
	{ID: FieldAbscissa, Name: "abscissa",
		Gate:   func(b *blockContext) bool { return b.hdr.ScanMode == ScanModeRegular },
		Decode: decodeAbscissa},
	{ID: FieldCorrespondingVariables, Name: "corresponding_variables", Decode: decodeCorrespondingVariables},
	{ID: FieldSignalMode, Name: "signal_mode", Decode: strs("signal_mode")},
	{ID: FieldCollectionTime, Name: "signal_collection_time", Decode: floats("signal_collection_time")},
	{ID: FieldScanCount, Name: "number_of_scans_to_compile_this_block",
		Decode: ints("number_of_scans_to_compile_this_block")},
	{ID: FieldTimeCorrection, Name: "signal_time_correction", Decode: floats("signal_time_correction")},
	{ID: FieldSputteringSource, Name: "sputtering_source",
		Gate: func(b *blockContext) bool {
			return slices.Contains(depthProfileTechniques, b.state.technique) &&
				modeIn(b.hdr.ExperimentMode, depthProfileModes...)
		},
		Decode: sequence(
			floats(
				"sputtering_source_energy", "sputtering_source_beam_current",
				"sputtering_source_width_x", "sputtering_source_width_y",
				"sputtering_source_polar_angle_of_incidence", "sputtering_source_azimuth",
			),
			strs("sputtering_mode"),
		)},
	{ID: FieldSampleTilt, Name: "sample_normal_tilt",
		Decode: floats("sample_normal_polar_angle_of_tilt", "sample_normal_tilt_azimuth")},
	{ID: FieldSampleRotation, Name: "sample_rotation_angle", Decode: floats("sample_rotation_angle")},
	{ID: FieldAdditionalParameters, Name: "additional_numerical_parameters", Decode: decodeAdditionalParameters},
}

// FieldName returns the name used in error messages for id.
func FieldName(id FieldID) string {
	if id < 1 || id > NumParameters {
		return fmt.Sprintf("field %d", int(id))
	}
	return fieldTable[id-1].Name
}

func experimentModeIn(modes ...string) func(*blockContext) bool {
	return func(b *blockContext) bool { return modeIn(b.hdr.ExperimentMode, modes...) }
}

func gateSputteringIon(b *blockContext) bool {
	return modeIn(b.hdr.ExperimentMode, sputteringModes...) ||
		slices.Contains(sputteringTechniques, b.state.technique)
}

func strs(keys ...string) func(*blockContext) error {
	return func(b *blockContext) error {
		for _, key := range keys {
			v, err := b.c.nextLine()
			if err != nil {
				return err
			}
			b.set(key, v)
		}
		return nil
	}
}

func ints(keys ...string) func(*blockContext) error {
	return func(b *blockContext) error {
		for _, key := range keys {
			v, err := b.c.nextInt()
			if err != nil {
				return err
			}
			b.set(key, v)
		}
		return nil
	}
}

func floats(keys ...string) func(*blockContext) error {
	return func(b *blockContext) error {
		for _, key := range keys {
			v, err := b.c.nextFloat()
			if err != nil {
				return err
			}
			b.set(key, v)
		}
		return nil
	}
}

func sequence(steps ...func(*blockContext) error) func(*blockContext) error {
	return func(b *blockContext) error {
		for _, step := range steps {
			if err := step(b); err != nil {
				return err
			}
		}
		return nil
	}
}

// tolerant wraps a best-effort field. Some writers put non numeric text in
// these positions, so a malformed number drops the rest of the field
// instead of failing the file. Values decoded before the bad line stay,
// and the bad line stays consumed. Truncation is still fatal.
func tolerant(decode func(*blockContext) error) func(*blockContext) error {
	return func(b *blockContext) error {
		err := decode(b)
		if err != nil && isMalformed(err) {
			b.warn("skipped %s: %v", b.c.field, err)
			return nil
		}
		return err
	}
}

func datePart(i int) func(*blockContext) error {
	return func(b *blockContext) error {
		v, err := b.c.nextLine()
		if err != nil {
			return err
		}
		if v == "-1" {
			b.state.date[i] = ""
		} else {
			b.state.date[i] = datePrefixes[i] + v
		}
		return nil
	}
}

func decodeGMT(b *blockContext) error {
	n, err := b.c.nextInt()
	if err != nil {
		return err
	}
	if n < 0 {
		b.state.date[6] = fmt.Sprintf(" GMT %d", n)
	} else {
		b.state.date[6] = fmt.Sprintf(" GMT +%d", n)
	}
	return nil
}

func decodeBlockComment(b *blockContext) error {
	n, err := b.c.nextInt()
	if err != nil {
		return err
	}
	if n > 0 {
		text, err := b.c.nextText(n)
		if err != nil {
			return err
		}
		b.set("block_comment", text)
	}
	return nil
}

func decodeTechnique(b *blockContext) error {
	v, err := b.c.nextLine()
	if err != nil {
		return err
	}
	b.state.technique = strings.ToUpper(v)
	b.set("technique", b.state.technique)
	return nil
}

func decodeExperimentalValues(b *blockContext) error {
	values := make([]string, 0, len(b.hdr.ExperimentalVariables))
	for _, v := range b.hdr.ExperimentalVariables {
		f, err := b.c.nextFloat()
		if err != nil {
			return err
		}
		values = append(values, fmt.Sprintf("%s=%s", v, formatFloat(f)))
	}
	b.set("experimental_variables", values)
	return nil
}

func decodeSputteringIon(b *blockContext) error {
	return sequence(
		strs("sputtering_ion_or_atomic_number"),
		ints(
			"number_of_atoms_in_sputtering_ion_or_atom_particle",
			"sputtering_ion_or_atom_charge_sign_and_number",
		),
	)(b)
}

// decodeAbscissa is best effort like the other tolerant fields, but a
// partial definition leaves the block without a usable X axis.
func decodeAbscissa(b *blockContext) error {
	b.state.abscissa = nil
	var a Abscissa
	err := func() error {
		var err error
		if a.Label, err = b.c.nextLine(); err != nil {
			return err
		}
		b.set("abscissa_label", a.Label)
		if a.Units, err = b.c.nextLine(); err != nil {
			return err
		}
		b.set("abscissa_units", a.Units)
		if a.Start, err = b.c.nextFloat(); err != nil {
			return err
		}
		b.set("abscissa_start", a.Start)
		if a.Increment, err = b.c.nextFloat(); err != nil {
			return err
		}
		b.set("abscissa_increment", a.Increment)
		return nil
	}()
	if err != nil {
		if isMalformed(err) {
			b.warn("skipped %s: %v", b.c.field, err)
			return nil
		}
		return err
	}
	b.state.abscissa = &a
	return nil
}

func decodeCorrespondingVariables(b *blockContext) error {
	vars, err := readVariables(b.c)
	if err != nil {
		return err
	}
	b.state.variables = vars
	labels, units := splitVariables(vars)
	b.set("corresponding_variables", labels)
	b.set("corresponding_variables_units", units)
	return nil
}

func decodeAdditionalParameters(b *blockContext) error {
	n, err := b.c.nextInt()
	if err != nil {
		return err
	}
	params := make([]string, 0, max(n, 0))
	for i := 0; i < n; i++ {
		label, err := b.c.nextLine()
		if err != nil {
			return err
		}
		unit, err := b.c.nextLine()
		if err != nil {
			return err
		}
		raw, err := b.c.nextLine()
		if err != nil {
			return err
		}
		// Non numeric values are kept verbatim.
		value := raw
		if f, err := parseFloat(raw); err == nil {
			value = formatFloat(f)
		}
		params = append(params, fmt.Sprintf("%s (%s)=%s", label, unit, value))
	}
	b.set("additional_numerical_parameters", params)
	return nil
}
