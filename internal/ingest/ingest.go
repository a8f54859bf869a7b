// Package ingest parses experimental data files (TSV or JSON) into typed
// rows, mapping flexible column headings onto canonical fields and
// applying per-row QC.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Canonical field names, in assignment priority order.
var essentialFields = []string{
	"plasmid_variant_index",
	"parent_plasmid_variant",
	"generation",
	"assembled_dna_sequence",
	"dna_yield",
	"protein_yield",
	"is_control",
}

// columnSynonyms maps each canonical field to the headings it may appear
// under in uploaded files.
var columnSynonyms = map[string][]string{
	"plasmid_variant_index": {
		"variant_index", "plasmid_id", "plasmid_variant_index",
		"variant_id", "index",
	},
	"parent_plasmid_variant": {
		"parent_variant", "parent_id", "parent_plasmid_variant",
		"parent", "parent_index",
	},
	"generation": {
		"generation", "directed_evolution_generation",
		"evolution_generation", "gen",
	},
	"assembled_dna_sequence": {
		"dna_sequence", "sequence", "assembled_sequence",
		"assembled_dna_sequence", "plasmid_sequence",
	},
	"dna_yield": {
		"dna_quantification_fg", "dna_qty_fg", "dna_yield",
		"dna_concentration_fg", "dna_quantification",
	},
	"protein_yield": {
		"protein_quantification_pg", "protein_qty_pg", "protein_yield",
		"protein_concentration_pg", "protein_quantification",
	},
	"is_control": {
		"control", "is_control", "control_sample", "iscontrol",
	},
}

var synonymMap = buildSynonymMap()

func buildSynonymMap() map[string]string {
	m := make(map[string]string)
	for canonical, variants := range columnSynonyms {
		for _, v := range variants {
			m[cleanColumnName(v)] = canonical
		}
	}
	return m
}

// cleanColumnName normalizes a heading to lowercase with underscores.
func cleanColumnName(col string) string {
	col = strings.ToLower(strings.TrimSpace(col))
	col = strings.ReplaceAll(col, " ", "_")
	return strings.ReplaceAll(col, "-", "_")
}

// Row is one QC-passed data row. Missing yields are NaN.
type Row struct {
	VariantIndex string
	Parent       string
	Generation   int
	DNA          string
	DNAYield     float64
	ProteinYield float64
	IsControl    bool
	Metadata     map[string]string // columns beyond the essential fields
}

// Rejected is a row that failed QC, with the 1-based file row number
// (header counts as row 1).
type Rejected struct {
	RowNumber int
	Reason    string
	Fields    map[string]string
}

// Summary reports what the parser did with a file.
type Summary struct {
	TotalRows       int
	ValidRows       int
	ControlRows     int
	RejectedRows    int
	ColumnMapping   map[string]string // raw heading -> canonical field
	MetadataColumns []string
}

// Result is the full outcome of parsing one file. Controls are split out
// because they feed baseline calculation, not mutation analysis.
type Result struct {
	Variants []Row
	Controls []Row
	Rejected []Rejected
	Summary  Summary
}

// ParseTSV parses tab-separated content with a header row.
func ParseTSV(r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse TSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("file contains no data")
	}

	headers := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}
	return process(headers, rows)
}

// ParseJSON parses an array of flat JSON objects. Header order is not
// recoverable from JSON objects, so the left-to-right fallback assignment
// runs over alphabetically sorted keys.
func ParseJSON(r io.Reader) (*Result, error) {
	var raw []map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("file contains no data")
	}

	keySet := make(map[string]bool)
	for _, obj := range raw {
		for k := range obj {
			keySet[k] = true
		}
	}
	headers := make([]string, 0, len(keySet))
	for k := range keySet {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	rows := make([]map[string]string, 0, len(raw))
	for _, obj := range raw {
		row := make(map[string]string, len(obj))
		for k, v := range obj {
			row[k] = stringify(v)
		}
		rows = append(rows, row)
	}
	return process(headers, rows)
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// mapColumns resolves raw headings to canonical fields: synonym lookup
// first, then left-to-right assignment of still-unmapped headings to
// still-unfilled fields.
func mapColumns(headers []string) (mapping map[string]string, missing []string) {
	mapping = make(map[string]string)
	assigned := make(map[string]bool)
	var unmapped []string

	for _, h := range headers {
		cleaned := cleanColumnName(h)
		if canonical, ok := synonymMap[cleaned]; ok && !assigned[canonical] {
			mapping[h] = canonical
			assigned[canonical] = true
			continue
		}
		unmapped = append(unmapped, h)
	}

	var remaining []string
	for _, f := range essentialFields {
		if !assigned[f] {
			remaining = append(remaining, f)
		}
	}
	for i := 0; i < len(unmapped) && i < len(remaining); i++ {
		mapping[unmapped[i]] = remaining[i]
		assigned[remaining[i]] = true
	}

	for _, f := range essentialFields {
		if !assigned[f] {
			missing = append(missing, f)
		}
	}
	return mapping, missing
}

func process(headers []string, rawRows []map[string]string) (*Result, error) {
	mapping, missing := mapColumns(headers)
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing essential fields: %s", strings.Join(missing, ", "))
	}

	var metadataCols []string
	for _, h := range headers {
		if _, ok := mapping[h]; !ok {
			metadataCols = append(metadataCols, h)
		}
	}

	res := &Result{
		Summary: Summary{
			TotalRows:       len(rawRows),
			ColumnMapping:   mapping,
			MetadataColumns: metadataCols,
		},
	}

	for i, raw := range rawRows {
		fields := make(map[string]string, len(essentialFields))
		meta := make(map[string]string)
		for h, v := range raw {
			if canonical, ok := mapping[h]; ok {
				fields[canonical] = v
			} else {
				meta[h] = v
			}
		}

		row, errs := buildRow(fields)
		if len(errs) > 0 {
			res.Rejected = append(res.Rejected, Rejected{
				RowNumber: i + 2, // header row is 1
				Reason:    strings.Join(errs, "; "),
				Fields:    fields,
			})
			continue
		}
		row.Metadata = meta
		if row.IsControl {
			res.Controls = append(res.Controls, row)
		} else {
			res.Variants = append(res.Variants, row)
		}
	}

	res.Summary.ValidRows = len(res.Variants)
	res.Summary.ControlRows = len(res.Controls)
	res.Summary.RejectedRows = len(res.Rejected)
	return res, nil
}

// buildRow coerces one row's fields and returns the QC failures.
func buildRow(fields map[string]string) (Row, []string) {
	var errs []string
	row := Row{
		VariantIndex: fields["plasmid_variant_index"],
		Parent:       fields["parent_plasmid_variant"],
		DNA:          strings.ToUpper(fields["assembled_dna_sequence"]),
		DNAYield:     math.NaN(),
		ProteinYield: math.NaN(),
	}

	for _, f := range []string{"plasmid_variant_index", "parent_plasmid_variant", "assembled_dna_sequence"} {
		if fields[f] == "" {
			errs = append(errs, "missing value for "+f)
		}
	}

	if v := fields["generation"]; v == "" {
		errs = append(errs, "missing value for generation")
	} else if gen, err := strconv.Atoi(strings.TrimSuffix(v, ".0")); err != nil {
		errs = append(errs, "generation is not an integer")
	} else if gen < 0 {
		errs = append(errs, "generation cannot be negative")
	} else {
		row.Generation = gen
	}

	row.DNAYield = parseYield("dna_yield", fields["dna_yield"], &errs)
	row.ProteinYield = parseYield("protein_yield", fields["protein_yield"], &errs)

	if v := fields["is_control"]; v == "" {
		errs = append(errs, "missing value for is_control")
	} else if b, ok := parseBool(v); !ok {
		errs = append(errs, "is_control must be boolean")
	} else {
		row.IsControl = b
	}

	if row.DNA != "" && !validDNAChars(row.DNA) {
		errs = append(errs, "DNA sequence contains invalid characters")
	}

	return row, errs
}

func parseYield(name, v string, errs *[]string) float64 {
	if v == "" {
		*errs = append(*errs, "missing value for "+name)
		return math.NaN()
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, name+" is not numeric")
		return math.NaN()
	}
	if f < 0 {
		*errs = append(*errs, name+" cannot be negative")
	}
	return f
}

func parseBool(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true":
		return true, true
	case "0", "false":
		return false, true
	}
	return false, false
}

// validDNAChars restricts assembled sequences to ACGT plus N for
// ambiguous bases.
func validDNAChars(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'T', 'N':
		default:
			return false
		}
	}
	return true
}
