// Package output provides result formatters for analysis and validation.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/evotrace/evotrace/internal/analysis"
	"github.com/evotrace/evotrace/internal/mutation"
	"github.com/evotrace/evotrace/internal/seq"
)

// TabWriter writes per-variant mutation calls in tab-delimited format,
// one row per mutation.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Variant",
			"Generation",
			"Position",
			"Wild_type",
			"Mutant",
			"WT_codon",
			"Mut_codon",
			"Type",
			"Notation",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// WriteResult writes all mutation rows for one analyzed variant. A variant
// with no mutations gets a single placeholder row so it still appears in
// the report.
func (tw *TabWriter) WriteResult(r *analysis.Result) error {
	if r.Err != nil {
		return tw.writeRow(r, nil, fmt.Sprintf("ERROR: %v", r.Err))
	}
	if len(r.Mutations) == 0 {
		return tw.writeRow(r, nil, "-")
	}
	for i := range r.Mutations {
		if err := tw.writeRow(r, &r.Mutations[i], Notation(r.Mutations[i])); err != nil {
			return err
		}
	}
	return nil
}

func (tw *TabWriter) writeRow(r *analysis.Result, m *mutation.Mutation, notation string) error {
	position, wildType, mutant, wtCodon, mutCodon, mutType := "-", "-", "-", "-", "-", "-"
	if m != nil {
		position = fmt.Sprintf("%d", m.Position)
		wildType = m.WildType
		mutant = m.Mutant
		mutType = m.Type
		if m.WTCodon != "" {
			wtCodon = m.WTCodon
		}
		if m.MutCodon != "" {
			mutCodon = m.MutCodon
		}
	}

	values := []string{
		r.ID,
		fmt.Sprintf("%d", r.Generation),
		position,
		wildType,
		mutant,
		wtCodon,
		mutCodon,
		mutType,
		notation,
	}
	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

// Notation renders a mutation in conventional three-letter form, e.g.
// "Ala5Val". Gap sides keep the "-" marker: "-7Gly" for a trailing
// extension.
func Notation(m mutation.Mutation) string {
	return fmt.Sprintf("%s%d%s", threeLetter(m.WildType), m.Position, threeLetter(m.Mutant))
}

func threeLetter(aa string) string {
	if aa == mutation.Gap {
		return mutation.Gap
	}
	if len(aa) == 1 {
		if three, ok := seq.AminoAcidSingleToThree[aa[0]]; ok {
			return three
		}
	}
	return aa
}
