package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/evotrace/evotrace/internal/validate"
)

// SchemaVersion identifies the validation report layout for downstream
// consumers.
const SchemaVersion = 1

// ReportParams echoes the thresholds a validation ran with.
type ReportParams struct {
	FuzzyThreshold float64 `json:"fuzzy_threshold"`
	MinIdentity    float64 `json:"min_identity"`
	MinCoverage    float64 `json:"min_coverage"`
}

// ValidationReport is the JSON envelope around a plasmid validation
// result.
type ValidationReport struct {
	SchemaVersion int                   `json:"schema_version"`
	GeneratedAt   time.Time             `json:"generated_at"`
	PlasmidLength int                   `json:"plasmid_length_nt"`
	WTLength      int                   `json:"wt_length_aa"`
	Params        ReportParams          `json:"params"`
	Match         *validate.MatchResult `json:"match"`
	ElapsedMS     int64                 `json:"elapsed_ms"`
}

// NewValidationReport wraps a match result in the report envelope.
func NewValidationReport(m *validate.MatchResult, plasmidLen, wtLen int, opts validate.Options, elapsed time.Duration) *ValidationReport {
	return &ValidationReport{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   time.Now().UTC(),
		PlasmidLength: plasmidLen,
		WTLength:      wtLen,
		Params: ReportParams{
			FuzzyThreshold: opts.FuzzyThreshold,
			MinIdentity:    opts.MinIdentity,
			MinCoverage:    opts.MinCoverage,
		},
		Match:     m,
		ElapsedMS: elapsed.Milliseconds(),
	}
}

// WriteJSON writes the report as indented JSON.
func (r *ValidationReport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
