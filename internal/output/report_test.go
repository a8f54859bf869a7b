package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/evotrace/evotrace/internal/validate"
)

func TestValidationReportJSON(t *testing.T) {
	m := &validate.MatchResult{
		Valid:     true,
		MatchType: validate.MatchExact,
		Strand:    "+",
		StartNT:   7,
		EndNT:     127,
		Identity:  1.0,
		Coverage:  1.0,
	}
	r := NewValidationReport(m, 129, 40, validate.DefaultOptions(), 42*time.Millisecond)

	var buf bytes.Buffer
	if err := r.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}

	if decoded["schema_version"].(float64) != SchemaVersion {
		t.Errorf("schema_version = %v", decoded["schema_version"])
	}
	if decoded["plasmid_length_nt"].(float64) != 129 {
		t.Errorf("plasmid_length_nt = %v", decoded["plasmid_length_nt"])
	}
	if decoded["elapsed_ms"].(float64) != 42 {
		t.Errorf("elapsed_ms = %v", decoded["elapsed_ms"])
	}

	params := decoded["params"].(map[string]any)
	if params["fuzzy_threshold"].(float64) != 0.95 {
		t.Errorf("fuzzy_threshold = %v", params["fuzzy_threshold"])
	}

	match := decoded["match"].(map[string]any)
	if match["is_valid"].(bool) != true {
		t.Errorf("match.is_valid = %v", match["is_valid"])
	}
	if match["match_type"].(string) != validate.MatchExact {
		t.Errorf("match.match_type = %v", match["match_type"])
	}
}
