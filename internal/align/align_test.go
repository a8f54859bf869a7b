package align

import "testing"

func TestLocalExactSubstring(t *testing.T) {
	query := "MKVLA"
	target := "GGGMKVLAGGG"

	r := Local(query, target, DefaultScoring)

	if r.Score != 10 {
		t.Errorf("Score = %d, want 10", r.Score)
	}
	if r.QueryStart != 0 || r.QueryEnd != 5 {
		t.Errorf("query span = [%d,%d), want [0,5)", r.QueryStart, r.QueryEnd)
	}
	if r.TargetStart != 3 || r.TargetEnd != 8 {
		t.Errorf("target span = [%d,%d), want [3,8)", r.TargetStart, r.TargetEnd)
	}
	if id := r.Identity(); id != 1.0 {
		t.Errorf("Identity = %v, want 1.0", id)
	}
	if cov := r.QueryCoverage(len(query)); cov != 1.0 {
		t.Errorf("QueryCoverage = %v, want 1.0", cov)
	}
}

func TestLocalSingleMismatch(t *testing.T) {
	query := "MKVLAMKVLA"
	target := "MKVLCMKVLA" // A->C at position 4

	r := Local(query, target, DefaultScoring)

	if r.Matches != 9 || r.Columns != 10 {
		t.Errorf("Matches/Columns = %d/%d, want 9/10", r.Matches, r.Columns)
	}
	if id := r.Identity(); id != 0.9 {
		t.Errorf("Identity = %v, want 0.9", id)
	}
}

func TestLocalTargetInsertion(t *testing.T) {
	// Target has one extra residue relative to the query; a gap column
	// should bridge it without losing the flanks.
	query := "MKVLADEFGH"
	target := "MKVLAWDEFGH"

	r := Local(query, target, DefaultScoring)

	if cov := r.QueryCoverage(len(query)); cov != 1.0 {
		t.Errorf("QueryCoverage = %v, want 1.0", cov)
	}
	if r.Matches != 10 {
		t.Errorf("Matches = %d, want 10", r.Matches)
	}
	if r.Columns != 11 {
		t.Errorf("Columns = %d, want 11 (10 matches + 1 gap)", r.Columns)
	}
}

func TestLocalTargetDeletion(t *testing.T) {
	query := "MKVLADEFGH"
	target := "MKVLAEFGH" // D deleted

	r := Local(query, target, DefaultScoring)

	if cov := r.QueryCoverage(len(query)); cov != 1.0 {
		t.Errorf("QueryCoverage = %v, want 1.0", cov)
	}
	if r.Matches != 9 {
		t.Errorf("Matches = %d, want 9", r.Matches)
	}
}

func TestLocalXWildcard(t *testing.T) {
	query := "MKVLA"
	target := "MKXLA" // ambiguous translation in the middle

	r := Local(query, target, DefaultScoring)

	if r.Matches != 5 {
		t.Errorf("Matches = %d, want 5 (X counts as match)", r.Matches)
	}
}

func TestLocalNoSimilarity(t *testing.T) {
	r := Local("MMMM", "KKKK", DefaultScoring)
	if r.Score != 0 || r.Columns != 0 {
		t.Errorf("expected empty result for dissimilar sequences, got %+v", r)
	}
}

func TestLocalEmptyInputs(t *testing.T) {
	if r := Local("", "MKVLA", DefaultScoring); r.Score != 0 {
		t.Errorf("empty query: Score = %d, want 0", r.Score)
	}
	if r := Local("MKVLA", "", DefaultScoring); r.Score != 0 {
		t.Errorf("empty target: Score = %d, want 0", r.Score)
	}
}
