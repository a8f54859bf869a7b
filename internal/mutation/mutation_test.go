package mutation

import (
	"reflect"
	"testing"
)

func TestDetectSynonymous(t *testing.T) {
	muts := Detect("F", "F", "TTT", "TTC")

	if len(muts) != 1 {
		t.Fatalf("got %d mutations, want 1", len(muts))
	}
	m := muts[0]
	if m.Position != 1 {
		t.Errorf("Position = %d, want 1", m.Position)
	}
	if m.Type != TypeSynonymous {
		t.Errorf("Type = %q, want %q", m.Type, TypeSynonymous)
	}
	if m.WildType != "F" || m.Mutant != "F" {
		t.Errorf("WildType/Mutant = %q/%q, want F/F", m.WildType, m.Mutant)
	}
	if m.WTCodon != "TTT" || m.MutCodon != "TTC" {
		t.Errorf("codons = %q/%q, want TTT/TTC", m.WTCodon, m.MutCodon)
	}
	if m.MutAA != "F" {
		t.Errorf("MutAA = %q, want F", m.MutAA)
	}
}

func TestDetectNonSynonymous(t *testing.T) {
	muts := Detect("F", "L", "TTT", "TTA")

	if len(muts) != 1 {
		t.Fatalf("got %d mutations, want 1", len(muts))
	}
	m := muts[0]
	if m.Type != TypeNonSynonymous {
		t.Errorf("Type = %q, want %q", m.Type, TypeNonSynonymous)
	}
	if m.WildType != "F" || m.Mutant != "L" {
		t.Errorf("WildType/Mutant = %q/%q, want F/L", m.WildType, m.Mutant)
	}
}

// With DNA present, codon identity is authoritative: equal codons emit no
// mutation even when the protein strings disagree.
func TestDetectCodonAuthoritative(t *testing.T) {
	muts := Detect("X", "F", "TTT", "TTT")
	if len(muts) != 0 {
		t.Errorf("got %d mutations, want 0: %+v", len(muts), muts)
	}
}

func TestDetectProteinFallback(t *testing.T) {
	muts := Detect("FL", "LL", "", "")

	if len(muts) != 1 {
		t.Fatalf("got %d mutations, want 1", len(muts))
	}
	m := muts[0]
	if m.Position != 1 {
		t.Errorf("Position = %d, want 1", m.Position)
	}
	if m.Type != TypeNonSynonymous {
		t.Errorf("Type = %q, want %q (silent changes invisible without DNA)", m.Type, TypeNonSynonymous)
	}
	if m.WTCodon != "" || m.MutCodon != "" || m.MutAA != "" {
		t.Errorf("codon fields populated without DNA: %+v", m)
	}
}

func TestDetectTrailingExtension(t *testing.T) {
	muts := Detect("MKVLA", "MKVLAFG", "", "")

	if len(muts) != 2 {
		t.Fatalf("got %d mutations, want 2", len(muts))
	}
	want := []Mutation{
		{Position: 6, WildType: Gap, Mutant: "F", Type: TypeNonSynonymous},
		{Position: 7, WildType: Gap, Mutant: "G", Type: TypeNonSynonymous},
	}
	if !reflect.DeepEqual(muts, want) {
		t.Errorf("got %+v, want %+v", muts, want)
	}
}

func TestDetectTrailingTruncation(t *testing.T) {
	muts := Detect("MKVLAFG", "MKVLA", "", "")

	if len(muts) != 2 {
		t.Fatalf("got %d mutations, want 2", len(muts))
	}
	for i, m := range muts {
		if m.Mutant != Gap {
			t.Errorf("mutation %d: Mutant = %q, want %q", i, m.Mutant, Gap)
		}
	}
	if muts[0].WildType != "F" || muts[1].WildType != "G" {
		t.Errorf("truncated residues = %q,%q, want F,G", muts[0].WildType, muts[1].WildType)
	}
}

func TestDetectInternalStopSkipped(t *testing.T) {
	// Positions whose codons hit a premature stop are left to
	// translation-level QC rather than reported as substitutions.
	muts := Detect("KF", "KF", "AAATTT", "AAATAA")
	if len(muts) != 0 {
		t.Errorf("got %d mutations, want 0: %+v", len(muts), muts)
	}
}

func TestDetectIdempotent(t *testing.T) {
	wtP, varP := "MKVLAFGHIK", "MKVLCFGHIKWW"
	first := Detect(wtP, varP, "", "")
	for i := 0; i < 5; i++ {
		if again := Detect(wtP, varP, "", ""); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from first run", i)
		}
	}
	for i := 1; i < len(first); i++ {
		if first[i].Position <= first[i-1].Position {
			t.Errorf("positions not strictly ascending at index %d", i)
		}
	}
}

func TestDetectIdentical(t *testing.T) {
	if muts := Detect("MKVLA", "MKVLA", "ATGAAAGTGCTGGCT", "ATGAAAGTGCTGGCT"); len(muts) != 0 {
		t.Errorf("identical sequences produced %d mutations", len(muts))
	}
}

func TestCountByType(t *testing.T) {
	muts := []Mutation{
		{Type: TypeSynonymous},
		{Type: TypeNonSynonymous},
		{Type: TypeNonSynonymous},
	}
	syn, nonSyn := CountByType(muts)
	if syn != 1 || nonSyn != 2 {
		t.Errorf("CountByType = %d/%d, want 1/2", syn, nonSyn)
	}
}
