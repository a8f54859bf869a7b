// Package mutation compares variant proteins against a wild-type reference
// at codon resolution and models multi-generation variant lineages.
package mutation

import (
	"github.com/evotrace/evotrace/internal/seq"
)

// Mutation classification.
const (
	TypeSynonymous    = "synonymous"
	TypeNonSynonymous = "non-synonymous"
)

// Gap marks the absent side of a trailing length difference.
const Gap = "-"

// Mutation is one amino-acid-position difference between WT and variant.
// Field names follow the downstream persistence schema.
type Mutation struct {
	Position int    `json:"position"` // 1-based residue index
	WildType string `json:"wild_type"`
	Mutant   string `json:"mutant"`
	WTCodon  string `json:"wt_codon,omitempty"`
	MutCodon string `json:"mut_codon,omitempty"`
	MutAA    string `json:"mut_aa,omitempty"`
	Type     string `json:"type"`
}

// Detect compares variant against WT position by position and returns the
// differences in ascending position order.
//
// When both coding sequences are supplied, codons are authoritative: equal
// codons emit nothing even if the protein strings disagree, and differing
// codons are classified synonymous or non-synonymous by the amino acids
// they encode. Without DNA every difference is non-synonymous, since
// silent changes are invisible at the protein level.
//
// Positions past the shorter protein are reported as trailing-gap
// mutations with "-" on the missing side. Mid-sequence indels are NOT
// realigned; they surface as a run of substitutions plus a trailing
// length difference.
func Detect(wtProtein, varProtein, wtDNA, varDNA string) []Mutation {
	wtP := seq.Clean(wtProtein)
	varP := seq.Clean(varProtein)
	useDNA := wtDNA != "" && varDNA != ""

	var wtD, varD string
	if useDNA {
		wtD = seq.Clean(wtDNA)
		varD = seq.Clean(varDNA)
	}

	shorter := len(wtP)
	if len(varP) < shorter {
		shorter = len(varP)
	}
	longer := len(wtP)
	if len(varP) > longer {
		longer = len(varP)
	}

	var muts []Mutation
	for i := 0; i < shorter; i++ {
		pos := i + 1

		if useDNA {
			wtCodon := seq.GetCodon(wtD, pos)
			varCodon := seq.GetCodon(varD, pos)
			if wtCodon != "" && varCodon != "" {
				if wtCodon == varCodon {
					continue
				}
				wtAA := seq.TranslateCodon(wtCodon)
				varAA := seq.TranslateCodon(varCodon)
				if wtAA == '*' || varAA == '*' {
					continue // internal stop, leave to translation-level QC
				}
				m := Mutation{
					Position: pos,
					WildType: string(wtAA),
					Mutant:   string(varAA),
					WTCodon:  wtCodon,
					MutCodon: varCodon,
					MutAA:    string(varAA),
					Type:     TypeNonSynonymous,
				}
				if wtAA == varAA {
					m.Type = TypeSynonymous
				}
				muts = append(muts, m)
				continue
			}
			// Codons ran out before the proteins did; fall through to the
			// amino-acid comparison for this position.
		}

		if wtP[i] != varP[i] {
			muts = append(muts, Mutation{
				Position: pos,
				WildType: string(wtP[i]),
				Mutant:   string(varP[i]),
				Type:     TypeNonSynonymous,
			})
		}
	}

	// Trailing length difference: one gap record per extra residue.
	for i := shorter; i < longer; i++ {
		m := Mutation{Position: i + 1, Type: TypeNonSynonymous}
		if len(varP) > len(wtP) {
			m.WildType = Gap
			m.Mutant = string(varP[i])
		} else {
			m.WildType = string(wtP[i])
			m.Mutant = Gap
		}
		muts = append(muts, m)
	}

	return muts
}

// CountByType tallies mutations per classification.
func CountByType(muts []Mutation) (synonymous, nonSynonymous int) {
	for _, m := range muts {
		if m.Type == TypeSynonymous {
			synonymous++
		} else {
			nonSynonymous++
		}
	}
	return synonymous, nonSynonymous
}
