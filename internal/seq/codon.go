// Package seq provides DNA/protein sequence primitives: cleaning, codon
// translation, reverse complement, and FASTA parsing.
package seq

import "strings"

// Standard genetic code: DNA codon to amino acid (single letter).
var codonTable = map[string]byte{
	"TTT": 'F', "TTC": 'F', "TTA": 'L', "TTG": 'L',
	"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S',
	"TAT": 'Y', "TAC": 'Y', "TAA": '*', "TAG": '*',
	"TGT": 'C', "TGC": 'C', "TGA": '*', "TGG": 'W',

	"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L',
	"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"CAT": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',

	"ATT": 'I', "ATC": 'I', "ATA": 'I', "ATG": 'M',
	"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"AAT": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"AGT": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',

	"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V',
	"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"GAT": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

// TranslateCodon translates a DNA codon to its amino acid.
// Returns 'X' for codons containing ambiguous bases and '*' for stop codons.
// Input is expected to be uppercase (see Clean).
func TranslateCodon(codon string) byte {
	if len(codon) != 3 {
		return 'X'
	}
	if aa, ok := codonTable[codon]; ok {
		return aa
	}
	return 'X'
}

// IsStopCodon returns true if the codon is a stop codon (TAA, TAG, TGA).
func IsStopCodon(codon string) bool {
	return TranslateCodon(codon) == '*'
}

// IsStartCodon returns true if the codon is the start codon (ATG).
func IsStartCodon(codon string) bool {
	return codon == "ATG"
}

// Translate translates DNA to protein, stopping at the first stop codon.
// Trailing bases that do not form a complete codon are ignored, and codons
// with ambiguous bases translate to 'X'. The result never contains '*'.
func Translate(dna string) string {
	var result strings.Builder
	result.Grow(len(dna) / 3)

	for i := 0; i+3 <= len(dna); i += 3 {
		aa := TranslateCodon(dna[i : i+3])
		if aa == '*' {
			break
		}
		result.WriteByte(aa)
	}

	return result.String()
}

// TranslateFull translates DNA to protein keeping stop codons as '*'.
// Used for whole-frame translations where the coding region boundaries
// are not yet known.
func TranslateFull(dna string) string {
	var result strings.Builder
	result.Grow(len(dna) / 3)

	for i := 0; i+3 <= len(dna); i += 3 {
		result.WriteByte(TranslateCodon(dna[i : i+3]))
	}

	return result.String()
}

// GetCodon extracts a codon from a coding sequence at a given codon number.
// Codon numbers are 1-based (codon 1 is positions 1-3).
func GetCodon(cds string, codonNumber int) string {
	if codonNumber < 1 {
		return ""
	}
	start := (codonNumber - 1) * 3
	end := start + 3
	if end > len(cds) {
		return ""
	}
	return cds[start:end]
}

// AminoAcidSingleToThree converts single letter amino acid to three letter code.
var AminoAcidSingleToThree = map[byte]string{
	'A': "Ala", 'C': "Cys", 'D': "Asp", 'E': "Glu",
	'F': "Phe", 'G': "Gly", 'H': "His", 'I': "Ile",
	'K': "Lys", 'L': "Leu", 'M': "Met", 'N': "Asn",
	'P': "Pro", 'Q': "Gln", 'R': "Arg", 'S': "Ser",
	'T': "Thr", 'V': "Val", 'W': "Trp", 'Y': "Tyr",
	'*': "Ter", 'X': "Xaa",
}
