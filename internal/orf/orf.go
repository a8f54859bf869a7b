// Package orf finds open reading frames across all six frames of a
// possibly-circular DNA sequence.
package orf

import (
	"sort"
	"strings"

	"github.com/evotrace/evotrace/internal/seq"
)

// ORF is an open reading frame located on a plasmid.
//
// Start is the 0-based offset of the ATG and End the 0-based offset of the
// terminating codon, both reduced modulo the original sequence length so
// that ORFs spanning the circular origin report in-range coordinates
// (Start > End signals a wrapped ORF). For reverse-strand ORFs the offsets
// are on the reverse-complement strand.
type ORF struct {
	Start   int
	End     int
	Protein string
	Frame   int // 0,1,2 = forward frames; -1,-2,-3 = reverse frames
}

// Reverse reports whether the ORF lies on the reverse-complement strand.
func (o ORF) Reverse() bool { return o.Frame < 0 }

// Find enumerates ORFs of at least minProteinLen amino acids in all three
// forward and all three reverse-complement frames. The sequence is treated
// as circular: scanning runs over the doubled sequence with ORF starts
// restricted to the first copy, so a coding region spanning the origin is
// still found. Every reported ORF ends at a stop (or untranslatable)
// codon; a start whose frame never reaches one on the circle is not
// reported.
//
// Results are sorted by descending protein length. Ties keep discovery
// order: forward frames 0,1,2 then reverse frames 0,1,2, each in scan
// order. A short input yields an empty (nil) slice, not an error.
func Find(dna string, minProteinLen int) []ORF {
	cleaned := seq.Clean(dna)
	n := len(cleaned)
	if n < 3 {
		return nil
	}

	var orfs []ORF
	doubled := cleaned + cleaned
	for frame := 0; frame < 3; frame++ {
		orfs = append(orfs, scanFrame(doubled, n, frame, frame, minProteinLen)...)
	}

	rc := seq.ReverseComplement(cleaned)
	doubledRC := rc + rc
	for frame := 0; frame < 3; frame++ {
		orfs = append(orfs, scanFrame(doubledRC, n, frame, -(frame + 1), minProteinLen)...)
	}

	sort.SliceStable(orfs, func(i, j int) bool {
		return len(orfs[i].Protein) > len(orfs[j].Protein)
	})
	return orfs
}

// scanState is the per-frame scanner state.
type scanState int

const (
	scanning  scanState = iota // looking for a start codon
	extending                  // inside an ORF, accumulating residues
)

// scanFrame runs the two-state codon scanner over one frame of the doubled
// sequence. ORF starts are restricted to offsets below n (the original
// length) so each wrapped ORF is reported once.
func scanFrame(doubled string, n, offset, frameLabel, minProteinLen int) []ORF {
	var orfs []ORF

	state := scanning
	start := 0
	var protein strings.Builder

	emit := func(endPos int) {
		if protein.Len() >= minProteinLen {
			orfs = append(orfs, ORF{
				Start:   start % n,
				End:     endPos % n,
				Protein: protein.String(),
				Frame:   frameLabel,
			})
		}
		state = scanning
		protein.Reset()
	}

	for pos := offset; pos+3 <= len(doubled); pos += 3 {
		codon := doubled[pos : pos+3]

		switch state {
		case scanning:
			if seq.IsStartCodon(codon) && pos < n {
				state = extending
				start = pos
				protein.WriteByte('M')
			}
		case extending:
			aa := seq.TranslateCodon(codon)
			if aa == '*' || aa == 'X' {
				emit(pos)
				continue
			}
			protein.WriteByte(aa)
		}
	}

	// A run still open at the end of the doubled sequence never reached a
	// terminating codon in its frame; it is not an ORF and is dropped.
	return orfs
}
