// Package validate locates a wild-type protein's coding sequence inside a
// circular plasmid using a tiered match strategy: exact substring search,
// fuzzy fixed-window identity, then Smith-Waterman local alignment.
package validate

import (
	"errors"
	"fmt"

	"github.com/evotrace/evotrace/internal/align"
	"github.com/evotrace/evotrace/internal/seq"
)

// Match types, in tier order.
const (
	MatchExact = "exact"
	MatchFuzzy = "fuzzy"
	MatchAlign = "local-alignment"
	MatchNone  = "none"
)

// Input errors.
var (
	ErrEmptyPlasmid = errors.New("plasmid sequence is empty")
	ErrEmptyProtein = errors.New("WT protein sequence is empty")
)

// Options are the matcher thresholds. Zero values are replaced by defaults.
type Options struct {
	MinWTLen       int     // minimum WT protein length in aa (default 30)
	FuzzyThreshold float64 // tier 2 window identity threshold (default 0.95)
	MinIdentity    float64 // tier 3 alignment identity threshold (default 0.90)
	MinCoverage    float64 // tier 3 WT coverage threshold (default 0.95)

	// Tier 3 is O(n*m); these guards skip it for pathological input sizes
	// unless AllowSlowAlign is set.
	MaxAlignWTLen      int // default 2000 aa
	MaxAlignPlasmidLen int // default 200000 nt
	AllowSlowAlign     bool
}

// DefaultOptions returns the thresholds used by the staging workflow.
func DefaultOptions() Options {
	return Options{
		MinWTLen:           30,
		FuzzyThreshold:     0.95,
		MinIdentity:        0.90,
		MinCoverage:        0.95,
		MaxAlignWTLen:      2000,
		MaxAlignPlasmidLen: 200000,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinWTLen == 0 {
		o.MinWTLen = d.MinWTLen
	}
	if o.FuzzyThreshold == 0 {
		o.FuzzyThreshold = d.FuzzyThreshold
	}
	if o.MinIdentity == 0 {
		o.MinIdentity = d.MinIdentity
	}
	if o.MinCoverage == 0 {
		o.MinCoverage = d.MinCoverage
	}
	if o.MaxAlignWTLen == 0 {
		o.MaxAlignWTLen = d.MaxAlignWTLen
	}
	if o.MaxAlignPlasmidLen == 0 {
		o.MaxAlignPlasmidLen = d.MaxAlignPlasmidLen
	}
	return o
}

// MatchResult reports where (and how well) the WT protein's coding sequence
// was found in the plasmid.
//
// StartNT/EndNT are 0-based offsets on the matched strand (for "-" matches,
// on the reverse complement), reduced modulo the plasmid length.
type MatchResult struct {
	Valid       bool    `json:"is_valid"`
	MatchType   string  `json:"match_type"`
	Strand      string  `json:"strand,omitempty"` // "+" or "-"
	Frame       int     `json:"frame"`            // 0, 1, or 2 on the matched strand
	StartNT     int     `json:"start_nt"`
	EndNT       int     `json:"end_nt_exclusive"`
	WrapsOrigin bool    `json:"wraps_origin"`
	Identity    float64 `json:"identity"`
	Coverage    float64 `json:"coverage"`
	CodingDNA   string  `json:"-"` // resolved WT coding-DNA substring
	Reason      string  `json:"reason,omitempty"`
}

// frameView is one of the six translated reading frames of the doubled
// plasmid.
type frameView struct {
	strand      string
	frame       int
	strandSeq   string // doubled sequence on this strand
	translation string // full-frame translation with '*' and 'X' kept
}

// Validate locates wtProtein in plasmidDNA. Truly malformed input (empty
// sequences, WT below the minimum length) returns an error; an exhausted
// search returns a MatchResult with Valid=false and the best identity
// actually achieved, so callers can report how close the plasmid came.
func Validate(plasmidDNA, wtProtein string, opts Options) (*MatchResult, error) {
	opts = opts.withDefaults()

	plasmid := seq.Clean(plasmidDNA)
	wt := seq.Clean(wtProtein)

	if plasmid == "" {
		return nil, ErrEmptyPlasmid
	}
	if wt == "" {
		return nil, ErrEmptyProtein
	}
	if len(wt) < opts.MinWTLen {
		return nil, fmt.Errorf("WT protein too short: %d aa (minimum %d)", len(wt), opts.MinWTLen)
	}
	if err := seq.ValidateDNA(plasmid); err != nil {
		return nil, fmt.Errorf("plasmid: %w", err)
	}
	if err := seq.ValidateProtein(wt); err != nil {
		return nil, fmt.Errorf("WT protein: %w", err)
	}

	n := len(plasmid)
	if n < 3*len(wt) {
		return &MatchResult{
			MatchType: MatchNone,
			Reason:    fmt.Sprintf("plasmid too short: %d nt cannot encode a %d aa protein", n, len(wt)),
		}, nil
	}

	frames := buildFrames(plasmid)

	if r := matchExact(frames, wt, n); r != nil {
		return r, nil
	}

	fuzzy, bestFuzzy := matchFuzzy(frames, wt, n, opts.FuzzyThreshold)
	if fuzzy != nil {
		return fuzzy, nil
	}

	aligned, bestAlign, skipped := matchAligned(frames, wt, n, opts)
	if aligned != nil {
		return aligned, nil
	}

	best := bestFuzzy
	if bestAlign > best {
		best = bestAlign
	}
	reason := fmt.Sprintf("no match in any reading frame: best identity %.3f below thresholds (fuzzy %.2f, alignment %.2f)",
		best, opts.FuzzyThreshold, opts.MinIdentity)
	if skipped {
		reason += "; alignment tier skipped by size guard"
	}
	return &MatchResult{MatchType: MatchNone, Identity: best, Reason: reason}, nil
}

// buildFrames translates the doubled plasmid in all six frames. Doubling
// lets a coding region spanning the circular origin appear contiguously.
// Frame order fixes the tier 1 first-hit priority: +0,+1,+2,-0,-1,-2.
func buildFrames(plasmid string) []frameView {
	doubled := plasmid + plasmid
	rcDoubled := seq.ReverseComplement(plasmid)
	rcDoubled += rcDoubled

	frames := make([]frameView, 0, 6)
	for f := 0; f < 3; f++ {
		frames = append(frames, frameView{
			strand: "+", frame: f, strandSeq: doubled,
			translation: seq.TranslateFull(doubled[f:]),
		})
	}
	for f := 0; f < 3; f++ {
		frames = append(frames, frameView{
			strand: "-", frame: f, strandSeq: rcDoubled,
			translation: seq.TranslateFull(rcDoubled[f:]),
		})
	}
	return frames
}

// residuesMatch reports whether a translated residue matches a WT residue,
// treating 'X' (ambiguous translation) as a wildcard.
func residuesMatch(translated, wt byte) bool {
	return translated == wt || translated == 'X'
}

// matchExact searches each frame translation for the WT protein as an
// X-tolerant substring. The first hit in frame order wins.
func matchExact(frames []frameView, wt string, n int) *MatchResult {
	for _, fv := range frames {
		tr := fv.translation
		for i := 0; i+len(wt) <= len(tr); i++ {
			dnaStart := fv.frame + 3*i
			if dnaStart >= n {
				break // second-copy starts duplicate first-copy matches
			}
			ok := true
			for j := 0; j < len(wt); j++ {
				if !residuesMatch(tr[i+j], wt[j]) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
			dnaEnd := dnaStart + 3*len(wt)
			return &MatchResult{
				Valid:       true,
				MatchType:   MatchExact,
				Strand:      fv.strand,
				Frame:       fv.frame,
				StartNT:     dnaStart % n,
				EndNT:       dnaEnd % n,
				WrapsOrigin: dnaEnd > n,
				Identity:    1.0,
				Coverage:    1.0,
				CodingDNA:   fv.strandSeq[dnaStart:dnaEnd],
			}
		}
	}
	return nil
}

// matchFuzzy slides a WT-length window over each frame translation and
// accepts the best-identity window if it clears the threshold. Returns the
// best identity seen either way so failures can report it.
func matchFuzzy(frames []frameView, wt string, n int, threshold float64) (*MatchResult, float64) {
	bestIdentity := 0.0
	var bestFrame *frameView
	bestStart := 0

	for k := range frames {
		fv := &frames[k]
		tr := fv.translation
		for i := 0; i+len(wt) <= len(tr); i++ {
			if fv.frame+3*i >= n {
				break
			}
			matches := 0
			for j := 0; j < len(wt); j++ {
				if residuesMatch(tr[i+j], wt[j]) {
					matches++
				}
			}
			identity := float64(matches) / float64(len(wt))
			if identity > bestIdentity {
				bestIdentity = identity
				bestFrame = fv
				bestStart = i
			}
		}
	}

	if bestFrame == nil || bestIdentity < threshold {
		return nil, bestIdentity
	}

	dnaStart := bestFrame.frame + 3*bestStart
	dnaEnd := dnaStart + 3*len(wt)
	return &MatchResult{
		Valid:       true,
		MatchType:   MatchFuzzy,
		Strand:      bestFrame.strand,
		Frame:       bestFrame.frame,
		StartNT:     dnaStart % n,
		EndNT:       dnaEnd % n,
		WrapsOrigin: dnaEnd > n,
		Identity:    bestIdentity,
		Coverage:    1.0,
		CodingDNA:   bestFrame.strandSeq[dnaStart:dnaEnd],
	}, bestIdentity
}

// matchAligned runs local alignment of the WT protein against each frame
// translation, tolerating small insertions and deletions the fixed-window
// tiers cannot. Returns the accepted result (or nil), the best identity
// seen, and whether the tier was skipped by the size guard.
func matchAligned(frames []frameView, wt string, n int, opts Options) (*MatchResult, float64, bool) {
	if !opts.AllowSlowAlign && (len(wt) > opts.MaxAlignWTLen || n > opts.MaxAlignPlasmidLen) {
		return nil, 0, true
	}

	var best align.Result
	var bestFrame *frameView

	for k := range frames {
		fv := &frames[k]
		r := align.Local(wt, fv.translation, align.DefaultScoring)
		if r.Score > best.Score {
			best = r
			bestFrame = fv
		}
	}

	if bestFrame == nil {
		return nil, 0, false
	}

	identity := best.Identity()
	coverage := best.QueryCoverage(len(wt))
	if identity < opts.MinIdentity || coverage < opts.MinCoverage {
		return nil, identity, false
	}

	dnaStart := bestFrame.frame + 3*best.TargetStart
	dnaEnd := bestFrame.frame + 3*best.TargetEnd
	return &MatchResult{
		Valid:       true,
		MatchType:   MatchAlign,
		Strand:      bestFrame.strand,
		Frame:       bestFrame.frame,
		StartNT:     dnaStart % n,
		EndNT:       dnaEnd % n,
		WrapsOrigin: dnaEnd > n && dnaStart < n,
		Identity:    identity,
		Coverage:    coverage,
		CodingDNA:   bestFrame.strandSeq[dnaStart:dnaEnd],
	}, identity, false
}
