// Package analysis runs batches of variant plasmids against a validated
// wild-type reference: gene extraction, translation, and codon-level
// mutation calling per variant.
package analysis

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/evotrace/evotrace/internal/mutation"
	"github.com/evotrace/evotrace/internal/seq"
	"github.com/evotrace/evotrace/internal/validate"
)

// Variant is one assembled plasmid to analyze.
type Variant struct {
	ID         string
	DNA        string
	Generation int
}

// Result is the per-variant analysis outcome. Err is set when the variant
// could not be analyzed; the other fields are then zero.
type Result struct {
	ID         string
	Generation int
	GeneDNA    string
	Protein    string
	Mutations  []mutation.Mutation
	Err        error
}

// Analyzer holds the WT reference data computed once per batch. The gene
// coordinates are locked by a single validation pass against the reference
// plasmid and reused read-only for every variant, so an Analyzer is safe
// for concurrent use.
type Analyzer struct {
	wtProtein  string
	wtGeneDNA  string
	geneStart  int
	geneLength int
	reverse    bool
	match      *validate.MatchResult
	logger     *zap.Logger
}

// NewAnalyzer validates that refPlasmid encodes wtProtein and locks the
// gene coordinates for the batch. A failed validation is an error here,
// not a reportable result: analyzing variants against an unvalidated
// reference would misattribute every downstream mutation.
func NewAnalyzer(wtProtein, refPlasmid string, opts validate.Options) (*Analyzer, error) {
	m, err := validate.Validate(refPlasmid, wtProtein, opts)
	if err != nil {
		return nil, err
	}
	if !m.Valid {
		return nil, fmt.Errorf("reference plasmid does not encode the WT protein: %s", m.Reason)
	}

	return &Analyzer{
		wtProtein:  seq.Clean(wtProtein),
		wtGeneDNA:  m.CodingDNA,
		geneStart:  m.StartNT,
		geneLength: len(m.CodingDNA),
		reverse:    m.Strand == "-",
		match:      m,
		logger:     zap.NewNop(),
	}, nil
}

// SetLogger sets the logger for warning and info messages.
func (a *Analyzer) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Match returns the WT validation result the batch is anchored on.
func (a *Analyzer) Match() *validate.MatchResult { return a.match }

// WTGeneDNA returns the resolved wild-type coding sequence.
func (a *Analyzer) WTGeneDNA() string { return a.wtGeneDNA }

// AnalyzeVariant extracts the locked gene window from one variant plasmid,
// translates it, and calls mutations against the WT coding sequence.
// Variant plasmids are assumed to share the reference backbone, so the
// gene sits at the same circular coordinates in each.
func (a *Analyzer) AnalyzeVariant(v Variant) (*Result, error) {
	dna := seq.Clean(v.DNA)
	if dna == "" {
		return nil, fmt.Errorf("variant %s: %w", v.ID, seq.ErrEmptySequence)
	}
	if err := seq.ValidateDNA(dna); err != nil {
		return nil, fmt.Errorf("variant %s: %w", v.ID, err)
	}

	strandSeq := dna
	if a.reverse {
		strandSeq = seq.ReverseComplement(dna)
	}

	// ExtractCircular wraps at most once, so a plasmid shorter than the
	// gene window comes back truncated rather than empty.
	geneDNA := seq.ExtractCircular(strandSeq, a.geneStart, a.geneLength)
	if len(geneDNA) != a.geneLength {
		return nil, fmt.Errorf("variant %s: plasmid length %d cannot contain gene window [%d,+%d)",
			v.ID, len(dna), a.geneStart, a.geneLength)
	}

	protein := seq.Translate(geneDNA)
	muts := mutation.Detect(a.wtProtein, protein, a.wtGeneDNA, geneDNA)

	return &Result{
		ID:         v.ID,
		Generation: v.Generation,
		GeneDNA:    geneDNA,
		Protein:    protein,
		Mutations:  muts,
	}, nil
}

// AnalyzeBatch analyzes all variants concurrently and returns results in
// input order. Per-variant failures are logged and carried in Result.Err
// rather than aborting the batch.
func (a *Analyzer) AnalyzeBatch(variants []Variant, workers int) []*Result {
	items := make(chan WorkItem, len(variants))
	go func() {
		defer close(items)
		for i, v := range variants {
			items <- WorkItem{Seq: i, Variant: v}
		}
	}()

	resultCh := a.ParallelAnalyze(items, workers)

	out := make([]*Result, 0, len(variants))
	_ = OrderedCollect(resultCh, func(r WorkResult) error {
		if r.Err != nil {
			a.logger.Warn("variant analysis failed",
				zap.String("variant", r.Variant.ID),
				zap.Error(r.Err))
			out = append(out, &Result{
				ID:         r.Variant.ID,
				Generation: r.Variant.Generation,
				Err:        r.Err,
			})
			return nil
		}
		out = append(out, r.Result)
		return nil
	})
	return out
}
