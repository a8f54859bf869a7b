package analysis

import "github.com/evotrace/evotrace/internal/mutation"

// Summary aggregates a batch of analysis results.
type Summary struct {
	Variants      int
	Failed        int
	Synonymous    int
	NonSynonymous int
	ByGeneration  map[int]int // analyzed variants per generation
}

// Summarize tallies mutation counts across a batch.
func Summarize(results []*Result) Summary {
	s := Summary{ByGeneration: make(map[int]int)}
	for _, r := range results {
		s.Variants++
		if r.Err != nil {
			s.Failed++
			continue
		}
		s.ByGeneration[r.Generation]++
		syn, nonSyn := mutation.CountByType(r.Mutations)
		s.Synonymous += syn
		s.NonSynonymous += nonSyn
	}
	return s
}
