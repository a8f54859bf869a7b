// Package score computes generation-normalized activity scores for
// directed-evolution variants.
//
// Activity score = (DNA yield / DNA baseline) / (protein yield / protein
// baseline): the fold-change in DNA yield normalized by the fold-change in
// protein expression. Baselines are per-generation control medians.
package score

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"
)

// ErrNoControls is returned when a dataset has no control samples to
// derive baselines from.
var ErrNoControls = errors.New("no control data found, controls are required for activity scores")

// Sample is one measured variant or control. Missing yields are NaN.
type Sample struct {
	ID           string
	Generation   int
	DNAYield     float64
	ProteinYield float64
	IsControl    bool
}

// Baseline holds the control medians for one generation.
type Baseline struct {
	DNA     float64
	Protein float64
}

// Scored is a sample with its baselines and computed activity score.
// Controls and samples with missing yields carry HasScore=false.
type Scored struct {
	Sample
	Baseline      Baseline
	ActivityScore float64
	HasScore      bool
}

// Calculator computes activity scores with a division-safety epsilon.
type Calculator struct {
	epsilon float64
	logger  *zap.Logger
}

// NewCalculator returns a calculator. A non-positive epsilon falls back to
// the default 0.01.
func NewCalculator(epsilon float64) *Calculator {
	if epsilon <= 0 {
		epsilon = 0.01
	}
	return &Calculator{epsilon: epsilon, logger: zap.NewNop()}
}

// SetLogger sets the logger for warning messages.
func (c *Calculator) SetLogger(l *zap.Logger) {
	c.logger = l
}

// Baselines derives per-generation control medians. Generations that have
// variants but no controls fall back to the overall control median, with a
// warning.
func (c *Calculator) Baselines(samples []Sample) (map[int]Baseline, error) {
	var controls []Sample
	allGens := make(map[int]bool)
	for _, s := range samples {
		allGens[s.Generation] = true
		if s.IsControl {
			controls = append(controls, s)
		}
	}
	if len(controls) == 0 {
		return nil, ErrNoControls
	}

	byGen := make(map[int][]Sample)
	for _, s := range controls {
		byGen[s.Generation] = append(byGen[s.Generation], s)
	}

	baselines := make(map[int]Baseline, len(allGens))
	for gen, ctrls := range byGen {
		baselines[gen] = Baseline{
			DNA:     median(yields(ctrls, func(s Sample) float64 { return s.DNAYield })),
			Protein: median(yields(ctrls, func(s Sample) float64 { return s.ProteinYield })),
		}
	}

	var missing []int
	for gen := range allGens {
		if _, ok := baselines[gen]; !ok {
			missing = append(missing, gen)
		}
	}
	if len(missing) > 0 {
		sort.Ints(missing)
		c.logger.Warn("generations without controls, using overall median baseline",
			zap.Ints("generations", missing))
		overall := Baseline{
			DNA:     median(yields(controls, func(s Sample) float64 { return s.DNAYield })),
			Protein: median(yields(controls, func(s Sample) float64 { return s.ProteinYield })),
		}
		for _, gen := range missing {
			baselines[gen] = overall
		}
	}

	return baselines, nil
}

// Scores computes activity scores for all samples, in input order.
func (c *Calculator) Scores(samples []Sample) ([]Scored, error) {
	baselines, err := c.Baselines(samples)
	if err != nil {
		return nil, err
	}

	out := make([]Scored, 0, len(samples))
	for _, s := range samples {
		sc := Scored{Sample: s, Baseline: baselines[s.Generation]}
		if !s.IsControl && !math.IsNaN(s.DNAYield) && !math.IsNaN(s.ProteinYield) {
			dnaFold := c.clamp(s.DNAYield) / c.clamp(sc.Baseline.DNA)
			protFold := c.clamp(s.ProteinYield) / c.clamp(sc.Baseline.Protein)
			sc.ActivityScore = dnaFold / protFold
			sc.HasScore = true
		}
		out = append(out, sc)
	}
	return out, nil
}

func (c *Calculator) clamp(v float64) float64 {
	if v < c.epsilon || math.IsNaN(v) {
		return c.epsilon
	}
	return v
}

// TopPerformers returns the n highest-scoring variants, descending.
// Controls and unscored samples are excluded. Ties keep input order.
func TopPerformers(scored []Scored, n int) []Scored {
	var ranked []Scored
	for _, s := range scored {
		if s.HasScore {
			ranked = append(ranked, s)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ActivityScore > ranked[j].ActivityScore
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// GenerationStats summarizes scored variants of one generation.
type GenerationStats struct {
	Generation int
	Count      int
	Mean       float64
	Median     float64
	Min        float64
	Max        float64
	Std        float64 // sample standard deviation, 0 for a single sample
	Q25        float64
	Q75        float64
}

// GenerationStatistics aggregates scores per generation, sorted by
// generation number.
func GenerationStatistics(scored []Scored) []GenerationStats {
	byGen := make(map[int][]float64)
	for _, s := range scored {
		if s.HasScore {
			byGen[s.Generation] = append(byGen[s.Generation], s.ActivityScore)
		}
	}

	gens := make([]int, 0, len(byGen))
	for gen := range byGen {
		gens = append(gens, gen)
	}
	sort.Ints(gens)

	out := make([]GenerationStats, 0, len(gens))
	for _, gen := range gens {
		vals := byGen[gen]
		sorted := append([]float64(nil), vals...)
		sort.Float64s(sorted)

		st := GenerationStats{
			Generation: gen,
			Count:      len(vals),
			Mean:       mean(vals),
			Median:     median(vals),
			Min:        sorted[0],
			Max:        sorted[len(sorted)-1],
			Q25:        quantile(sorted, 0.25),
			Q75:        quantile(sorted, 0.75),
		}
		if len(vals) > 1 {
			var ss float64
			for _, v := range vals {
				ss += (v - st.Mean) * (v - st.Mean)
			}
			st.Std = math.Sqrt(ss / float64(len(vals)-1))
		}
		out = append(out, st)
	}
	return out
}

func yields(samples []Sample, f func(Sample) float64) []float64 {
	vals := make([]float64, 0, len(samples))
	for _, s := range samples {
		if v := f(s); !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	return vals
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// median of vals; NaN for an empty slice.
func median(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	return quantile(sorted, 0.5)
}

// quantile with linear interpolation over an already-sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	frac := pos - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// String renders a baseline for logs.
func (b Baseline) String() string {
	return fmt.Sprintf("dna=%.3f protein=%.3f", b.DNA, b.Protein)
}
