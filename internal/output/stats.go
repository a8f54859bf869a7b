package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/evotrace/evotrace/internal/score"
)

// StatsWriter renders per-generation activity statistics and top
// performers in aligned columns.
type StatsWriter struct {
	w *tabwriter.Writer
}

// NewStatsWriter creates a stats writer.
func NewStatsWriter(w io.Writer) *StatsWriter {
	return &StatsWriter{w: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

// WriteGenerationStats writes one row per generation.
func (sw *StatsWriter) WriteGenerationStats(stats []score.GenerationStats) error {
	if _, err := fmt.Fprintln(sw.w, "Generation\tN\tMean\tMedian\tMin\tMax\tStd\tQ25\tQ75"); err != nil {
		return err
	}
	for _, g := range stats {
		if _, err := fmt.Fprintf(sw.w, "%d\t%d\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\n",
			g.Generation, g.Count, g.Mean, g.Median, g.Min, g.Max, g.Std, g.Q25, g.Q75); err != nil {
			return err
		}
	}
	return nil
}

// WriteTopPerformers writes the ranked top variants.
func (sw *StatsWriter) WriteTopPerformers(top []score.Scored) error {
	if _, err := fmt.Fprintln(sw.w, "Rank\tVariant\tGeneration\tActivity_score"); err != nil {
		return err
	}
	for i, s := range top {
		if _, err := fmt.Fprintf(sw.w, "%d\t%s\t%d\t%.3f\n",
			i+1, s.ID, s.Generation, s.ActivityScore); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the writer.
func (sw *StatsWriter) Flush() error {
	return sw.w.Flush()
}
