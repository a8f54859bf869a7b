package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/evotrace/evotrace/internal/ingest"
	"github.com/evotrace/evotrace/internal/output"
	"github.com/evotrace/evotrace/internal/score"
)

func runScore(args []string) int {
	fs := flag.NewFlagSet("score", flag.ExitOnError)

	var (
		outputFile string
		topN       int
		epsilon    float64
		verbose    bool
	)

	fs.StringVar(&outputFile, "o", "", "Output file (default: stdout)")
	fs.StringVar(&outputFile, "output", "", "Output file (default: stdout)")
	fs.IntVar(&topN, "top", 10, "Number of top performers to list (0 to skip)")
	fs.Float64Var(&epsilon, "epsilon",
		floatSetting("score.epsilon", 0.01),
		"Lower clamp applied to yields and baselines")
	fs.BoolVar(&verbose, "verbose", false, "Log baseline fallbacks")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Compute activity scores from DNA and protein yields.

Each variant's yields are normalized against the median yields of the
control samples in its generation, and the score is the ratio of the two
fold changes. Generations without controls fall back to the overall
control median.

Usage:
  evotrace score [options] <variant-table>

Arguments:
  <variant-table>  TSV or JSON variant table (use '-' for TSV on stdin)

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  evotrace score variants.tsv
  evotrace score --top 25 -o scores.txt variants.tsv
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: variant table argument required\n\n")
		fs.Usage()
		return ExitUsage
	}

	table, err := parseTable(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	printIngestSummary(table)

	samples := make([]score.Sample, 0, len(table.Variants)+len(table.Controls))
	for _, row := range table.Variants {
		samples = append(samples, toSample(row, false))
	}
	for _, row := range table.Controls {
		samples = append(samples, toSample(row, true))
	}

	calc := score.NewCalculator(epsilon)
	if verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			calc.SetLogger(logger)
			defer logger.Sync()
		}
	}

	scored, err := calc.Scores(samples)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	out, closeOut, err := openOutput(outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		return ExitError
	}
	defer closeOut()

	sw := output.NewStatsWriter(out)
	if err := sw.WriteGenerationStats(score.GenerationStatistics(scored)); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing statistics: %v\n", err)
		return ExitError
	}
	if err := sw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error flushing output: %v\n", err)
		return ExitError
	}

	if topN > 0 {
		fmt.Fprintln(out)
		if err := sw.WriteTopPerformers(score.TopPerformers(scored, topN)); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing top performers: %v\n", err)
			return ExitError
		}
		if err := sw.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "Error flushing output: %v\n", err)
			return ExitError
		}
	}

	return ExitSuccess
}

func toSample(row ingest.Row, isControl bool) score.Sample {
	return score.Sample{
		ID:           row.VariantIndex,
		Generation:   row.Generation,
		DNAYield:     row.DNAYield,
		ProteinYield: row.ProteinYield,
		IsControl:    isControl,
	}
}
