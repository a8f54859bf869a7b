package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/evotrace/evotrace/internal/analysis"
	"github.com/evotrace/evotrace/internal/duckdb"
	"github.com/evotrace/evotrace/internal/ingest"
	"github.com/evotrace/evotrace/internal/output"
	"github.com/evotrace/evotrace/internal/validate"
)

func runAnalyze(args []string) int {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)

	var (
		wtPath      string
		accession   string
		plasmidPath string
		outputFile  string
		dbPath      string
		workers     int
		verbose     bool
	)

	fs.StringVar(&wtPath, "wt", "", "Wild-type protein FASTA file")
	fs.StringVar(&accession, "uniprot", "", "UniProt accession for the wild-type protein")
	fs.StringVar(&plasmidPath, "plasmid", "", "Reference plasmid DNA FASTA file (required)")
	fs.StringVar(&outputFile, "o", "", "Output file (default: stdout)")
	fs.StringVar(&outputFile, "output", "", "Output file (default: stdout)")
	fs.StringVar(&dbPath, "db", "", "DuckDB database file to persist results to")
	fs.IntVar(&workers, "workers", 0, "Number of analysis workers (default: number of CPUs)")
	fs.BoolVar(&verbose, "verbose", false, "Log per-variant failures")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Detect mutations in assembled variant sequences.

The reference plasmid is validated against the wild-type protein once to
locate the gene; each variant is then read in the same window and compared
codon by codon. Output is a tab-delimited mutation report.

Usage:
  evotrace analyze [options] <variant-table>

Arguments:
  <variant-table>  TSV or JSON variant table (use '-' for TSV on stdin)

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  evotrace analyze --wt wt.fasta --plasmid plasmid.fasta variants.tsv
  evotrace analyze --uniprot P00648 --plasmid plasmid.fasta variants.json
  evotrace analyze --wt wt.fasta --plasmid plasmid.fasta --db results.duckdb variants.tsv
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
	if plasmidPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --plasmid is required\n")
		return ExitUsage
	}

	wtProtein, err := loadWTProtein(wtPath, accession)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	refPlasmid, err := loadPlasmid(plasmidPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	analyzer, err := analysis.NewAnalyzer(wtProtein, refPlasmid, validate.DefaultOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	if verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			analyzer.SetLogger(logger)
			defer logger.Sync()
		}
	}

	m := analyzer.Match()
	fmt.Fprintf(os.Stderr, "Gene located: strand %s, frame %d, nt %d-%d (%s match)\n",
		m.Strand, m.Frame, m.StartNT, m.EndNT, m.MatchType)

	table, err := parseTable(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	printIngestSummary(table)

	variants := make([]analysis.Variant, 0, len(table.Variants))
	rowByID := make(map[string]ingest.Row, len(table.Variants))
	for _, row := range table.Variants {
		variants = append(variants, analysis.Variant{
			ID:         row.VariantIndex,
			DNA:        row.DNA,
			Generation: row.Generation,
		})
		rowByID[row.VariantIndex] = row
	}

	results := analyzer.AnalyzeBatch(variants, workers)

	out, closeOut, err := openOutput(outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		return ExitError
	}
	defer closeOut()

	writer := output.NewTabWriter(out)
	if err := writer.WriteHeader(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing header: %v\n", err)
		return ExitError
	}
	for _, r := range results {
		if err := writer.WriteResult(r); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing result: %v\n", err)
			return ExitError
		}
	}
	if err := writer.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error flushing output: %v\n", err)
		return ExitError
	}

	summary := analysis.Summarize(results)
	fmt.Fprintf(os.Stderr, "Analyzed %d variants (%d failed): %d synonymous, %d non-synonymous mutations\n",
		summary.Variants, summary.Failed, summary.Synonymous, summary.NonSynonymous)

	if dbPath != "" {
		if err := persistResults(dbPath, results, rowByID); err != nil {
			fmt.Fprintf(os.Stderr, "Error persisting results: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(os.Stderr, "Results written to %s\n", dbPath)
	}

	return ExitSuccess
}

// persistResults writes analyzed variants and their mutations to DuckDB.
// Failed variants are skipped.
func persistResults(dbPath string, results []*analysis.Result, rowByID map[string]ingest.Row) error {
	store, err := duckdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	rows := make([]duckdb.VariantRow, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		src := rowByID[r.ID]
		rows = append(rows, duckdb.VariantRow{
			VariantID:    r.ID,
			ParentID:     src.Parent,
			Generation:   r.Generation,
			Protein:      r.Protein,
			DNAYield:     src.DNAYield,
			ProteinYield: src.ProteinYield,
		})
	}
	if err := store.WriteVariants(rows); err != nil {
		return err
	}

	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if err := store.ReplaceMutations(r.ID, r.Generation, r.Mutations); err != nil {
			return fmt.Errorf("writing mutations for %s: %w", r.ID, err)
		}
	}
	return nil
}
