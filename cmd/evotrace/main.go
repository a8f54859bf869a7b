// Package main provides the evotrace command-line tool.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/evotrace/evotrace/internal/ingest"
	"github.com/evotrace/evotrace/internal/seq"
	"github.com/evotrace/evotrace/internal/uniprot"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Global flags
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	// Parse global flags first
	flag.Parse()

	if showVersion {
		fmt.Printf("evotrace version %s (%s) built %s\n", version, commit, date)
		return ExitSuccess
	}

	initConfig()

	// Check for subcommand
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return ExitUsage
	}

	switch args[0] {
	case "validate":
		return runValidate(args[1:])
	case "analyze":
		return runAnalyze(args[1:])
	case "score":
		return runScore(args[1:])
	case "config":
		return runConfig(args[1:])
	case "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		return ExitUsage
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `evotrace - Directed-evolution sequence validation and analysis

Usage:
  evotrace [options] <command> [arguments]

Commands:
  validate    Check that a plasmid encodes the wild-type protein
  analyze     Detect mutations in assembled variant sequences
  score       Compute activity scores from DNA/protein yields
  config      Manage evotrace configuration
  help        Show this help message

Global Options:
  --version   Show version information

Examples:
  # Validate a plasmid against a wild-type protein FASTA
  evotrace validate --wt wt_protein.fasta plasmid.fasta

  # Validate against a UniProt accession instead of a local FASTA
  evotrace validate --uniprot P00648 plasmid.fasta

  # Analyze a variant table and write a mutation report
  evotrace analyze --wt wt_protein.fasta --plasmid plasmid.fasta variants.tsv

  # Score variants and show the top performers per generation
  evotrace score --top 10 variants.tsv

For more information on a command, use:
  evotrace <command> --help
`)
}

// openInput opens a file argument, with '-' meaning stdin.
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// openOutput opens the output file, with "" meaning stdout.
func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// loadWTProtein resolves the wild-type protein from either a FASTA file or
// a UniProt accession. Exactly one of wtPath and accession must be set.
func loadWTProtein(wtPath, accession string) (string, error) {
	switch {
	case wtPath != "" && accession != "":
		return "", fmt.Errorf("--wt and --uniprot are mutually exclusive")
	case wtPath != "":
		data, err := os.ReadFile(wtPath)
		if err != nil {
			return "", fmt.Errorf("reading WT protein: %w", err)
		}
		protein, err := seq.ParseProtein(string(data), false)
		if err != nil {
			return "", fmt.Errorf("parsing WT protein: %w", err)
		}
		return protein, nil
	case accession != "":
		client := uniprot.NewClient()
		if dir := uniprotCacheDir(); dir != "" {
			client.SetCache(uniprot.NewDiskCache(dir, uniprot.DefaultCacheTTL))
		}
		rec, err := client.FetchProtein(accession)
		if err != nil {
			return "", fmt.Errorf("fetching %s from UniProt: %w", accession, err)
		}
		fmt.Fprintf(os.Stderr, "Fetched %s from UniProt (%d aa)\n", accession, len(rec.Sequence))
		return rec.Sequence, nil
	default:
		return "", fmt.Errorf("either --wt or --uniprot is required")
	}
}

// uniprotCacheDir returns the on-disk UniProt response cache location.
func uniprotCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".evotrace", "uniprot")
}

// loadPlasmid reads a plasmid DNA sequence from a FASTA (or raw) file.
func loadPlasmid(path string) (string, error) {
	r, err := openInput(path)
	if err != nil {
		return "", fmt.Errorf("reading plasmid: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading plasmid: %w", err)
	}
	dna, err := seq.ParseDNA(string(data), false)
	if err != nil {
		return "", fmt.Errorf("parsing plasmid: %w", err)
	}
	return dna, nil
}

// parseTable parses a variant table, dispatching on file extension
// (.json for JSON arrays, anything else is tab-separated).
func parseTable(path string) (*ingest.Result, error) {
	r, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return ingest.ParseJSON(r)
	}
	return ingest.ParseTSV(r)
}

// printIngestSummary reports parse results and any rejected rows on stderr.
func printIngestSummary(res *ingest.Result) {
	s := res.Summary
	fmt.Fprintf(os.Stderr, "Parsed %d rows: %d variants, %d controls, %d rejected\n",
		s.TotalRows, s.ValidRows-s.ControlRows, s.ControlRows, s.RejectedRows)
	for _, rej := range res.Rejected {
		fmt.Fprintf(os.Stderr, "  row %d rejected: %s\n", rej.RowNumber, rej.Reason)
	}
}

// floatSetting reads a float config key, falling back to def when unset.
func floatSetting(key string, def float64) float64 {
	if viper.IsSet(key) {
		return viper.GetFloat64(key)
	}
	return def
}
