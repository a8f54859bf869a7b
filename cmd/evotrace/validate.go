package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/evotrace/evotrace/internal/output"
	"github.com/evotrace/evotrace/internal/validate"
)

func runValidate(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)

	defaults := validate.DefaultOptions()

	var (
		wtPath     string
		accession  string
		outputFile string
		opts       validate.Options
	)

	fs.StringVar(&wtPath, "wt", "", "Wild-type protein FASTA file")
	fs.StringVar(&accession, "uniprot", "", "UniProt accession for the wild-type protein")
	fs.StringVar(&outputFile, "o", "", "Output file (default: stdout)")
	fs.StringVar(&outputFile, "output", "", "Output file (default: stdout)")
	fs.Float64Var(&opts.FuzzyThreshold, "fuzzy-threshold",
		floatSetting("validate.fuzzy_threshold", defaults.FuzzyThreshold),
		"Minimum window identity for a fuzzy match")
	fs.Float64Var(&opts.MinIdentity, "min-identity",
		floatSetting("validate.min_identity", defaults.MinIdentity),
		"Minimum alignment identity for a local-alignment match")
	fs.Float64Var(&opts.MinCoverage, "min-coverage",
		floatSetting("validate.min_coverage", defaults.MinCoverage),
		"Minimum WT coverage for a local-alignment match")
	fs.BoolVar(&opts.AllowSlowAlign, "allow-slow-align", false,
		"Run the alignment tier even on sequences beyond the size guard")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Check that a plasmid sequence encodes the wild-type protein.

Searches all six reading frames of the circular plasmid, including genes
that span the origin, and writes a JSON report describing the match.
Exits 0 when the plasmid is valid and 1 when it is not.

Usage:
  evotrace validate [options] <plasmid-file>

Arguments:
  <plasmid-file>  Plasmid DNA FASTA file (use '-' for stdin)

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  evotrace validate --wt wt_protein.fasta plasmid.fasta
  evotrace validate --uniprot P00648 plasmid.fasta
  evotrace validate --wt wt.fasta --fuzzy-threshold 0.9 -o report.json plasmid.fasta
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: plasmid file argument required\n\n")
		fs.Usage()
		return ExitUsage
	}

	wtProtein, err := loadWTProtein(wtPath, accession)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	plasmid, err := loadPlasmid(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	start := time.Now()
	match, err := validate.Validate(plasmid, wtProtein, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	report := output.NewValidationReport(match, len(plasmid), len(wtProtein), opts, time.Since(start))

	out, closeOut, err := openOutput(outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		return ExitError
	}
	defer closeOut()

	if err := report.WriteJSON(out); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		return ExitError
	}

	if !match.Valid {
		fmt.Fprintf(os.Stderr, "Plasmid is not valid: %s\n", match.Reason)
		return ExitError
	}
	return ExitSuccess
}
