package seq

import (
	"fmt"
	"strings"
)

// Record is a single FASTA record.
type Record struct {
	Header string
	Seq    string
}

// ParseFASTA parses FASTA text into records. Raw sequence text with no
// header is accepted and treated as a single record, since users paste bare
// sequences as often as proper FASTA.
func ParseFASTA(text string) ([]Record, error) {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("FASTA input is empty")
	}

	hasHeader := false
	for _, ln := range lines {
		if strings.HasPrefix(ln, ">") {
			hasHeader = true
			break
		}
	}
	if !hasHeader {
		return []Record{{Header: "raw_sequence", Seq: strings.Join(lines, "")}}, nil
	}

	var records []Record
	var header string
	var parts []string
	started := false

	for _, ln := range lines {
		if strings.HasPrefix(ln, ">") {
			if started {
				records = append(records, Record{Header: header, Seq: strings.Join(parts, "")})
			}
			header = strings.TrimSpace(ln[1:])
			if header == "" {
				header = "unnamed_record"
			}
			parts = nil
			started = true
		} else {
			if !started {
				return nil, fmt.Errorf("FASTA sequence line encountered before any header ('>')")
			}
			parts = append(parts, ln)
		}
	}
	if started {
		records = append(records, Record{Header: header, Seq: strings.Join(parts, "")})
	}

	return records, nil
}

// ParseDNA parses a DNA FASTA into a single cleaned uppercase sequence.
//
// A plasmid upload should represent one construct, so multi-record input is
// rejected with a clear message instead of quietly picking one record.
// Set allowMultiple to true for "first record wins" behavior.
func ParseDNA(text string, allowMultiple bool) (string, error) {
	records, err := ParseFASTA(text)
	if err != nil {
		return "", err
	}
	if len(records) > 1 && !allowMultiple {
		return "", fmt.Errorf("DNA FASTA contains %d records (expected 1)", len(records))
	}

	s := Clean(records[0].Seq)
	if err := ValidateDNA(s); err != nil {
		return "", err
	}
	return s, nil
}

// ParseProtein parses a protein FASTA into a single cleaned uppercase sequence.
func ParseProtein(text string, allowMultiple bool) (string, error) {
	records, err := ParseFASTA(text)
	if err != nil {
		return "", err
	}
	if len(records) > 1 && !allowMultiple {
		return "", fmt.Errorf("protein FASTA contains %d records (expected 1)", len(records))
	}

	s := Clean(records[0].Seq)
	if err := ValidateProtein(s); err != nil {
		return "", err
	}
	return s, nil
}
