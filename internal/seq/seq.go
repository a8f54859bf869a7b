package seq

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrEmptySequence is returned when a sequence is empty after cleaning.
var ErrEmptySequence = errors.New("sequence is empty")

// IUPAC DNA alphabet including ambiguity codes. Real sequencing and assembly
// output commonly contains N/R/Y/etc., so these are accepted rather than
// rejected.
const iupacDNA = "ACGTRYSWKMBDHVN"

// Protein alphabet: the 20 canonical amino acids plus X (unknown), * (stop)
// and the rarer B/Z/J/U/O letters that appear in some reference databases.
const proteinAlphabet = "ACDEFGHIKLMNPQRSTVWYXBZJUO*"

// Clean uppercases a sequence and strips whitespace and line breaks.
func Clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		}
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// ValidateDNA checks that a cleaned sequence contains only IUPAC DNA letters.
func ValidateDNA(s string) error {
	if s == "" {
		return ErrEmptySequence
	}
	if bad := invalidChars(s, iupacDNA); bad != "" {
		return fmt.Errorf("DNA sequence contains invalid characters: %s", bad)
	}
	return nil
}

// ValidateProtein checks that a cleaned sequence contains only protein letters.
func ValidateProtein(s string) error {
	if s == "" {
		return ErrEmptySequence
	}
	if bad := invalidChars(s, proteinAlphabet); bad != "" {
		return fmt.Errorf("protein sequence contains invalid characters: %s", bad)
	}
	return nil
}

// invalidChars returns a sorted sample of characters in s that are outside
// the given alphabet, empty if none.
func invalidChars(s, alphabet string) string {
	seen := map[byte]bool{}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(alphabet, s[i]) < 0 {
			seen[s[i]] = true
		}
	}
	if len(seen) == 0 {
		return ""
	}
	bad := make([]byte, 0, len(seen))
	for c := range seen {
		bad = append(bad, c)
	}
	sort.Slice(bad, func(i, j int) bool { return bad[i] < bad[j] })
	if len(bad) > 20 {
		bad = bad[:20]
	}
	return string(bad)
}

// Complement returns the complement of a single base, IUPAC-aware.
func Complement(base byte) byte {
	switch base {
	case 'A':
		return 'T'
	case 'T':
		return 'A'
	case 'G':
		return 'C'
	case 'C':
		return 'G'
	case 'R':
		return 'Y'
	case 'Y':
		return 'R'
	case 'S':
		return 'S'
	case 'W':
		return 'W'
	case 'K':
		return 'M'
	case 'M':
		return 'K'
	case 'B':
		return 'V'
	case 'V':
		return 'B'
	case 'D':
		return 'H'
	case 'H':
		return 'D'
	default:
		return 'N'
	}
}

// ReverseComplement returns the reverse complement of a DNA sequence.
// The input is expected to be cleaned (uppercase).
func ReverseComplement(s string) string {
	n := len(s)
	result := make([]byte, n)
	for i := 0; i < n; i++ {
		result[i] = Complement(s[n-1-i])
	}
	return string(result)
}

// OnlyACGT reports whether the sequence contains no ambiguity codes.
func OnlyACGT(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'T':
		default:
			return false
		}
	}
	return true
}

// ExtractCircular extracts length bases starting at start from a circular
// sequence, wrapping past the origin when needed.
func ExtractCircular(s string, start, length int) string {
	n := len(s)
	if n == 0 || length <= 0 || start < 0 || start >= n {
		return ""
	}
	if start+length <= n {
		return s[start : start+length]
	}
	head := s[start:]
	rest := length - len(head)
	if rest > n {
		rest = n
	}
	return head + s[:rest]
}
