package seq

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "acgt", "ACGT"},
		{"whitespace stripped", " AC GT\n", "ACGT"},
		{"windows line endings", "ACGT\r\nACGT\r\n", "ACGTACGT"},
		{"already clean", "ACGT", "ACGT"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.in)
			if got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestReverseComplement(t *testing.T) {
	tests := []struct {
		name string
		seq  string
		want string
	}{
		{"simple", "ATGC", "GCAT"},
		{"single base", "A", "T"},
		{"palindrome", "ATAT", "ATAT"},
		{"poly-A", "AAAA", "TTTT"},
		{"ambiguity codes", "ARN", "NYT"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReverseComplement(tt.seq)
			if got != tt.want {
				t.Errorf("ReverseComplement(%q) = %q, want %q", tt.seq, got, tt.want)
			}
		})
	}
}

func TestReverseComplementRoundTrip(t *testing.T) {
	s := "ATGGGTCGATTACCA"
	if got := ReverseComplement(ReverseComplement(s)); got != s {
		t.Errorf("double reverse complement = %q, want %q", got, s)
	}
}

func TestValidateDNA(t *testing.T) {
	tests := []struct {
		name    string
		seq     string
		wantErr bool
	}{
		{"plain ACGT", "ACGT", false},
		{"IUPAC ambiguity codes", "ACGTNRYSWKM", false},
		{"invalid character", "ACGT5", true},
		{"protein letters rejected", "MEEPQSD", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDNA(tt.seq)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDNA(%q) error = %v, wantErr %v", tt.seq, err, tt.wantErr)
			}
		})
	}
}

func TestValidateProtein(t *testing.T) {
	tests := []struct {
		name    string
		seq     string
		wantErr bool
	}{
		{"canonical residues", "MEEPQSDPSV", false},
		{"with stop and X", "MEEP*X", false},
		{"digits rejected", "MEEP1", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProtein(tt.seq)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProtein(%q) error = %v, wantErr %v", tt.seq, err, tt.wantErr)
			}
		})
	}
}

func TestExtractCircular(t *testing.T) {
	s := "ABCDEFGHIJ"

	tests := []struct {
		name   string
		start  int
		length int
		want   string
	}{
		{"no wrap", 2, 3, "CDE"},
		{"exact end", 7, 3, "HIJ"},
		{"wraps origin", 8, 5, "IJABC"},
		{"full length from middle", 5, 10, "FGHIJABCDE"},
		{"start out of range", 10, 3, ""},
		{"zero length", 0, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCircular(s, tt.start, tt.length)
			if got != tt.want {
				t.Errorf("ExtractCircular(%q, %d, %d) = %q, want %q", s, tt.start, tt.length, got, tt.want)
			}
		})
	}
}

func TestOnlyACGT(t *testing.T) {
	if !OnlyACGT("ACGTACGT") {
		t.Error("OnlyACGT(ACGTACGT) = false, want true")
	}
	if OnlyACGT("ACGTN") {
		t.Error("OnlyACGT(ACGTN) = true, want false")
	}
}
