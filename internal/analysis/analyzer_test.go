package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evotrace/evotrace/internal/mutation"
	"github.com/evotrace/evotrace/internal/seq"
	"github.com/evotrace/evotrace/internal/validate"
)

// Unambiguous codon choices for building predictable coding sequences.
var codonFor = map[byte]string{
	'A': "GCT", 'C': "TGT", 'D': "GAT", 'E': "GAA", 'F': "TTT",
	'G': "GGT", 'H': "CAT", 'I': "ATT", 'K': "AAA", 'L': "CTG",
	'M': "ATG", 'N': "AAT", 'P': "CCT", 'Q': "CAA", 'R': "CGT",
	'S': "TCT", 'T': "ACT", 'V': "GTG", 'W': "TGG", 'Y': "TAT",
}

const testWT = "MKVLAFGHIKDETWYQRSPCMKVLAFGHIKDETWYQRSPC"

func proteinToDNA(t *testing.T, protein string) string {
	t.Helper()
	var b strings.Builder
	for i := 0; i < len(protein); i++ {
		c, ok := codonFor[protein[i]]
		require.True(t, ok, "no codon for %c", protein[i])
		b.WriteString(c)
	}
	return b.String()
}

// testGene returns the WT coding sequence and a reference plasmid with the
// gene at offset 4.
func testGene(t *testing.T) (gene, ref string) {
	t.Helper()
	gene = proteinToDNA(t, testWT)
	return gene, "GGGG" + gene + "CC"
}

func TestNewAnalyzerLocksCoordinates(t *testing.T) {
	gene, ref := testGene(t)

	a, err := NewAnalyzer(testWT, ref, validate.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, gene, a.WTGeneDNA())
	assert.Equal(t, 4, a.Match().StartNT)
	assert.True(t, a.Match().Valid)
}

func TestNewAnalyzerInvalidReference(t *testing.T) {
	_, err := NewAnalyzer(testWT, strings.Repeat("C", 200), validate.DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not encode")
}

func TestAnalyzeVariantIdentical(t *testing.T) {
	_, ref := testGene(t)
	a, err := NewAnalyzer(testWT, ref, validate.DefaultOptions())
	require.NoError(t, err)

	r, err := a.AnalyzeVariant(Variant{ID: "v1", DNA: ref})
	require.NoError(t, err)

	assert.Equal(t, testWT, r.Protein)
	assert.Empty(t, r.Mutations)
}

func TestAnalyzeVariantPointMutation(t *testing.T) {
	gene, ref := testGene(t)
	a, err := NewAnalyzer(testWT, ref, validate.DefaultOptions())
	require.NoError(t, err)

	// Codon 5: GCT (A) -> GTT (V), gene offset 12, plasmid offset 16.
	varGene := gene[:12] + "GTT" + gene[15:]
	variant := "GGGG" + varGene + "CC"

	r, err := a.AnalyzeVariant(Variant{ID: "v1", DNA: variant})
	require.NoError(t, err)

	require.Len(t, r.Mutations, 1)
	m := r.Mutations[0]
	assert.Equal(t, 5, m.Position)
	assert.Equal(t, "A", m.WildType)
	assert.Equal(t, "V", m.Mutant)
	assert.Equal(t, "GCT", m.WTCodon)
	assert.Equal(t, "GTT", m.MutCodon)
	assert.Equal(t, mutation.TypeNonSynonymous, m.Type)
}

func TestAnalyzeVariantSilentMutation(t *testing.T) {
	gene, ref := testGene(t)
	a, err := NewAnalyzer(testWT, ref, validate.DefaultOptions())
	require.NoError(t, err)

	// Codon 5: GCT -> GCA, both alanine.
	variant := "GGGG" + gene[:12] + "GCA" + gene[15:] + "CC"

	r, err := a.AnalyzeVariant(Variant{ID: "v1", DNA: variant})
	require.NoError(t, err)

	assert.Equal(t, testWT, r.Protein)
	require.Len(t, r.Mutations, 1)
	assert.Equal(t, mutation.TypeSynonymous, r.Mutations[0].Type)
}

// The gene window is extracted with circular wrap, so a reference whose
// gene spans the origin still analyzes correctly.
func TestAnalyzeVariantWrapAroundGene(t *testing.T) {
	gene := proteinToDNA(t, testWT) // 120 nt
	ref := gene[60:] + strings.Repeat("A", 60) + gene[:60]

	a, err := NewAnalyzer(testWT, ref, validate.DefaultOptions())
	require.NoError(t, err)
	require.True(t, a.Match().WrapsOrigin)

	// Codon 5 sits at gene offset 12, i.e. plasmid offset (120+12)%180 = 132.
	variant := ref[:132] + "GTT" + ref[135:]

	r, err := a.AnalyzeVariant(Variant{ID: "v1", DNA: variant})
	require.NoError(t, err)

	require.Len(t, r.Mutations, 1)
	assert.Equal(t, 5, r.Mutations[0].Position)
	assert.Equal(t, "V", r.Mutations[0].Mutant)
}

func TestAnalyzeVariantReverseStrandGene(t *testing.T) {
	gene := proteinToDNA(t, testWT)
	ref := "CCCC" + seq.ReverseComplement(gene) + "CC"

	a, err := NewAnalyzer(testWT, ref, validate.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, "-", a.Match().Strand)

	varGene := gene[:12] + "GTT" + gene[15:]
	variant := "CCCC" + seq.ReverseComplement(varGene) + "CC"

	r, err := a.AnalyzeVariant(Variant{ID: "v1", DNA: variant})
	require.NoError(t, err)

	require.Len(t, r.Mutations, 1)
	assert.Equal(t, "A", r.Mutations[0].WildType)
	assert.Equal(t, "V", r.Mutations[0].Mutant)
}

func TestAnalyzeVariantPrematureStop(t *testing.T) {
	gene, ref := testGene(t)
	a, err := NewAnalyzer(testWT, ref, validate.DefaultOptions())
	require.NoError(t, err)

	// Codon 3: GTG (V) -> TAA, truncating translation after 2 residues.
	variant := "GGGG" + gene[:6] + "TAA" + gene[9:] + "CC"

	r, err := a.AnalyzeVariant(Variant{ID: "v1", DNA: variant})
	require.NoError(t, err)

	assert.Equal(t, "MK", r.Protein)
	require.NotEmpty(t, r.Mutations)
	assert.Equal(t, 3, r.Mutations[0].Position)
	for _, m := range r.Mutations {
		assert.Equal(t, mutation.Gap, m.Mutant)
	}
}

func TestAnalyzeVariantErrors(t *testing.T) {
	_, ref := testGene(t)
	a, err := NewAnalyzer(testWT, ref, validate.DefaultOptions())
	require.NoError(t, err)

	_, err = a.AnalyzeVariant(Variant{ID: "v1", DNA: ""})
	assert.Error(t, err)

	_, err = a.AnalyzeVariant(Variant{ID: "v2", DNA: "ATGATG"})
	assert.Error(t, err, "plasmid shorter than the gene window")

	_, err = a.AnalyzeVariant(Variant{ID: "v3", DNA: "ATG!!!"})
	assert.Error(t, err)
}

func TestAnalyzeVariantTruncatedPlasmid(t *testing.T) {
	gene, ref := testGene(t)
	a, err := NewAnalyzer(testWT, ref, validate.DefaultOptions())
	require.NoError(t, err)

	// Longer than the gene start but shorter than the full window, so a
	// circular extraction wraps and comes back truncated. That must be an
	// error, not a cascade of trailing truncation calls.
	_, err = a.AnalyzeVariant(Variant{ID: "v1", DNA: "GGGG" + gene[:60]})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gene window")
}

func TestAnalyzeBatch(t *testing.T) {
	gene, ref := testGene(t)
	a, err := NewAnalyzer(testWT, ref, validate.DefaultOptions())
	require.NoError(t, err)

	variants := []Variant{
		{ID: "v1", DNA: ref, Generation: 1},
		{ID: "v2", DNA: "GGGG" + gene[:12] + "GTT" + gene[15:] + "CC", Generation: 1},
		{ID: "v3", DNA: "", Generation: 2},
		{ID: "v4", DNA: "GGGG" + gene[:12] + "GCA" + gene[15:] + "CC", Generation: 2},
	}

	results := a.AnalyzeBatch(variants, 4)
	require.Len(t, results, 4)

	// Input order preserved.
	for i, r := range results {
		assert.Equal(t, variants[i].ID, r.ID)
	}

	assert.Empty(t, results[0].Mutations)
	assert.Len(t, results[1].Mutations, 1)
	assert.Error(t, results[2].Err)
	assert.Len(t, results[3].Mutations, 1)

	s := Summarize(results)
	assert.Equal(t, 4, s.Variants)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Synonymous)
	assert.Equal(t, 1, s.NonSynonymous)
	assert.Equal(t, 2, s.ByGeneration[1])
	assert.Equal(t, 1, s.ByGeneration[2])
}
