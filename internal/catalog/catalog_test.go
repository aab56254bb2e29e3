package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/deal-desk/internal/apperr"
	"github.com/sells-group/deal-desk/internal/model"
)

const sampleCatalog = `Lab product catalog

1. PureLink Endotoxin-Free Plasmid Kit
Description: Plasmid purification with low endotoxin levels.
Use Case: Transfection-grade plasmid prep for cell culture.
Key Features: High yield, spin column format
Keywords: Plasmid, Endotoxin, Transfection, Miniprep

2. NanoDrop One Spectrophotometer
Description: Microvolume UV-Vis spectrophotometer.
Use Case: Nucleic acid and protein quantification.
Key Features: 1 uL sample, fast readout
Keywords: nanodrop, quantification, uv-vis

3. Platinum PCR Master Mix
Description: Hot-start master mix for PCR amplification.
Use Case: Routine PCR and cloning.
Key Features: Room temperature setup
Keywords: pcr, master mix, cloning
`

func sampleEntries(t *testing.T) []model.CatalogEntry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lab_products.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))
	entries, err := Load(context.Background(), path)
	require.NoError(t, err)
	return entries
}

func TestParseText(t *testing.T) {
	entries := sampleEntries(t)
	require.Len(t, entries, 3)

	assert.Equal(t, "PureLink Endotoxin-Free Plasmid Kit", entries[0].ProductName)
	assert.Equal(t, "Plasmid purification with low endotoxin levels.", entries[0].Description)
	assert.Equal(t, "Transfection-grade plasmid prep for cell culture.", entries[0].UseCase)
	assert.Equal(t, []string{"plasmid", "endotoxin", "transfection", "miniprep"}, entries[0].Keywords)
	assert.Equal(t, "NanoDrop One Spectrophotometer", entries[1].ProductName)
}

func TestParseText_FirstLineEntry(t *testing.T) {
	entries := ParseText("1. Solo Product\nDescription: only one\n")
	require.Len(t, entries, 1)
	assert.Equal(t, "Solo Product", entries[0].ProductName)
	assert.Equal(t, "only one", entries[0].Description)
}

func TestParseText_NormalizesKeywords(t *testing.T) {
	entries := ParseText("1. Kit A\nKeywords: Plasmid,  Endotoxin , ,\n")
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"plasmid", "endotoxin"}, entries[0].Keywords)
}

func TestNewIndex_NormalizesRawEntries(t *testing.T) {
	raw := []model.CatalogEntry{{
		ProductName: " PureLink Plasmid Kit ",
		Description: "Plasmid purification.",
		Keywords:    []string{"Plasmid", " endotoxin"},
	}}
	idx := NewIndex(raw, Options{TFIDFEnabled: true})

	matches := idx.Search("endotoxin-free plasmid prep", 1)
	require.Len(t, matches, 1)
	assert.Equal(t, "PureLink Plasmid Kit", matches[0].ProductName)
	assert.Contains(t, matches[0].MatchReason, "Matched keywords: endotoxin, plasmid")
	// The caller's slice is left untouched.
	assert.Equal(t, " endotoxin", raw[0].Keywords[1])
}

func TestLoadJSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[
		{"product_id":"P1","product_name":"Kit A","keywords":["Alpha"," beta "]},
		{"product_name":"  "}
	]`), 0o644))
	yamlPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("- product_name: Kit B\n  keywords: [Gamma]\n"), 0o644))

	entries, err := Load(context.Background(), jsonPath)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "P1", entries[0].ProductID)
	assert.Equal(t, []string{"alpha", "beta"}, entries[0].Keywords)

	entries, err = Load(context.Background(), yamlPath)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"gamma"}, entries[0].Keywords)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindData))
}

func TestSearchTFIDF(t *testing.T) {
	idx := NewIndex(sampleEntries(t), Options{TFIDFEnabled: true, MaxFeatures: 20000})

	matches := idx.Search("Need endotoxin free plasmid kits for transfection", 5)
	require.Len(t, matches, 3)
	assert.Equal(t, "PureLink Endotoxin-Free Plasmid Kit", matches[0].ProductName)
	assert.Greater(t, matches[0].Score, 0.0)
	assert.Contains(t, matches[0].MatchReason, "Matched keywords: endotoxin, plasmid, transfection")
	assert.Contains(t, matches[0].MatchReason, "Matched name terms: endotoxin, free, plasmid")

	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}
	for _, m := range matches {
		assert.InDelta(t, clamp01(m.Score), m.Confidence, 1e-12)
	}
}

func TestSearchTopKKeepsOrder(t *testing.T) {
	idx := NewIndex(sampleEntries(t), Options{TFIDFEnabled: true})

	all := idx.Search("pcr master mix for cloning and plasmid", 0)
	top := idx.Search("pcr master mix for cloning and plasmid", 2)
	require.Len(t, top, 2)
	assert.Equal(t, all[:2], top)
}

func TestSearchNoOverlapReason(t *testing.T) {
	idx := NewIndex(sampleEntries(t), Options{TFIDFEnabled: true})

	matches := idx.Search("zzz qqq", 3)
	require.Len(t, matches, 3)
	for _, m := range matches {
		assert.Equal(t, 0.0, m.Score)
		assert.Equal(t, []string{semanticReason}, m.MatchReason)
	}
	// ties keep catalog order
	assert.Equal(t, "PureLink Endotoxin-Free Plasmid Kit", matches[0].ProductName)
	assert.Equal(t, "Platinum PCR Master Mix", matches[2].ProductName)
}

func TestSearchEmptyQuery(t *testing.T) {
	idx := NewIndex(sampleEntries(t), Options{TFIDFEnabled: true})
	assert.Empty(t, idx.Search("   ", 5))
}

func TestSearchKeywordFallback(t *testing.T) {
	idx := NewIndex(sampleEntries(t), Options{TFIDFEnabled: false})

	matches := idx.Search("Quote for NanoDrop One Spectrophotometer for quantification", 5)
	require.Len(t, matches, 1)
	assert.Equal(t, 5.0, matches[0].Score) // name +3, nanodrop +1, quantification +1
	assert.InDelta(t, 5.0/6.0, matches[0].Confidence, 1e-9)
	assert.Equal(t, []string{
		"Product name mentioned: 'NanoDrop One Spectrophotometer'",
		"Keyword match: 'nanodrop'",
		"Keyword match: 'quantification'",
	}, matches[0].MatchReason)
}

func TestSearchKeywordFallbackTies(t *testing.T) {
	idx := NewIndex(sampleEntries(t), Options{})

	matches := idx.Search("plasmid and pcr", 5)
	require.Len(t, matches, 2)
	assert.Equal(t, "PureLink Endotoxin-Free Plasmid Kit", matches[0].ProductName)
	assert.Equal(t, "Platinum PCR Master Mix", matches[1].ProductName)
}

func TestAnalyzeBigramsSkipStopWords(t *testing.T) {
	assert.Equal(t, []string{"plasmid", "kit", "plasmid kit"}, analyze("The plasmid, a kit"))
}
