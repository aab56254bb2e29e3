package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/deal-desk/internal/model"
)

var alnumRe = regexp.MustCompile(`[a-z0-9]+`)

const (
	semanticReason = "High semantic similarity to the request description (TF-IDF)."
	useCaseReason  = "Use case aligns with request context."
)

// Options tunes index construction.
type Options struct {
	TFIDFEnabled bool
	MaxFeatures  int
}

// Index answers similarity queries over a fixed catalog. It is safe for
// concurrent use once built.
type Index struct {
	entries []model.CatalogEntry
	vec     *vectorizer
	matrix  []sparseVec
}

// NewIndex builds the TF-IDF space over entries. When TF-IDF is disabled or
// the catalog yields no vocabulary, Search uses keyword overlap instead.
// Entries are normalized first, as Load does.
func NewIndex(entries []model.CatalogEntry, opts Options) *Index {
	entries = normalize(entries)
	idx := &Index{entries: entries}
	if !opts.TFIDFEnabled || len(entries) == 0 {
		return idx
	}

	docs := make([]string, len(entries))
	for i, e := range entries {
		docs[i] = e.Text()
	}
	vec, matrix := fitVectorizer(docs, opts.MaxFeatures)
	if len(vec.vocab) == 0 {
		zap.L().Warn("catalog: empty tf-idf vocabulary, using keyword matching")
		return idx
	}
	idx.vec, idx.matrix = vec, matrix
	return idx
}

// Len returns the number of catalog entries.
func (x *Index) Len() int { return len(x.entries) }

// Entries returns the catalog entries in load order.
func (x *Index) Entries() []model.CatalogEntry { return x.entries }

// Search ranks catalog entries against query, highest score first. Ties keep
// catalog order. topK <= 0 returns every ranked entry.
func (x *Index) Search(query string, topK int) []model.ProductMatch {
	q := strings.TrimSpace(query)
	if q == "" || len(x.entries) == 0 {
		return nil
	}

	var out []model.ProductMatch
	if x.vec == nil {
		out = x.keywordSearch(q)
	} else {
		out = x.tfidfSearch(q)
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}

func (x *Index) tfidfSearch(q string) []model.ProductMatch {
	qv := x.vec.transform(q)
	qTokens := tokenSet(q)

	out := make([]model.ProductMatch, len(x.entries))
	for i, e := range x.entries {
		score := cosine(qv, x.matrix[i])
		out[i] = model.ProductMatch{
			CatalogEntry: e,
			Score:        score,
			Confidence:   clamp01(score),
			MatchReason:  overlapReasons(qTokens, e),
		}
	}
	return out
}

// overlapReasons explains a TF-IDF match by the query tokens it shares with
// the entry's keywords and name.
func overlapReasons(qTokens map[string]bool, e model.CatalogEntry) []string {
	kw := map[string]bool{}
	for _, k := range e.Keywords {
		kw[k] = true
	}

	var reasons []string
	if shared := intersect(qTokens, kw, 8); len(shared) > 0 {
		reasons = append(reasons, "Matched keywords: "+strings.Join(shared, ", "))
	}
	if shared := intersect(qTokens, tokenSet(e.ProductName), 6); len(shared) > 0 {
		reasons = append(reasons, "Matched name terms: "+strings.Join(shared, ", "))
	}
	if len(reasons) == 0 {
		return []string{semanticReason}
	}
	if e.UseCase != "" {
		reasons = append(reasons, useCaseReason)
	}
	return reasons
}

// keywordSearch scores +3 for a literal product-name mention and +1 per
// keyword found in the query. Entries scoring zero are omitted.
func (x *Index) keywordSearch(q string) []model.ProductMatch {
	ql := strings.ToLower(q)

	var out []model.ProductMatch
	for _, e := range x.entries {
		var score float64
		var reasons []string
		if name := strings.ToLower(e.ProductName); name != "" && strings.Contains(ql, name) {
			score += 3
			reasons = append(reasons, fmt.Sprintf("Product name mentioned: '%s'", e.ProductName))
		}
		for _, k := range e.Keywords {
			if strings.Contains(ql, k) {
				score++
				reasons = append(reasons, fmt.Sprintf("Keyword match: '%s'", k))
			}
		}
		if score == 0 {
			continue
		}
		out = append(out, model.ProductMatch{
			CatalogEntry: e,
			Score:        score,
			Confidence:   min(1, score/6),
			MatchReason:  reasons,
		})
	}
	return out
}

// tokenSet returns the lowercase alphanumeric tokens of s longer than two characters.
func tokenSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, t := range alnumRe.FindAllString(strings.ToLower(s), -1) {
		if len(t) > 2 {
			set[t] = true
		}
	}
	return set
}

func intersect(a, b map[string]bool, limit int) []string {
	var out []string
	for t := range a {
		if b[t] {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func clamp01(f float64) float64 {
	return max(0, min(1, f))
}
