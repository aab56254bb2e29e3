package catalog

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var tokenRe = regexp.MustCompile(`\w\w+`)

// vectorizer is a unigram+bigram TF-IDF model with smoothed IDF and
// L2-normalised rows.
type vectorizer struct {
	vocab map[string]int
	idf   []float64
}

type sparseVec map[int]float64

// analyze lowercases text, drops English stop words, and emits unigrams
// followed by bigrams of the surviving tokens.
func analyze(text string) []string {
	raw := tokenRe.FindAllString(strings.ToLower(text), -1)
	toks := raw[:0]
	for _, t := range raw {
		if _, stop := stopWords[t]; !stop {
			toks = append(toks, t)
		}
	}
	terms := make([]string, 0, 2*len(toks))
	terms = append(terms, toks...)
	for i := 0; i+1 < len(toks); i++ {
		terms = append(terms, toks[i]+" "+toks[i+1])
	}
	return terms
}

// fitVectorizer builds the vocabulary from docs, keeping at most maxFeatures
// terms ranked by corpus frequency (ties broken alphabetically). It returns
// the vectorizer and the document matrix.
func fitVectorizer(docs []string, maxFeatures int) (*vectorizer, []sparseVec) {
	analyzed := make([][]string, len(docs))
	freq := map[string]int{}
	df := map[string]int{}
	for i, d := range docs {
		analyzed[i] = analyze(d)
		seen := map[string]bool{}
		for _, t := range analyzed[i] {
			freq[t]++
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	terms := make([]string, 0, len(freq))
	for t := range freq {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(a, b int) bool {
		if freq[terms[a]] != freq[terms[b]] {
			return freq[terms[a]] > freq[terms[b]]
		}
		return terms[a] < terms[b]
	})
	if maxFeatures > 0 && len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	v := &vectorizer{vocab: make(map[string]int, len(terms)), idf: make([]float64, len(terms))}
	n := float64(len(docs))
	for i, t := range terms {
		v.vocab[t] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	matrix := make([]sparseVec, len(docs))
	for i, toks := range analyzed {
		matrix[i] = v.weigh(toks)
	}
	return v, matrix
}

func (v *vectorizer) transform(text string) sparseVec {
	return v.weigh(analyze(text))
}

func (v *vectorizer) weigh(terms []string) sparseVec {
	vec := sparseVec{}
	for _, t := range terms {
		if idx, ok := v.vocab[t]; ok {
			vec[idx]++
		}
	}
	var norm float64
	for idx, tf := range vec {
		w := tf * v.idf[idx]
		vec[idx] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec
}

// cosine is the dot product of two L2-normalised vectors.
func cosine(a, b sparseVec) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var dot float64
	for idx, w := range a {
		dot += w * b[idx]
	}
	return dot
}
