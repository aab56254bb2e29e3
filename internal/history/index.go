package history

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sells-group/deal-desk/internal/model"
)

var termRe = regexp.MustCompile(`[a-z0-9]+`)

// Index holds the deal snapshot loaded at startup. It is read-only and safe
// for concurrent use.
type Index struct {
	deals []model.HistoricalDeal
	blobs []string
}

// NewIndex indexes deals in row order.
func NewIndex(deals []model.HistoricalDeal) *Index {
	blobs := make([]string, len(deals))
	for i, d := range deals {
		blobs[i] = d.Blob()
	}
	return &Index{deals: deals, blobs: blobs}
}

// Len returns the number of deals.
func (x *Index) Len() int { return len(x.deals) }

// ByCompany returns every deal whose company matches name case-insensitively,
// in row order.
func (x *Index) ByCompany(name string) []model.HistoricalDeal {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	var out []model.HistoricalDeal
	for _, d := range x.deals {
		if strings.EqualFold(d.CompanyName, name) {
			out = append(out, d)
		}
	}
	return out
}

// Search ranks deals by how many query terms (longer than two characters)
// occur anywhere in the row. Rows with no hits are excluded; ties keep row
// order.
func (x *Index) Search(query string, topK int) []model.HistoricalDeal {
	var terms []string
	for _, t := range termRe.FindAllString(strings.ToLower(query), -1) {
		if len(t) > 2 {
			terms = append(terms, t)
		}
	}
	if len(terms) == 0 {
		return nil
	}

	type hit struct {
		deal  model.HistoricalDeal
		count int
	}
	var hits []hit
	for i, blob := range x.blobs {
		n := 0
		for _, t := range terms {
			if strings.Contains(blob, t) {
				n++
			}
		}
		if n > 0 {
			hits = append(hits, hit{deal: x.deals[i], count: n})
		}
	}

	sort.SliceStable(hits, func(a, b int) bool { return hits[a].count > hits[b].count })
	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}

	out := make([]model.HistoricalDeal, len(hits))
	for i, h := range hits {
		out[i] = h.deal
	}
	return out
}
