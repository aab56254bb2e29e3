// Package pricing derives per-product unit prices from historical deals.
package pricing

import (
	"math"
	"strings"

	"github.com/sells-group/deal-desk/internal/apperr"
	"github.com/sells-group/deal-desk/internal/history"
	"github.com/sells-group/deal-desk/internal/model"
	"github.com/sells-group/deal-desk/internal/source"
)

// Catalog maps product names to their average historical price.
type Catalog struct {
	prices map[string]float64
	// order is first-seen order, used for containment lookups.
	order []string
}

// Build averages each row's profit, split evenly across the row's
// products, over every occurrence of a product. Rows without products are
// skipped and blank profits count as zero.
func Build(t *source.Table) (*Catalog, error) {
	profitCol := -1
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), model.ColProfit) {
			profitCol = i
			break
		}
	}
	if profitCol < 0 {
		return nil, apperr.Dataf("pricing: profit column not found (columns: %s)", strings.Join(t.Header, ", "))
	}
	productCol := history.ProductColumn(t)
	if productCol < 0 {
		return nil, apperr.Dataf("pricing: %s column not found (columns: %s)", model.ColProducts, strings.Join(t.Header, ", "))
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	var order []string

	for _, row := range t.Rows {
		if productCol >= len(row) {
			continue
		}
		products := model.SplitProducts(row[productCol])
		if len(products) == 0 {
			continue
		}
		var profit float64
		if profitCol < len(row) {
			profit, _ = model.ParseAmount(row[profitCol])
		}
		share := profit / float64(len(products))
		for _, p := range products {
			if _, seen := counts[p]; !seen {
				order = append(order, p)
			}
			sums[p] += share
			counts[p]++
		}
	}

	prices := make(map[string]float64, len(sums))
	for p, sum := range sums {
		prices[p] = round2(sum / float64(counts[p]))
	}
	return &Catalog{prices: prices, order: order}, nil
}

// Len returns the number of priced products.
func (c *Catalog) Len() int { return len(c.order) }

// Price looks up a product by exact name, then by the first catalog name
// that contains it or is contained in it, ignoring case. Unknown products
// price at zero.
func (c *Catalog) Price(product string) float64 {
	product = strings.TrimSpace(product)
	if p, ok := c.prices[product]; ok {
		return p
	}
	if product == "" {
		return 0
	}
	want := strings.ToLower(product)
	for _, k := range c.order {
		lk := strings.ToLower(k)
		if strings.Contains(lk, want) || strings.Contains(want, lk) {
			return c.prices[k]
		}
	}
	return 0
}

// Quote prices each requested product and returns the line items with their
// total.
func (c *Catalog) Quote(products []string) ([]model.PricedItem, float64) {
	items := make([]model.PricedItem, 0, len(products))
	var total float64
	for _, p := range products {
		p = strings.TrimSpace(p)
		price := c.Price(p)
		items = append(items, model.PricedItem{Product: p, UnitPrice: price})
		total += price
	}
	return items, round2(total)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
