package model

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Well-known deal history columns.
const (
	ColCompany  = "company_name"
	ColProducts = "product_names_purchased"
	ColProfit   = "profit"
)

// ProductColumns are accepted spellings of the purchased-products column,
// in lookup order.
var ProductColumns = []string{ColProducts, "products_purchased", "products"}

// HistoricalDeal is one closed deal row. Columns and Values keep the source
// row verbatim; the typed fields are parsed from well-known columns.
type HistoricalDeal struct {
	Row         int
	CompanyName string
	Products    []string
	Profit      float64
	HasProfit   bool
	Columns     []string
	Values      []string
}

// NewHistoricalDeal builds a deal from one table row and parses its typed
// fields. Column names match case-insensitively.
func NewHistoricalDeal(row int, columns, values []string) HistoricalDeal {
	d := HistoricalDeal{Row: row, Columns: columns, Values: values}
	d.CompanyName = strings.TrimSpace(d.Get(ColCompany))
	for _, c := range ProductColumns {
		if d.column(c) >= 0 {
			d.Products = SplitProducts(d.Get(c))
			break
		}
	}
	d.Profit, d.HasProfit = ParseAmount(d.Get(ColProfit))
	return d
}

func (d HistoricalDeal) column(name string) int {
	for i, c := range d.Columns {
		if strings.EqualFold(strings.TrimSpace(c), name) {
			return i
		}
	}
	return -1
}

// Get returns the value of the named column, or "" if the row has no such column.
func (d HistoricalDeal) Get(column string) string {
	if i := d.column(column); i >= 0 && i < len(d.Values) {
		return d.Values[i]
	}
	return ""
}

// Blob returns every field value joined by spaces, lowercased.
func (d HistoricalDeal) Blob() string {
	return strings.ToLower(strings.Join(d.Values, " "))
}

// MarshalJSON renders the deal as its original column/value mapping.
func (d HistoricalDeal) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, len(d.Columns))
	for i, c := range d.Columns {
		if i < len(d.Values) {
			m[c] = d.Values[i]
		} else {
			m[c] = ""
		}
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads the column/value mapping written by MarshalJSON.
// Columns come back sorted by name; the row index is not part of the
// encoding and stays zero.
func (d *HistoricalDeal) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	columns := make([]string, 0, len(m))
	for c := range m {
		columns = append(columns, c)
	}
	sort.Strings(columns)
	values := make([]string, len(columns))
	for i, c := range columns {
		values[i] = m[c]
	}
	*d = NewHistoricalDeal(0, columns, values)
	return nil
}

// SplitProducts splits a comma-separated product list, dropping blanks.
func SplitProducts(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseAmount parses a numeric cell, tolerating currency symbols and
// thousands separators. ok is false for blank or non-numeric cells.
func ParseAmount(s string) (float64, bool) {
	s = strings.NewReplacer(",", "", "$", "", "₹", "", " ", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
