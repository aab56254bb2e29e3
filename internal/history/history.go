// Package history loads closed deals and answers company and free-text
// lookups against them.
package history

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sells-group/deal-desk/internal/apperr"
	"github.com/sells-group/deal-desk/internal/model"
	"github.com/sells-group/deal-desk/internal/source"
)

// LoadTable reads a deal table from a .csv or .xlsx file. Header names are
// trimmed and lowercased.
func LoadTable(ctx context.Context, path string) (*source.Table, error) {
	var (
		t   *source.Table
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		if _, statErr := os.Stat(path); statErr != nil {
			return nil, apperr.Data(statErr, "history: open "+path)
		}
		t, err = source.ReadXLSXTable(path, source.XLSXOptions{})
	default:
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, apperr.Data(openErr, "history: open "+path)
		}
		defer f.Close() //nolint:errcheck
		t, err = source.ReadCSVTable(ctx, f)
	}
	if err != nil {
		return nil, apperr.Data(err, "history: read "+path)
	}

	for i, h := range t.Header {
		t.Header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return t, nil
}

// ProductColumn returns the index of the purchased-products column, or -1.
func ProductColumn(t *source.Table) int {
	for _, name := range model.ProductColumns {
		if i := t.Column(name); i >= 0 {
			return i
		}
	}
	return -1
}

// Deals converts table rows into deals, keeping every column verbatim.
func Deals(t *source.Table) []model.HistoricalDeal {
	deals := make([]model.HistoricalDeal, 0, len(t.Rows))
	for i, row := range t.Rows {
		deals = append(deals, model.NewHistoricalDeal(i, t.Header, row))
	}
	return deals
}
