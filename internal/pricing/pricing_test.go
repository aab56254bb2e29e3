package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/deal-desk/internal/apperr"
	"github.com/sells-group/deal-desk/internal/model"
	"github.com/sells-group/deal-desk/internal/source"
)

func table(rows ...[]string) *source.Table {
	return &source.Table{
		Header: []string{"company_name", "product_names_purchased", "profit"},
		Rows:   rows,
	}
}

func TestBuild_SplitsProfitEvenly(t *testing.T) {
	c, err := Build(table(
		[]string{"Acme", "A,B", "100"},
		[]string{"Beta", "A", "50"},
	))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.InDelta(t, 50.0, c.Price("A"), 1e-9)
	assert.InDelta(t, 50.0, c.Price("B"), 1e-9)
}

func TestBuild_RoundsAndSkipsEmptyRows(t *testing.T) {
	c, err := Build(table(
		[]string{"Acme", "X, Y, Z", "100"},
		[]string{"Acme", " , ", "900"},
		[]string{"Beta", "X", ""},
	))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
	// (33.333... + 0) / 2
	assert.Equal(t, 16.67, c.Price("X"))
	assert.Equal(t, 33.33, c.Price("Y"))
}

func TestBuild_MissingColumns(t *testing.T) {
	_, err := Build(&source.Table{Header: []string{"company_name", "product_names_purchased"}})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindData))
	assert.Contains(t, err.Error(), "profit")

	_, err = Build(&source.Table{Header: []string{"company_name", "Profit"}})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindData))
	assert.Contains(t, err.Error(), "product_names_purchased")
}

func TestPrice_Lookup(t *testing.T) {
	c, err := Build(table(
		[]string{"Acme", "PureLink Plasmid Midiprep Kit", "300"},
		[]string{"Acme", "NanoDrop One", "900"},
	))
	require.NoError(t, err)

	tests := []struct {
		name    string
		product string
		want    float64
	}{
		{"exact", "NanoDrop One", 900},
		{"query inside catalog name", "plasmid midiprep", 300},
		{"catalog name inside query", "NanoDrop One Microvolume Spectrophotometer", 900},
		{"unknown", "Centrifuge", 0},
		{"blank", "  ", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Price(tt.product))
		})
	}
}

func TestQuote_IsDeterministic(t *testing.T) {
	c, err := Build(table(
		[]string{"Acme", "A,B", "100.20"},
		[]string{"Beta", "C", "20"},
	))
	require.NoError(t, err)

	items, total := c.Quote([]string{" A ", "C", "Missing"})
	assert.Equal(t, []model.PricedItem{
		{Product: "A", UnitPrice: 50.1},
		{Product: "C", UnitPrice: 20},
		{Product: "Missing", UnitPrice: 0},
	}, items)
	assert.Equal(t, 70.1, total)

	again, againTotal := c.Quote([]string{" A ", "C", "Missing"})
	assert.Equal(t, items, again)
	assert.Equal(t, total, againTotal)
}
