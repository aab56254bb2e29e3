package source

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func buildXLSX(t *testing.T, names []string, sheets map[string][][]string) *xlsx.File {
	t.Helper()
	f := xlsx.NewFile()
	for _, name := range names {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range sheets[name] {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				row.AddCell().SetString(cellData)
			}
		}
	}
	return f
}

func TestReadXLSXTable(t *testing.T) {
	f := buildXLSX(t, []string{"Deals"}, map[string][][]string{
		"Deals": {
			{"company_name", "product_names_purchased", "Profit"},
			{"Acme", "A, B", "100"},
			{"", "", ""},
			{"Beta", "A", "50"},
		},
	})
	path := filepath.Join(t.TempDir(), "history.xlsx")
	require.NoError(t, f.Save(path))

	tbl, err := ReadXLSXTable(path, XLSXOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"company_name", "product_names_purchased", "Profit"}, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"Beta", "A", "50"}, tbl.Rows[1])
}

func TestReadXLSXTable_SheetNotFound(t *testing.T) {
	f := buildXLSX(t, []string{"Sheet1"}, map[string][][]string{"Sheet1": {{"a"}}})
	path := filepath.Join(t.TempDir(), "x.xlsx")
	require.NoError(t, f.Save(path))

	_, err := ReadXLSXTable(path, XLSXOptions{SheetName: "Nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `sheet "Nope" not found`)
}

func TestReadXLSXTable_MissingFile(t *testing.T) {
	_, err := ReadXLSXTable(filepath.Join(t.TempDir(), "missing.xlsx"), XLSXOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xlsx: open file")
}

func TestReadXLSXWorkbook(t *testing.T) {
	f := buildXLSX(t, []string{"Request", "Notes"}, map[string][][]string{
		"Request": {{"item", "qty"}, {"plasmid kit", "10"}},
		"Notes":   {{"note"}, {"urgent"}},
	})
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	sheets, err := ReadXLSXWorkbook(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, sheets, 2)
	assert.Equal(t, "Request", sheets[0].Name)
	assert.Equal(t, [][]string{{"item", "qty"}, {"plasmid kit", "10"}}, sheets[0].Rows)
	assert.Equal(t, "Notes", sheets[1].Name)
}

func TestReadXLSXWorkbook_Invalid(t *testing.T) {
	_, err := ReadXLSXWorkbook([]byte("not a workbook"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xlsx: open workbook")
}
