package source

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// XLSXOptions configures the XLSX parser.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// Sheet is one worksheet rendered as string cells.
type Sheet struct {
	Name string
	Rows [][]string
}

// ReadXLSXTable reads one sheet of an XLSX file as a Table whose first row is the header.
func ReadXLSXTable(path string, opts XLSXOptions) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	t := &Table{}
	for i, row := range sheet.Rows {
		cells := rowToStrings(row)
		if i == 0 {
			t.Header = cells
			continue
		}
		if isBlankRow(cells) {
			continue
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

// ReadXLSXWorkbook parses an in-memory XLSX file and returns every sheet in
// workbook order.
func ReadXLSXWorkbook(data []byte) ([]Sheet, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open workbook")
	}

	out := make([]Sheet, 0, len(f.Sheets))
	for _, sh := range f.Sheets {
		s := Sheet{Name: sh.Name}
		for _, row := range sh.Rows {
			cells := rowToStrings(row)
			if isBlankRow(cells) {
				continue
			}
			s.Rows = append(s.Rows, cells)
		}
		out = append(out, s)
	}
	return out, nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = strings.TrimSpace(cell.String())
	}
	return cells
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
