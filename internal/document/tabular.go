package document

import (
	"bytes"
	"context"
	"strings"

	"github.com/sells-group/deal-desk/internal/apperr"
	"github.com/sells-group/deal-desk/internal/source"
)

// maxTableRows bounds how many data rows of a sheet are rendered.
const maxTableRows = 200

func extractCSV(ctx context.Context, data []byte) (string, error) {
	t, err := source.ReadCSVTable(ctx, bytes.NewReader(data))
	if err != nil {
		return "", apperr.Validation("document: unreadable CSV: %v", err)
	}
	return renderTable(t.Header, t.Rows), nil
}

func extractXLSX(data []byte) (string, error) {
	sheets, err := source.ReadXLSXWorkbook(data)
	if err != nil {
		return "", apperr.Validation("document: unreadable XLSX: %v", err)
	}

	chunks := make([]string, 0, len(sheets))
	for _, s := range sheets {
		var header []string
		var rows [][]string
		if len(s.Rows) > 0 {
			header, rows = s.Rows[0], s.Rows[1:]
		}
		chunks = append(chunks, "--- Sheet: "+s.Name+" ---\n"+renderTable(header, rows))
	}
	return strings.Join(chunks, "\n\n"), nil
}

// renderTable writes a COLUMNS line followed by one ROW line per data row.
// A table without data rows renders as empty text.
func renderTable(header []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	if len(rows) > maxTableRows {
		rows = rows[:maxTableRows]
	}

	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, "COLUMNS: "+strings.Join(cols, " | "))
	for _, row := range rows {
		vals := make([]string, len(cols))
		for i := range cols {
			if i < len(row) {
				vals[i] = strings.TrimSpace(row[i])
			}
		}
		lines = append(lines, "ROW: "+strings.Join(vals, " | "))
	}
	return strings.Join(lines, "\n")
}
