package document

import (
	"context"
	"strings"

	"github.com/sells-group/deal-desk/internal/apperr"
	"github.com/sells-group/deal-desk/internal/source"
)

const docxBody = "word/document.xml"

// extractDOCX returns the non-blank paragraphs of a .docx file, one per line.
func extractDOCX(ctx context.Context, data []byte) (string, error) {
	body, err := source.ReadZIPEntry(data, docxBody)
	if err != nil {
		return "", apperr.Validation("document: not a readable .docx file: %v", err)
	}

	paras, err := source.WordParagraphs(ctx, body)
	if err != nil {
		return "", apperr.Validation("document: malformed .docx body: %v", err)
	}
	var lines []string
	for _, text := range paras {
		if strings.TrimSpace(text) != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n"), nil
}
