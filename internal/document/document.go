// Package document converts uploaded files into plain text for analysis.
package document

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sells-group/deal-desk/internal/apperr"
)

// Kind is the detected type of an uploaded document.
type Kind string

const (
	KindTXT  Kind = "txt"
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
	KindCSV  Kind = "csv"
	KindXLSX Kind = "xlsx"
)

var kinds = map[string]Kind{
	".txt":  KindTXT,
	".pdf":  KindPDF,
	".docx": KindDOCX,
	".csv":  KindCSV,
	".xlsx": KindXLSX,
}

// Supported returns the accepted file extensions in sorted order.
func Supported() []string {
	out := make([]string, 0, len(kinds))
	for ext := range kinds {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// PDFReader extracts text from a PDF file on disk.
type PDFReader interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

// Extractor turns uploaded bytes into text.
type Extractor struct {
	pdf PDFReader
}

// NewExtractor creates an Extractor that reads PDFs with pdf. A nil pdf
// makes PDF uploads a missing-capability error.
func NewExtractor(pdf PDFReader) *Extractor {
	return &Extractor{pdf: pdf}
}

// Extract returns the text of the file named filename and its kind. The
// kind is chosen by extension, ignoring case.
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (string, Kind, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	kind, ok := kinds[ext]
	if !ok {
		if ext == "" {
			ext = "(none)"
		}
		return "", "", apperr.Validation("document: unsupported file type: %s. Supported: %s", ext, strings.Join(Supported(), ", "))
	}

	var (
		text string
		err  error
	)
	switch kind {
	case KindTXT:
		text = strings.ToValidUTF8(string(data), "")
	case KindPDF:
		text, err = e.extractPDF(ctx, data)
	case KindDOCX:
		text, err = extractDOCX(ctx, data)
	case KindCSV:
		text, err = extractCSV(ctx, data)
	case KindXLSX:
		text, err = extractXLSX(data)
	}
	if err != nil {
		return "", kind, err
	}
	return strings.TrimSpace(text), kind, nil
}
