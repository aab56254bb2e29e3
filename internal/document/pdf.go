package document

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/deal-desk/internal/apperr"
)

// PdfToText extracts text from PDFs using the pdftotext CLI tool.
type PdfToText struct {
	binPath string
}

// NewPdfToText creates a PdfToText reader. If binPath is empty, "pdftotext" is used.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath}
}

// Available reports whether the pdftotext binary can be found.
func (p *PdfToText) Available() bool {
	_, err := exec.LookPath(p.binPath)
	return err == nil
}

// ExtractText runs pdftotext -layout on the given PDF and returns stdout.
func (p *PdfToText) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	if !p.Available() {
		return "", apperr.Capability("document: PDF support missing: %s not found on PATH", p.binPath)
	}

	cmd := exec.CommandContext(ctx, p.binPath, "-layout", pdfPath, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "document: pdftotext failed for %s: %s", filepath.Base(pdfPath), stderr.String())
	}

	return stdout.String(), nil
}

func (e *Extractor) extractPDF(ctx context.Context, data []byte) (string, error) {
	if e.pdf == nil {
		return "", apperr.Capability("document: PDF support missing: no PDF reader configured")
	}

	f, err := os.CreateTemp("", "upload-*.pdf")
	if err != nil {
		return "", eris.Wrap(err, "document: create temp file")
	}
	defer os.Remove(f.Name()) //nolint:errcheck

	if _, err := f.Write(data); err != nil {
		f.Close() //nolint:errcheck
		return "", eris.Wrap(err, "document: write temp file")
	}
	if err := f.Close(); err != nil {
		return "", eris.Wrap(err, "document: close temp file")
	}

	return e.pdf.ExtractText(ctx, f.Name())
}
