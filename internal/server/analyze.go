package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/sells-group/deal-desk/internal/apperr"
	"github.com/sells-group/deal-desk/internal/requirements"
)

type analyzeTextRequest struct {
	Text       string         `json:"text"`
	Structured map[string]any `json:"structured"`
}

func (h *handler) analyzeText(w http.ResponseWriter, r *http.Request) {
	var req analyzeTextRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.upload.MaxBytes)).Decode(&req); err != nil {
		writeError(w, r, apperr.Validation("invalid request body: %v", err))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, r, apperr.Validation("text is required"))
		return
	}

	report, err := h.deps.Analyzer.Analyze(r.Context(), requirements.Input{
		Text:       req.Text,
		Structured: req.Structured,
		Source:     "text",
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *handler) analyzeFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.upload.MaxBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, apperr.Validation("upload exceeds %d bytes", h.upload.MaxBytes))
			return
		}
		writeError(w, r, apperr.Validation("multipart field \"file\" is required"))
		return
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, apperr.Validation("read upload: %v", err))
		return
	}

	text, kind, err := h.deps.Documents.Extract(r.Context(), header.Filename, data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len([]rune(strings.TrimSpace(text))) < h.upload.MinTextChars {
		writeError(w, r, apperr.Validation(
			"could not extract readable text from %s (%s); try TXT/DOCX/PDF/CSV/XLSX with real text",
			header.Filename, kind))
		return
	}

	report, err := h.deps.Analyzer.Analyze(r.Context(), requirements.Input{Text: text, Source: "file"})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *handler) debugStore(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Stats())
}
