package apperr

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"plain", eris.New("boom"), KindUnexpected},
		{"validation", Validation("text too short: %d", 3), KindValidation},
		{"wrapped data", eris.Wrap(Dataf("missing column %q", "profit"), "pricing: build"), KindData},
		{"capability", Capability("pdftotext not installed"), KindCapability},
		{"not found", NotFound("deal %s", "D-1"), KindNotFound},
		{"collaborator", Collaborator(eris.New("timeout"), "llm: generate"), KindCollaborator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := Data(eris.New("open data/x.csv"), "history: load")
	assert.Contains(t, err.Error(), "history: load")
	assert.Contains(t, err.Error(), "open data/x.csv")
	assert.True(t, Is(err, KindData))
	assert.False(t, Is(err, KindValidation))
}
