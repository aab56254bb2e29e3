package source

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZIP(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestReadZIPEntry(t *testing.T) {
	data := buildZIP(t, map[string]string{"word/document.xml": "<doc/>", "other.txt": "x"})

	b, err := ReadZIPEntry(data, "word/document.xml")
	require.NoError(t, err)
	assert.Equal(t, "<doc/>", string(b))
}

func TestReadZIPEntry_Missing(t *testing.T) {
	data := buildZIP(t, map[string]string{"a.txt": "x"})
	_, err := ReadZIPEntry(data, "word/document.xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in archive")
}

func TestReadZIPEntry_NotZIP(t *testing.T) {
	_, err := ReadZIPEntry([]byte("plain"), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zip: open archive")
}

func TestWordParagraphs(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:r><w:t>Need 10 </w:t></w:r><w:r><w:t>kits</w:t></w:r></w:p>
<w:p></w:p>
<w:p><w:r><w:t>Qty</w:t><w:tab/><w:t>10</w:t><w:br/><w:t>ASAP</w:t></w:r></w:p>
<w:p><w:r><w:t>Box: </w:t></w:r><w:r><w:txbxContent><w:p><w:r><w:t>inner</w:t></w:r></w:p></w:txbxContent></w:r></w:p>
<w:sectPr><w:t>outside</w:t></w:sectPr>
</w:body></w:document>`

	paras, err := WordParagraphs(context.Background(), []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"Need 10 kits", "", "Qty\t10\nASAP", "Box: inner"}, paras)
}

func TestWordParagraphs_Malformed(t *testing.T) {
	_, err := WordParagraphs(context.Background(), []byte("<w:document><w:p>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml: read token")
}

func TestWordParagraphs_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := WordParagraphs(ctx, []byte("<w:p/>"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
