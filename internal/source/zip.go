package source

import (
	"archive/zip"
	"bytes"
	"io"

	"github.com/rotisserie/eris"
)

// maxZIPEntryBytes bounds how much of a single archive member is read.
const maxZIPEntryBytes = 64 << 20

// ReadZIPEntry returns the contents of the named member of an in-memory ZIP archive.
func ReadZIPEntry(data []byte, name string) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, eris.Wrap(err, "zip: open archive")
	}

	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, eris.Wrapf(err, "zip: open entry %s", name)
		}
		defer rc.Close() //nolint:errcheck

		b, err := io.ReadAll(io.LimitReader(rc, maxZIPEntryBytes))
		if err != nil {
			return nil, eris.Wrapf(err, "zip: read entry %s", name)
		}
		return b, nil
	}

	return nil, eris.Errorf("zip: file %q not found in archive", name)
}
