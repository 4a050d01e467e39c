package reports

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
)

// utf8BOM leads every export file so spreadsheet tools detect the
// encoding instead of guessing.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Render encodes the exporter's header and rows as treasury-conformant
// CSV: UTF-8 with a byte order mark and CRLF line endings. Every data row
// must match the template's column count.
func (e *Exporter) Render() ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(e.header); err != nil {
		return nil, fmt.Errorf("writing %s header: %w", e.Category.Name, err)
	}
	for i, row := range e.rows {
		if len(row) != len(e.header) {
			return nil, fmt.Errorf("%w: %s row %d has %d columns, template has %d",
				ErrTemplateMismatch, e.Category.Name, i+1, len(row), len(e.header))
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing %s row %d: %w", e.Category.Name, i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing %s: %w", e.Category.Name, err)
	}
	return buf.Bytes(), nil
}

// buildArchive assembles the export files into a zip in category order.
// Any entry failure aborts the whole archive; a partial export is never
// produced.
func buildArchive(files []archiveFile) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, file := range files {
		w, err := zw.Create(file.name)
		if err != nil {
			return nil, fmt.Errorf("creating archive entry %s: %w", file.name, err)
		}
		if _, err := w.Write(file.content); err != nil {
			return nil, fmt.Errorf("writing archive entry %s: %w", file.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}
	return buf.Bytes(), nil
}

type archiveFile struct {
	name    string
	content []byte
}
