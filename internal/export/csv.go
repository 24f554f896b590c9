package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

const bom = "\uFEFF"

// CSV writes a BOM, the header line and one line per row using CRLF line
// endings and RFC 4180 quoting.
func CSV(rows []Row, columns []Column) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(bom)

	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(labels(columns)); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, len(columns))
	for i, row := range rows {
		for j, c := range columns {
			record[j] = Text(row[c.Key])
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
