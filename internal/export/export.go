// Package export renders tabular rows as downloadable CSV or PDF files.
package export

import (
	"fmt"
	"strings"

	"ms-tours/internal/utils"
)

type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", utils.NewValidationError("format", fmt.Sprintf("unsupported export format %q, expected csv or pdf", s))
}

// Column maps a row key onto the label printed in the header.
type Column struct {
	Key   string
	Label string
}

type Row map[string]any

type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Render builds <fileName>.<format> from rows, printing columns in order.
func Render(format Format, rows []Row, columns []Column, fileName string) (*File, error) {
	switch format {
	case FormatCSV:
		data, err := CSV(rows, columns)
		if err != nil {
			return nil, err
		}
		return &File{Name: fileName + ".csv", ContentType: "text/csv; charset=utf-8", Data: data}, nil
	case FormatPDF:
		data, err := PDF(rows, columns, fileName+" Export")
		if err != nil {
			return nil, err
		}
		return &File{Name: fileName + ".pdf", ContentType: "application/pdf", Data: data}, nil
	}
	return nil, utils.NewValidationError("format", fmt.Sprintf("unsupported export format %q, expected csv or pdf", format))
}

// Text renders a cell value. nil becomes an empty string.
func Text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		return strings.Join(val, ", ")
	case *int64:
		if val == nil {
			return ""
		}
		return fmt.Sprint(*val)
	default:
		return fmt.Sprint(val)
	}
}

func labels(columns []Column) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.Label
	}
	return out
}
