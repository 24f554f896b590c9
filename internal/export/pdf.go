package export

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/signintech/gopdf"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	fontFamily   = "goregular"
	titleSize    = 14
	bodySize     = 9
	marginX      = 30.0
	marginTop    = 40.0
	marginBottom = 40.0
	titleHeight  = 30.0
	rowHeight    = 16.0
	indexWidth   = 28.0
	ellipsis     = "…"
)

// PDF draws rows as a table on A4 pages. Each page repeats the header row and
// every line starts with the 1-based row number.
func PDF(rows []Row, columns []Column, title string) ([]byte, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.SetInfo(gopdf.PdfInfo{Title: title, Creator: "ms-tours"})

	if err := pdf.AddTTFFontData(fontFamily, goregular.TTF); err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	widths := columnWidths(gopdf.PageSizeA4.W-2*marginX, len(columns))
	pages := paginate(len(rows), rowsPerPage(gopdf.PageSizeA4.H))
	if len(pages) == 0 {
		pages = [][2]int{{0, 0}}
	}

	for p, span := range pages {
		pdf.AddPage()
		y := marginTop

		if p == 0 {
			if err := pdf.SetFont(fontFamily, "", titleSize); err != nil {
				return nil, fmt.Errorf("failed to set font: %w", err)
			}
			pdf.SetXY(marginX, y)
			if err := pdf.Cell(nil, title); err != nil {
				return nil, fmt.Errorf("failed to write title: %w", err)
			}
		}
		y += titleHeight

		if err := pdf.SetFont(fontFamily, "", bodySize); err != nil {
			return nil, fmt.Errorf("failed to set font: %w", err)
		}

		if err := drawLine(pdf, y, "#", labels(columns), widths); err != nil {
			return nil, err
		}
		pdf.Line(marginX, y+rowHeight-3, gopdf.PageSizeA4.W-marginX, y+rowHeight-3)
		y += rowHeight

		for i := span[0]; i < span[1]; i++ {
			cells := make([]string, len(columns))
			for j, c := range columns {
				cells[j] = Text(rows[i][c.Key])
			}
			if err := drawLine(pdf, y, strconv.Itoa(i+1)+".", cells, widths); err != nil {
				return nil, err
			}
			y += rowHeight
		}
	}

	var buf bytes.Buffer
	if err := pdf.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func drawLine(pdf *gopdf.GoPdf, y float64, index string, cells []string, widths []float64) error {
	pdf.SetXY(marginX, y)
	if err := pdf.Cell(&gopdf.Rect{W: indexWidth, H: rowHeight}, index); err != nil {
		return fmt.Errorf("failed to write cell: %w", err)
	}

	x := marginX + indexWidth
	for i, text := range cells {
		pdf.SetXY(x, y)
		text = fit(pdf, strings.Join(strings.Fields(text), " "), widths[i]-4)
		if err := pdf.Cell(&gopdf.Rect{W: widths[i], H: rowHeight}, text); err != nil {
			return fmt.Errorf("failed to write cell: %w", err)
		}
		x += widths[i]
	}
	return nil
}

// columnWidths gives the first column a double share of the space left after
// the row number, the rest split it evenly.
func columnWidths(total float64, n int) []float64 {
	if n == 0 {
		return nil
	}
	share := (total - indexWidth) / float64(n+1)
	widths := make([]float64, n)
	for i := range widths {
		widths[i] = share
	}
	widths[0] = 2 * share
	return widths
}

func rowsPerPage(pageHeight float64) int {
	n := int((pageHeight - marginTop - marginBottom - titleHeight - rowHeight) / rowHeight)
	if n < 1 {
		return 1
	}
	return n
}

// paginate splits n rows into [start, end) spans of at most perPage rows.
func paginate(n, perPage int) [][2]int {
	var spans [][2]int
	for start := 0; start < n; start += perPage {
		end := start + perPage
		if end > n {
			end = n
		}
		spans = append(spans, [2]int{start, end})
	}
	return spans
}

// fit shortens text with an ellipsis until it is narrower than width.
func fit(pdf *gopdf.GoPdf, text string, width float64) string {
	if w, err := pdf.MeasureTextWidth(text); err != nil || w <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if w, err := pdf.MeasureTextWidth(candidate); err == nil && w <= width {
			return candidate
		}
	}
	return ""
}
