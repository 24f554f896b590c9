package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-tours/internal/utils"
)

var clientColumns = []Column{
	{Key: "name", Label: "Name"},
	{Key: "email", Label: "Email"},
	{Key: "country", Label: "Country"},
}

func TestCSVHasBOMAndHeader(t *testing.T) {
	rows := []Row{
		{"name": "Ana", "email": "ana@example.com", "country": "Croatia"},
		{"name": "Jean, Luc", "email": nil, "country": "France \"FR\""},
	}

	data, err := CSV(rows, clientColumns)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("\uFEFF")))

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\uFEFF")))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(rows)+1)
	assert.Equal(t, []string{"Name", "Email", "Country"}, records[0])
	assert.Equal(t, []string{"Jean, Luc", "", "France \"FR\""}, records[2])
	assert.Contains(t, string(data), "\r\n")
}

func TestCSVFollowsColumnOrder(t *testing.T) {
	reversed := []Column{clientColumns[2], clientColumns[0]}
	data, err := CSV([]Row{{"name": "Ana", "country": "Croatia", "ignored": 1}}, reversed)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(string(data), "\uFEFF")), "\r\n")
	assert.Equal(t, []string{"Country,Name", "Croatia,Ana"}, lines)
}

func TestText(t *testing.T) {
	id := int64(12)
	var missing *int64

	assert.Equal(t, "", Text(nil))
	assert.Equal(t, "3.5", Text(3.5))
	assert.Equal(t, "a, b", Text([]string{"a", "b"}))
	assert.Equal(t, "12", Text(&id))
	assert.Equal(t, "", Text(missing))
	assert.Equal(t, "true", Text(true))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("xlsx")
	var verr *utils.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRenderNamesFiles(t *testing.T) {
	csvFile, err := Render(FormatCSV, nil, clientColumns, "clients")
	require.NoError(t, err)
	assert.Equal(t, "clients.csv", csvFile.Name)
	assert.Equal(t, "text/csv; charset=utf-8", csvFile.ContentType)

	pdfFile, err := Render(FormatPDF, []Row{{"name": "Željko Čović", "email": "z@example.com"}}, clientColumns, "clients")
	require.NoError(t, err)
	assert.Equal(t, "clients.pdf", pdfFile.Name)
	assert.Equal(t, "application/pdf", pdfFile.ContentType)
	assert.True(t, bytes.HasPrefix(pdfFile.Data, []byte("%PDF-")))
}

func TestPDFManyRows(t *testing.T) {
	rows := make([]Row, 120)
	for i := range rows {
		rows[i] = Row{"name": strings.Repeat("very long tourist name ", 5), "email": "x@example.com", "country": "HR"}
	}

	data, err := PDF(rows, clientColumns, "clients Export")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestPaginate(t *testing.T) {
	assert.Nil(t, paginate(0, 10))
	assert.Equal(t, [][2]int{{0, 10}, {10, 20}, {20, 23}}, paginate(23, 10))
	assert.Equal(t, [][2]int{{0, 5}}, paginate(5, 10))
}

func TestColumnWidthsFillPage(t *testing.T) {
	widths := columnWidths(500, 3)
	require.Len(t, widths, 3)
	assert.InDelta(t, 500-indexWidth, widths[0]+widths[1]+widths[2], 0.001)
	assert.InDelta(t, 2*widths[1], widths[0], 0.001)
	assert.Nil(t, columnWidths(500, 0))
}
