package report

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/sheet-attendance/internal/domain/report"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/utils"
)

var exportNow = time.Date(2025, time.January, 2, 23, 30, 0, 0, time.FixedZone("WIB", 7*3600))

func TestRender_EmptySet(t *testing.T) {
	_, err := Render(nil, report.FormatXLS, exportNow)
	assert.ErrorIs(t, err, report.ErrNoDataToExport)

	_, err = Render([]attendance.Record{}, report.FormatXLSX, exportNow)
	assert.ErrorIs(t, err, report.ErrNoDataToExport)
}

func TestRender_XLS(t *testing.T) {
	records := []attendance.Record{
		{
			SalesPersonName: "Alice",
			DateTime:        "31/12/2024 10:15:00",
			Status:          "IN",
			MapLink:         "https://maps.example/1",
			Address:         `5 O'Brien & Sons <Rd>`,
		},
		{SalesPersonName: "Bob"},
	}

	file, err := Render(records, report.FormatXLS, exportNow)
	require.NoError(t, err)

	assert.Equal(t, "Attendance_History_2025-01-02.xls", file.FileName)
	assert.Equal(t, contentTypeXLS, file.ContentType)

	doc := string(file.Content)
	assert.True(t, strings.HasPrefix(doc, `<?xml version="1.0"?>`))
	assert.Contains(t, doc, `<Worksheet ss:Name="Attendance History">`)
	assert.Equal(t, 3, strings.Count(doc, "<Row>"))

	header := doc[strings.Index(doc, "<Row>"):strings.Index(doc, "</Row>")]
	assert.Contains(t, header, `<Data ss:Type="String">Name</Data>`)
	assert.Contains(t, header, `<Data ss:Type="String">Date &amp; Time</Data>`)
	assert.Contains(t, header, `<Data ss:Type="String">Status</Data>`)
	assert.Contains(t, header, `<Data ss:Type="String">Map Link</Data>`)
	assert.Contains(t, header, `<Data ss:Type="String">Address</Data>`)

	assert.Contains(t, doc, `<Data ss:Type="String">5 O&apos;Brien &amp; Sons &lt;Rd&gt;</Data>`)
	assert.Equal(t, 4, strings.Count(doc, `<Data ss:Type="String">N/A</Data>`))
}

func TestRender_XLSMapLinkKeepsDocumentWellFormed(t *testing.T) {
	link := utils.MapLink(-6.2, 106.8)
	require.Contains(t, link, "&")

	records := []attendance.Record{{SalesPersonName: "Alice", Status: "IN", MapLink: link}}
	file, err := Render(records, report.FormatXLS, exportNow)
	require.NoError(t, err)

	doc := string(file.Content)
	assert.Contains(t, doc, strings.ReplaceAll(link, "&", "&amp;"))

	dec := xml.NewDecoder(bytes.NewReader(file.Content))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
	}
}

func TestRender_XLSX(t *testing.T) {
	records := []attendance.Record{
		{SalesPersonName: "Alice", DateTime: "31/12/2024 10:15:00", Status: "IN", Address: "5 O'Brien & Sons <Rd>"},
	}

	file, err := Render(records, report.FormatXLSX, exportNow)
	require.NoError(t, err)
	assert.Equal(t, "Attendance_History_2025-01-02.xlsx", file.FileName)

	f, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Headers, rows[0])
	assert.Equal(t, []string{"Alice", "31/12/2024 10:15:00", "IN", "N/A", "5 O'Brien & Sons <Rd>"}, rows[1])
}

func TestFileName_UsesUTCDate(t *testing.T) {
	local := time.Date(2025, time.January, 3, 1, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	assert.Equal(t, "Attendance_History_2025-01-02.xls", FileName(local, "xls"))
}
