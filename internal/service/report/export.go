package report

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/sheet-attendance/internal/domain/report"
)

const (
	sheetName   = "Attendance History"
	placeholder = "N/A"

	contentTypeXLS  = "application/vnd.ms-excel; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Headers is the fixed first row of every export.
var Headers = []string{"Name", "Date & Time", "Status", "Map Link", "Address"}

//go:embed templates/attendance.xml.tmpl
var templateFS embed.FS

var markupEscaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&apos;",
)

var xmlTemplate = template.Must(template.New("attendance.xml.tmpl").Funcs(template.FuncMap{
	"escape": markupEscaper.Replace,
	"orNA":   orNA,
}).ParseFS(templateFS, "templates/attendance.xml.tmpl"))

func orNA(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

// FileName embeds the UTC date of now: Attendance_History_YYYY-MM-DD.<ext>.
func FileName(now time.Time, ext string) string {
	return fmt.Sprintf("Attendance_History_%s.%s", now.UTC().Format("2006-01-02"), ext)
}

// Render serializes records in the requested format. An empty set is not rendered.
func Render(records []attendance.Record, format string, now time.Time) (report.ExportFile, error) {
	if len(records) == 0 {
		return report.ExportFile{}, report.ErrNoDataToExport
	}

	switch format {
	case report.FormatXLSX:
		content, err := renderXLSX(records)
		if err != nil {
			return report.ExportFile{}, fmt.Errorf("%w: %w", report.ErrReportGenerationFailed, err)
		}
		return report.ExportFile{
			FileName:    FileName(now, report.FormatXLSX),
			ContentType: contentTypeXLSX,
			Content:     content,
		}, nil
	default:
		content, err := renderXLS(records)
		if err != nil {
			return report.ExportFile{}, fmt.Errorf("%w: %w", report.ErrReportGenerationFailed, err)
		}
		return report.ExportFile{
			FileName:    FileName(now, report.FormatXLS),
			ContentType: contentTypeXLS,
			Content:     content,
		}, nil
	}
}

// renderXLS writes a SpreadsheetML 2003 workbook. Address and map link are escaped.
func renderXLS(records []attendance.Record) ([]byte, error) {
	var buf bytes.Buffer
	err := xmlTemplate.Execute(&buf, struct {
		Headers []string
		Rows    []attendance.Record
	}{
		Headers: Headers,
		Rows:    records,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderXLSX(records []attendance.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(Headers), 1)
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}

	for i, r := range records {
		values := []interface{}{
			orNA(r.SalesPersonName),
			orNA(r.DateTime),
			orNA(r.Status),
			orNA(r.MapLink),
			orNA(r.Address),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 24); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "B", "C", 20); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "D", "E", 48); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
