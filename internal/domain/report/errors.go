package report

import "errors"

var (
	ErrNoDataToExport         = errors.New("No data available to download")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)
