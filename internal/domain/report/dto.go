package report

import (
	"time"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/validator"
)

// ========================================
// HISTORY
// ========================================

type FilterOptions struct {
	Names    []string `json:"names"`
	Months   []string `json:"months"`
	Statuses []string `json:"statuses"`
}

type HistoryResponse struct {
	Records   []attendance.Record    `json:"records"`
	Filters   attendance.FilterState `json:"filters"`
	Options   FilterOptions          `json:"options"`
	Showing   int                    `json:"showing"`
	Total     int                    `json:"total"`
	FetchedAt time.Time              `json:"fetched_at"`
}

// ========================================
// EXPORT
// ========================================

const (
	FormatXLS  = "xls"
	FormatXLSX = "xlsx"
)

type ExportRequest struct {
	Format string `json:"format"`
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Format != "" && !validator.IsInSlice(r.Format, []string{FormatXLS, FormatXLSX}) {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: "format must be one of xls, xlsx",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ExportFile is a rendered download. Content is owned by the caller.
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}
