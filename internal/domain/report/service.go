package report

import (
	"context"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/user"
)

// ReportService filters the history view and renders it for download
type ReportService interface {
	// History returns the caller's visible records narrowed by their filters
	History(ctx context.Context, who user.Identity, refresh bool) (HistoryResponse, error)

	// Export renders the caller's filtered history. Admin only.
	Export(ctx context.Context, who user.Identity, req ExportRequest) (ExportFile, error)
}
