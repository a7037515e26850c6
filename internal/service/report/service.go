package report

import (
	"context"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/sheet-attendance/internal/domain/report"
	"github.com/cmlabs-hris/sheet-attendance/internal/domain/user"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/clock"
)

type ReportServiceImpl struct {
	attendance attendance.AttendanceService
	clock      clock.Clock
}

func NewReportService(attendanceService attendance.AttendanceService, clk clock.Clock) report.ReportService {
	return &ReportServiceImpl{
		attendance: attendanceService,
		clock:      clk,
	}
}

// History implements report.ReportService.
func (s *ReportServiceImpl) History(ctx context.Context, who user.Identity, refresh bool) (report.HistoryResponse, error) {
	view, err := s.view(ctx, who, refresh)
	if err != nil {
		return report.HistoryResponse{}, err
	}

	records := Apply(view.History, view.Filters)

	return report.HistoryResponse{
		Records: records,
		Filters: view.Filters,
		Options: report.FilterOptions{
			Names:    NameOptions(view.History),
			Months:   MonthOptions(view.History),
			Statuses: []string{attendance.StatusIn, attendance.StatusOut, attendance.StatusLeave},
		},
		Showing:   len(records),
		Total:     len(view.History),
		FetchedAt: view.FetchedAt,
	}, nil
}

// Export implements report.ReportService.
func (s *ReportServiceImpl) Export(ctx context.Context, who user.Identity, req report.ExportRequest) (report.ExportFile, error) {
	if err := req.Validate(); err != nil {
		return report.ExportFile{}, err
	}
	if !who.IsAdmin() {
		return report.ExportFile{}, user.ErrAdminPrivilegeRequired
	}

	view, err := s.attendance.View(ctx, who)
	if err != nil {
		return report.ExportFile{}, err
	}

	return Render(Apply(view.History, view.Filters), req.Format, s.clock.Now())
}

func (s *ReportServiceImpl) view(ctx context.Context, who user.Identity, refresh bool) (attendance.ViewState, error) {
	if refresh {
		return s.attendance.Refresh(ctx, who)
	}
	return s.attendance.View(ctx, who)
}
