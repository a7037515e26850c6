package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/report"
	"github.com/cmlabs-hris/sheet-attendance/internal/domain/user"
	"github.com/cmlabs-hris/sheet-attendance/internal/handler/http/response"
)

type ReportHandler interface {
	History(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// History implements ReportHandler.
func (h *reportHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	who, err := user.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	refresh := false
	if v := r.URL.Query().Get("refresh"); v != "" {
		refresh, err = strconv.ParseBool(v)
		if err != nil {
			response.BadRequest(w, "refresh must be a boolean", nil)
			return
		}
	}

	resp, err := h.reportService.History(r.Context(), who, refresh)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Export implements ReportHandler.
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	who, err := user.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := report.ExportRequest{Format: r.URL.Query().Get("format")}

	file, err := h.reportService.Export(r.Context(), who, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Content)
}
