package sheets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/gviz"
)

// maxScriptResponse bounds how much of the insert endpoint's answer is kept.
const maxScriptResponse = 1 << 20

type attendanceRepository struct {
	query     *gviz.Client
	sheetName string
	scriptURL string
	client    *http.Client
	userAgent string
}

// NewAttendanceRepository reads through the tabular query client and writes through
// the published script endpoint.
func NewAttendanceRepository(query *gviz.Client, sheetName, scriptURL, userAgent string, timeout time.Duration) attendance.SheetRepository {
	return &attendanceRepository{
		query:     query,
		sheetName: sheetName,
		scriptURL: scriptURL,
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// FetchRows implements attendance.SheetRepository.
func (r *attendanceRepository) FetchRows(ctx context.Context) ([]gviz.Row, error) {
	rows, err := r.query.Rows(ctx, r.sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s sheet: %w", r.sheetName, err)
	}
	return rows, nil
}

// AppendRow implements attendance.SheetRepository.
func (r *attendanceRepository) AppendRow(ctx context.Context, row attendance.SheetRow) (attendance.ScriptResult, error) {
	rowJSON, err := json.Marshal(row)
	if err != nil {
		return attendance.ScriptResult{}, fmt.Errorf("failed to encode row: %w", err)
	}

	form := url.Values{}
	form.Set("sheetName", r.sheetName)
	form.Set("action", "insert")
	form.Set("rowData", string(rowJSON))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.scriptURL, strings.NewReader(form.Encode()))
	if err != nil {
		return attendance.ScriptResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return attendance.ScriptResult{}, fmt.Errorf("network error during row insert: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScriptResponse))
	if err != nil {
		// The request was delivered; an unreadable answer is not a transport failure.
		slog.Warn("Failed to read insert response", slog.String("component", "sheets"), slog.Any("error", err))
	}

	return attendance.ScriptResult{StatusCode: resp.StatusCode, Body: body}, nil
}
