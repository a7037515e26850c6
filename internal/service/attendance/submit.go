package attendance

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	json "github.com/goccy/go-json"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/sheet-attendance/internal/domain/user"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/gviz"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/utils"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/validator"
)

// NopSubmissionLog discards audit records.
type NopSubmissionLog struct{}

func (NopSubmissionLog) Record(context.Context, attendance.Submission) error { return nil }

// scriptReply is the optional JSON body of the insert endpoint.
type scriptReply struct {
	Success       *bool `json:"success"`
	ActiveSession any   `json:"activeSession"`
}

func successMessage(status string) string {
	switch status {
	case attendance.StatusIn:
		return "Check-in successful!"
	case attendance.StatusOut:
		return "Check-out successful!"
	default:
		return "Leave application submitted successfully!"
	}
}

// Submit implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Submit(ctx context.Context, who user.Identity, req attendance.SubmitRequest) (attendance.SubmitResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SubmitResponse{}, err
	}
	if who.SalesPersonName == "" {
		return attendance.SubmitResponse{}, user.ErrIdentityMissing
	}

	view, err := s.View(ctx, who)
	if err != nil {
		return attendance.SubmitResponse{}, err
	}
	if err := checkDuplicate(view.Today, req.Status); err != nil {
		return attendance.SubmitResponse{}, err
	}

	// No network call happens once the device reported a location failure.
	if err := req.LocationErr(); err != nil {
		return attendance.SubmitResponse{}, err
	}

	lat, lon := req.Location.Latitude, req.Location.Longitude
	address := s.geocoder.Resolve(ctx, lat, lon)
	mapLink := utils.MapLink(lat, lon)

	row := buildRow(req, who, s.now(), s.loc, address, mapLink)

	resp := attendance.SubmitResponse{
		Status:   req.Status,
		Message:  successMessage(req.Status),
		Address:  address,
		MapLink:  mapLink,
		DateTime: row[attendance.ColDateTime].(string),
	}

	submission := attendance.Submission{
		SalesPersonName: who.SalesPersonName,
		Status:          req.Status,
		Row:             row,
		SubmittedAt:     time.Now().UTC(),
	}

	result, err := s.sheet.AppendRow(ctx, row)
	if err != nil {
		// The caller still gets the success message; the write stays unconfirmed
		// until the deferred refresh shows the row.
		slog.Warn("Attendance write not confirmed, reporting success",
			slog.String("component", "attendance"),
			slog.String("sales_person_name", who.SalesPersonName),
			slog.String("status", req.Status),
			slog.Duration("retry_delay", s.retryDelay),
			slog.Any("error", err),
		)
		msg := err.Error()
		submission.TransportError = &msg
		s.recordSubmission(ctx, submission)
		s.scheduleRefresh(who)
		return resp, nil
	}

	resp.Confirmed = result.StatusCode >= 200 && result.StatusCode < 300
	submission.Confirmed = resp.Confirmed
	if !resp.Confirmed {
		slog.Warn("Attendance write answered with non-success status",
			slog.String("component", "attendance"),
			slog.String("sales_person_name", who.SalesPersonName),
			slog.Int("status_code", result.StatusCode),
		)
	} else if reply, ok := parseScriptReply(result.Body); ok && reply.Success != nil && !*reply.Success && reply.ActiveSession != nil {
		slog.Info("Insert endpoint reported an active session",
			slog.String("component", "attendance"),
			slog.String("sales_person_name", who.SalesPersonName),
		)
	}
	s.recordSubmission(ctx, submission)

	if _, err := s.Refresh(ctx, who); err != nil {
		slog.Warn("Refresh after submission failed",
			slog.String("component", "attendance"),
			slog.String("sales_person_name", who.SalesPersonName),
			slog.Any("error", err),
		)
	}

	return resp, nil
}

func (s *AttendanceServiceImpl) recordSubmission(ctx context.Context, submission attendance.Submission) {
	if err := s.submissions.Record(ctx, submission); err != nil {
		slog.Error("Failed to record attendance submission",
			slog.String("component", "attendance"),
			slog.String("sales_person_name", submission.SalesPersonName),
			slog.Bool("confirmed", submission.Confirmed),
			slog.Any("error", err),
		)
	}
}

// buildRow assembles the positional row the insert endpoint appends.
func buildRow(req attendance.SubmitRequest, who user.Identity, now time.Time, loc *time.Location, address, mapLink string) attendance.SheetRow {
	var row attendance.SheetRow

	dateTime := gviz.FormatDisplay(now)
	if req.Status == attendance.StatusLeave {
		dateTime = ""
		if start, err := validator.ParseDate(req.StartDate); err == nil {
			dateTime = gviz.FormatDisplay(start.In(loc))
		}
	}

	endDate := ""
	if end, err := validator.ParseDate(req.EndDate); err == nil {
		endDate = gviz.FormatDisplay(end.In(loc))
	}

	row[attendance.ColTimestamp] = gviz.FormatDisplay(now)
	row[attendance.ColDateTime] = dateTime
	row[attendance.ColEndDate] = endDate
	row[attendance.ColStatus] = req.Status
	row[attendance.ColReason] = req.Reason
	row[attendance.ColLatitude] = req.Location.Latitude
	row[attendance.ColLongitude] = req.Location.Longitude
	row[attendance.ColMapLink] = mapLink
	row[attendance.ColAddress] = address
	row[attendance.ColSalesPerson] = who.SalesPersonName

	return row
}

func parseScriptReply(body []byte) (scriptReply, bool) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return scriptReply{}, false
	}
	var reply scriptReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return scriptReply{}, false
	}
	return reply, true
}
