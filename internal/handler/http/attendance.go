package http

import (
	"log/slog"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/sheet-attendance/internal/domain/user"
	"github.com/cmlabs-hris/sheet-attendance/internal/handler/http/response"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/sse"
)

const keepaliveInterval = 30 * time.Second

type AttendanceHandler interface {
	Today(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	SetFilters(w http.ResponseWriter, r *http.Request)
	ClearFilters(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	StreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	jwtService        jwt.Service
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, jwtService jwt.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		jwtService:        jwtService,
	}
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	who, err := user.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	view, err := h.attendanceService.View(r.Context(), who)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.NewTodayResponse(view))
}

// Refresh implements AttendanceHandler.
func (h *attendanceHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	who, err := user.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	view, err := h.attendanceService.Refresh(r.Context(), who)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance refreshed", attendance.NewTodayResponse(view))
}

// SetFilters implements AttendanceHandler.
func (h *attendanceHandlerImpl) SetFilters(w http.ResponseWriter, r *http.Request) {
	who, err := user.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.FilterUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	view, err := h.attendanceService.SetFilter(r.Context(), who, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, view.Filters)
}

// ClearFilters implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClearFilters(w http.ResponseWriter, r *http.Request) {
	who, err := user.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	view, err := h.attendanceService.ClearFilters(r.Context(), who)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Filters cleared", view.Filters)
}

// Submit implements AttendanceHandler.
func (h *attendanceHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	who, err := user.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode submission", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.attendanceService.Submit(r.Context(), who, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if !resp.Confirmed {
		response.Accepted(w, resp.Message, resp)
		return
	}
	response.Created(w, resp.Message, resp)
}

// StreamToken issues a short-lived token for the event stream.
func (h *attendanceHandlerImpl) StreamToken(w http.ResponseWriter, r *http.Request) {
	who, err := user.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(who)
	if err != nil {
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, attendance.SSETokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream handles the SSE connection that announces snapshot refreshes
func (h *attendanceHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// EventSource cannot send headers
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	who, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.attendanceService.Subscribe(who)
	defer cleanup()

	_ = sse.Write(w, sse.Event{
		Event: "connected",
		Data:  map[string]string{"status": "connected", "sales_person_name": who.SalesPersonName},
	})
	flusher.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := sse.Write(w, event); err != nil {
				slog.Warn("Failed to write SSE event", "event", event.Event, "error", err)
				continue
			}
			flusher.Flush()

		case <-keepalive.C:
			_ = sse.Write(w, sse.Event{
				Event: "ping",
				Data:  map[string]int64{"timestamp": time.Now().Unix()},
			})
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
