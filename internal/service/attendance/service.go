package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/sheet-attendance/internal/domain/user"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/clock"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/geocode"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/gviz"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/sse"
)

// EventRefreshed is published to a user's subscribers whenever their snapshot is replaced.
const EventRefreshed = "attendance.refreshed"

const deferredRefreshTimeout = 30 * time.Second

type refreshedEvent struct {
	Token        uint64             `json:"token"`
	FetchedAt    time.Time          `json:"fetched_at"`
	Session      attendance.Session `json:"session"`
	TodayCount   int                `json:"today_count"`
	HistoryCount int                `json:"history_count"`
}

type AttendanceServiceImpl struct {
	sheet       attendance.SheetRepository
	submissions attendance.SubmissionLog
	geocoder    geocode.Resolver
	hub         *sse.Hub
	clock       clock.Clock
	loc         *time.Location
	retryDelay  time.Duration

	// afterFunc schedules deferred refreshes; tests replace it.
	afterFunc func(time.Duration, func())

	state *store
}

// View implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) View(ctx context.Context, who user.Identity) (attendance.ViewState, error) {
	if who.SalesPersonName == "" {
		return attendance.ViewState{}, user.ErrIdentityMissing
	}

	if v, ok := s.state.get(who); ok && s.current(v) {
		return v, nil
	}
	return s.Refresh(ctx, who)
}

// current reports whether v was fetched on today's calendar day. Today and Session are
// derived at fetch time, so a snapshot from an earlier day must be refetched.
func (s *AttendanceServiceImpl) current(v attendance.ViewState) bool {
	if !v.Loaded() {
		return false
	}
	fetched := v.FetchedAt.In(s.loc).Format(gviz.DayLayout)
	return fetched == s.now().Format(gviz.DayLayout)
}

// Refresh implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Refresh(ctx context.Context, who user.Identity) (attendance.ViewState, error) {
	if who.SalesPersonName == "" {
		return attendance.ViewState{}, user.ErrIdentityMissing
	}

	token := s.state.issue(who)

	records, err := s.fetch(ctx)
	if err != nil {
		prev, _ := s.state.get(who)
		return prev, err
	}

	return s.applyFetch(who, token, records), nil
}

// RefreshAll implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RefreshAll(ctx context.Context) error {
	owners := s.state.owners()
	if len(owners) == 0 {
		return nil
	}

	tokens := make([]uint64, len(owners))
	for i, who := range owners {
		tokens[i] = s.state.issue(who)
	}

	records, err := s.fetch(ctx)
	if err != nil {
		return err
	}

	for i, who := range owners {
		s.applyFetch(who, tokens[i], records)
	}
	return nil
}

// SetFilter implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) SetFilter(ctx context.Context, who user.Identity, update attendance.FilterUpdate) (attendance.ViewState, error) {
	if who.SalesPersonName == "" {
		return attendance.ViewState{}, user.ErrIdentityMissing
	}
	if err := update.Validate(); err != nil {
		return attendance.ViewState{}, err
	}

	return s.state.update(who, func(prev attendance.ViewState) attendance.ViewState {
		return setFilter(prev, update.Apply(prev.Filters))
	}), nil
}

// ClearFilters implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClearFilters(ctx context.Context, who user.Identity) (attendance.ViewState, error) {
	if who.SalesPersonName == "" {
		return attendance.ViewState{}, user.ErrIdentityMissing
	}

	return s.state.update(who, clearFilters), nil
}

// Subscribe implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Subscribe(who user.Identity) (chan sse.Event, func()) {
	ch, cleanup := s.hub.Subscribe(who.SalesPersonName)
	slog.Debug("Attendance stream subscribed",
		slog.String("component", "attendance"),
		slog.String("sales_person_name", who.SalesPersonName),
		slog.Int("subscribers", s.hub.SubscriberCount(who.SalesPersonName)),
	)
	return ch, cleanup
}

func (s *AttendanceServiceImpl) now() time.Time {
	return s.clock.Now().In(s.loc)
}

func (s *AttendanceServiceImpl) fetch(ctx context.Context) ([]attendance.Record, error) {
	rows, err := s.sheet.FetchRows(ctx)
	if err != nil {
		slog.Error("Failed to fetch attendance sheet",
			slog.String("component", "attendance"),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("%w: %w", attendance.ErrHistoryUnavailable, err)
	}
	return Normalize(rows, s.loc), nil
}

func (s *AttendanceServiceImpl) applyFetch(who user.Identity, token uint64, records []attendance.Record) attendance.ViewState {
	view, applied := s.state.apply(who, token, records, s.now())
	if !applied {
		slog.Info("Dropped stale attendance fetch",
			slog.String("component", "attendance"),
			slog.String("sales_person_name", who.SalesPersonName),
			slog.Uint64("token", token),
			slog.Uint64("latest_token", view.Token),
		)
		return view
	}

	if s.hub.SubscriberCount(who.SalesPersonName) == 0 {
		return view
	}
	s.hub.Publish(who.SalesPersonName, sse.Event{
		Event: EventRefreshed,
		Data: refreshedEvent{
			Token:        view.Token,
			FetchedAt:    view.FetchedAt,
			Session:      view.Session,
			TodayCount:   len(view.Today),
			HistoryCount: len(view.History),
		},
	})
	return view
}

// scheduleRefresh refetches who's records after the retry delay, detached from the request.
func (s *AttendanceServiceImpl) scheduleRefresh(who user.Identity) {
	s.afterFunc(s.retryDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), deferredRefreshTimeout)
		defer cancel()

		if _, err := s.Refresh(ctx, who); err != nil {
			slog.Warn("Deferred attendance refresh failed",
				slog.String("component", "attendance"),
				slog.String("sales_person_name", who.SalesPersonName),
				slog.Any("error", err),
			)
		}
	})
}

func NewAttendanceService(
	sheet attendance.SheetRepository,
	submissions attendance.SubmissionLog,
	geocoder geocode.Resolver,
	hub *sse.Hub,
	clk clock.Clock,
	loc *time.Location,
	retryDelay time.Duration,
) attendance.AttendanceService {
	return newAttendanceService(sheet, submissions, geocoder, hub, clk, loc, retryDelay)
}

func newAttendanceService(
	sheet attendance.SheetRepository,
	submissions attendance.SubmissionLog,
	geocoder geocode.Resolver,
	hub *sse.Hub,
	clk clock.Clock,
	loc *time.Location,
	retryDelay time.Duration,
) *AttendanceServiceImpl {
	if submissions == nil {
		submissions = NopSubmissionLog{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &AttendanceServiceImpl{
		sheet:       sheet,
		submissions: submissions,
		geocoder:    geocoder,
		hub:         hub,
		clock:       clk,
		loc:         loc,
		retryDelay:  retryDelay,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		state: newStore(),
	}
}
