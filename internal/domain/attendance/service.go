package attendance

import (
	"context"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/user"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/sse"
)

// AttendanceService owns the per-user view state and the submission flow
type AttendanceService interface {
	// View returns the caller's current snapshot, fetching the sheet if none exists yet
	View(ctx context.Context, who user.Identity) (ViewState, error)

	// Refresh refetches the sheet and replaces the caller's records
	Refresh(ctx context.Context, who user.Identity) (ViewState, error)

	// RefreshAll refetches the sheet once for every known user
	RefreshAll(ctx context.Context) error

	// SetFilter replaces the present filter fields
	SetFilter(ctx context.Context, who user.Identity, update FilterUpdate) (ViewState, error)

	// ClearFilters resets every filter field
	ClearFilters(ctx context.Context, who user.Identity) (ViewState, error)

	// Submit validates and appends a check-in, check-out or leave row
	Submit(ctx context.Context, who user.Identity, req SubmitRequest) (SubmitResponse, error)

	// Subscribe streams snapshot refresh events for the caller
	Subscribe(who user.Identity) (chan sse.Event, func())
}
