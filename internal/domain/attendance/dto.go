package attendance

import (
	"time"

	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/utils"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/validator"
)

// ========================================
// SUBMISSION DTOs
// ========================================

// Location failure codes reported by the device.
const (
	LocationPermissionDenied = "permission_denied"
	LocationUnavailable      = "unavailable"
	LocationTimeout          = "timeout"
)

type Coordinates struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
}

type SubmitRequest struct {
	Status    string `json:"status"`
	StartDate string `json:"start_date"` // YYYY-MM-DD, leave only
	EndDate   string `json:"end_date"`   // YYYY-MM-DD, leave only
	Reason    string `json:"reason"`

	// Exactly one of Location or LocationError is expected.
	Location      *Coordinates `json:"location,omitempty"`
	LocationError string       `json:"location_error,omitempty"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Status) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "Status is required",
		})
	} else if !validator.IsInSlice(r.Status, []string{StatusIn, StatusOut, StatusLeave}) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of IN, OUT, Leave",
		})
	}

	if r.Status == StatusLeave {
		start, startErr := validator.ParseDate(r.StartDate)
		if validator.IsEmpty(r.StartDate) {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "Start date is required",
			})
		} else if startErr != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}

		if !validator.IsEmpty(r.EndDate) {
			end, err := validator.ParseDate(r.EndDate)
			if err != nil {
				errs = append(errs, validator.ValidationError{
					Field:   "end_date",
					Message: "end_date must be in YYYY-MM-DD format",
				})
			} else if startErr == nil && end.Before(start) {
				errs = append(errs, validator.ValidationError{
					Field:   "end_date",
					Message: "End date cannot be before start date",
				})
			}
		}

		if validator.IsEmpty(r.Reason) {
			errs = append(errs, validator.ValidationError{
				Field:   "reason",
				Message: "Reason is required for leave",
			})
		}
	}

	if r.Location != nil && !utils.ValidCoordinates(r.Location.Latitude, r.Location.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "latitude must be between -90 and 90 and longitude between -180 and 180",
		})
	}

	if r.LocationError != "" && !validator.IsInSlice(r.LocationError, []string{LocationPermissionDenied, LocationUnavailable, LocationTimeout}) {
		errs = append(errs, validator.ValidationError{
			Field:   "location_error",
			Message: "location_error must be one of permission_denied, unavailable, timeout",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// LocationErr maps the device report to a domain error; nil means coordinates are usable.
func (r *SubmitRequest) LocationErr() error {
	switch r.LocationError {
	case LocationPermissionDenied:
		return ErrLocationPermissionDenied
	case LocationTimeout:
		return ErrLocationTimeout
	case LocationUnavailable:
		return ErrLocationUnavailable
	}
	if r.Location == nil {
		return ErrLocationUnavailable
	}
	return nil
}

type SubmitResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	// Confirmed is false when the write could not be delivered; the user still sees
	// Message and a delayed refresh is scheduled.
	Confirmed bool   `json:"confirmed"`
	Address   string `json:"address"`
	MapLink   string `json:"map_link"`
	DateTime  string `json:"date_time"`
}

// ========================================
// VIEW DTOs
// ========================================

type TodayResponse struct {
	Records   []Record  `json:"records"`
	Session   Session   `json:"session"`
	FetchedAt time.Time `json:"fetched_at"`
}

func NewTodayResponse(v ViewState) TodayResponse {
	records := v.Today
	if records == nil {
		records = []Record{}
	}
	return TodayResponse{
		Records:   records,
		Session:   v.Session,
		FetchedAt: v.FetchedAt,
	}
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// FilterUpdate changes only the fields that are present.
type FilterUpdate struct {
	Name   *string `json:"name,omitempty"`
	Status *string `json:"status,omitempty"`
	Month  *string `json:"month,omitempty"`
}

func (f *FilterUpdate) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && *f.Status != "" && !validator.IsInSlice(*f.Status, []string{StatusIn, StatusOut, StatusLeave}) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of IN, OUT, Leave",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Apply returns base with the present fields replaced.
func (f FilterUpdate) Apply(base FilterState) FilterState {
	if f.Name != nil {
		base.Name = *f.Name
	}
	if f.Status != nil {
		base.Status = *f.Status
	}
	if f.Month != nil {
		base.Month = *f.Month
	}
	return base
}
