package attendance

import "errors"

// Attendance domain errors
var (
	// Duplicate submission errors
	ErrAlreadyCheckedIn  = errors.New("Today Already in")
	ErrNotCheckedIn      = errors.New("First In")
	ErrAlreadyCheckedOut = errors.New("Today Already out")

	// Location errors
	ErrLocationPermissionDenied = errors.New("Location permission denied. Please enable location services.")
	ErrLocationUnavailable      = errors.New("Location information unavailable.")
	ErrLocationTimeout          = errors.New("Location request timed out.")

	// Read path
	ErrHistoryUnavailable = errors.New("Failed to load attendance history.")
)
