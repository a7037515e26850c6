package attendance

import (
	"time"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/attendance"
)

// DeriveSession infers the day's check-in state from the caller's records of today.
// The most recent record decides the state; HasCheckedInToday looks at all of them.
func DeriveSession(today []attendance.Record, now time.Time) attendance.Session {
	session := attendance.Session{
		State:                 attendance.NoSession,
		LeaveDefaultStartDate: now.Format("2006-01-02"),
	}
	if len(today) == 0 {
		return session
	}

	recent := today[0]
	for _, r := range today[1:] {
		if r.Timestamp.After(recent.Timestamp) {
			recent = r
		}
	}

	switch recent.Status {
	case attendance.StatusIn:
		session.State = attendance.CheckedIn
		session.LastIn = &recent
	case attendance.StatusOut:
		session.State = attendance.CheckedOut
		session.LastOut = &recent
	}

	for _, r := range today {
		if r.Status == attendance.StatusIn {
			session.HasCheckedInToday = true
			break
		}
	}
	if session.HasCheckedInToday {
		session.LeaveDefaultStartDate = ""
	}

	return session
}

// checkDuplicate rejects a check-in or check-out that conflicts with today's records.
func checkDuplicate(today []attendance.Record, status string) error {
	var hasIn, hasOut bool
	for _, r := range today {
		switch r.Status {
		case attendance.StatusIn:
			hasIn = true
		case attendance.StatusOut:
			hasOut = true
		}
	}

	switch status {
	case attendance.StatusIn:
		if hasIn {
			return attendance.ErrAlreadyCheckedIn
		}
	case attendance.StatusOut:
		if !hasIn {
			return attendance.ErrNotCheckedIn
		}
		if hasOut {
			return attendance.ErrAlreadyCheckedOut
		}
	}
	return nil
}
