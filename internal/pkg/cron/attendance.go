package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/attendance"
)

const refreshJobTimeout = time.Minute

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	interval          time.Duration
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService, interval time.Duration) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		interval:          interval,
	}
}

// RegisterJobs adds the snapshot refresh. A non-positive interval disables it.
func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	if j.interval <= 0 {
		return
	}
	scheduler.AddJob("refresh_attendance_snapshots", j.interval, refreshJobTimeout, j.RefreshSnapshots)
}

// RefreshSnapshots refetches the sheet once for every user holding a snapshot.
func (j *AttendanceJobs) RefreshSnapshots(ctx context.Context) error {
	if err := j.attendanceService.RefreshAll(ctx); err != nil {
		return fmt.Errorf("refresh attendance snapshots: %w", err)
	}
	return nil
}
