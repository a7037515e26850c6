package attendance

import (
	"time"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/user"
)

const (
	StatusIn    = "IN"
	StatusOut   = "OUT"
	StatusLeave = "Leave"
)

// Column positions of the Attendance sheet.
const (
	ColTimestamp = iota
	ColDateTime
	ColEndDate
	ColStatus
	ColReason
	ColLatitude
	ColLongitude
	ColMapLink
	ColAddress
	ColSalesPerson

	RowWidth
)

// Record is one normalized sheet row. Empty strings stand for absent cells.
// Records are values; nothing mutates a Record after normalization.
type Record struct {
	SalesPersonName string `json:"sales_person_name"`
	DateTime        string `json:"date_time"`
	Status          string `json:"status"`
	MapLink         string `json:"map_link,omitempty"`
	Address         string `json:"address,omitempty"`

	// OriginalTimestamp is the raw column-0 value; Timestamp is parsed from it once and
	// is the only sort key (zero when it could not be parsed).
	OriginalTimestamp string    `json:"-"`
	Timestamp         time.Time `json:"-"`
}

// Day returns the DD/MM/YYYY prefix of DateTime.
func (r Record) Day() string {
	for i := 0; i < len(r.DateTime); i++ {
		if r.DateTime[i] == ' ' {
			return r.DateTime[:i]
		}
	}
	return r.DateTime
}

// SessionState is the per-user, per-day check-in state.
type SessionState string

const (
	NoSession  SessionState = "no_session"
	CheckedIn  SessionState = "checked_in"
	CheckedOut SessionState = "checked_out"
)

type Session struct {
	State             SessionState `json:"state"`
	HasCheckedInToday bool         `json:"has_checked_in_today"`
	LastIn            *Record      `json:"last_in,omitempty"`
	LastOut           *Record      `json:"last_out,omitempty"`
	// LeaveDefaultStartDate pre-fills a leave form: empty once the user checked in today.
	LeaveDefaultStartDate string `json:"leave_default_start_date"`
}

// FilterState narrows the history view. Empty fields match everything.
type FilterState struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Month  string `json:"month"`
}

func (f FilterState) IsEmpty() bool {
	return f.Name == "" && f.Status == "" && f.Month == ""
}

// ViewState is an immutable per-user snapshot. Transitions build a new value; slices
// held by a ViewState are never written after it is published.
type ViewState struct {
	Owner     user.Identity
	Token     uint64
	Records   []Record
	Today     []Record
	History   []Record
	Session   Session
	Filters   FilterState
	FetchedAt time.Time
}

// Loaded reports whether the snapshot has ever received records.
func (v ViewState) Loaded() bool {
	return !v.FetchedAt.IsZero()
}

// SheetRow is the positional row appended by the write path.
type SheetRow [RowWidth]any

// Submission is one write attempt, kept for auditing.
type Submission struct {
	ID              string
	SalesPersonName string
	Status          string
	Confirmed       bool
	TransportError  *string
	Row             SheetRow
	SubmittedAt     time.Time
}
