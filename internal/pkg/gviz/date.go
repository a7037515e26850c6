package gviz

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DisplayLayout renders timestamps as DD/MM/YYYY HH:MM:SS.
const DisplayLayout = "02/01/2006 15:04:05"

// DayLayout is the date part of DisplayLayout.
const DayLayout = "02/01/2006"

var ErrNotDateLiteral = errors.New("gviz: not a Date(...) literal")

// fallbackLayouts are tried for timestamp cells that are not date literals.
var fallbackLayouts = []string{
	DisplayLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// IsDateLiteral reports whether s has the Date(...) shape.
func IsDateLiteral(s string) bool {
	return strings.HasPrefix(s, "Date(") && strings.HasSuffix(s, ")")
}

// ParseDateLiteral parses Date(year, monthIndex, day[, hour[, minute[, second[, ms]]]]).
// monthIndex is zero-based; missing time components are zero. Out-of-range components
// roll over the way time.Date normalizes them.
func ParseDateLiteral(s string, loc *time.Location) (time.Time, error) {
	if !IsDateLiteral(s) {
		return time.Time{}, ErrNotDateLiteral
	}
	if loc == nil {
		loc = time.Local
	}

	parts := strings.Split(s[len("Date("):len(s)-1], ",")
	if len(parts) < 3 || len(parts) > 7 {
		return time.Time{}, fmt.Errorf("gviz: date literal %q has %d components", s, len(parts))
	}

	var v [7]int
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" && i >= 3 {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return time.Time{}, fmt.Errorf("gviz: date literal %q: %w", s, err)
		}
		v[i] = n
	}

	return time.Date(v[0], time.Month(v[1]+1), v[2], v[3], v[4], v[5], v[6]*int(time.Millisecond), loc), nil
}

// FormatDisplay renders t with DisplayLayout.
func FormatDisplay(t time.Time) string {
	return t.Format(DisplayLayout)
}

// ParseTimestamp accepts a date literal or one of the common textual layouts.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	if IsDateLiteral(raw) {
		t, err := ParseDateLiteral(raw, loc)
		return t, err == nil
	}
	raw = strings.TrimSpace(raw)
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
