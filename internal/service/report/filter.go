package report

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/attendance"
)

const monthLabelLayout = "January 2006"

// MonthLabel turns the DD/MM/YYYY prefix of dateTime into "MonthName Year".
// It reports false when the prefix does not carry a valid month and year.
func MonthLabel(dateTime string) (string, bool) {
	day, _, _ := strings.Cut(dateTime, " ")
	parts := strings.Split(day, "/")
	if len(parts) != 3 {
		return "", false
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return "", false
	}
	year := strings.TrimSpace(parts[2])
	if _, err := strconv.Atoi(year); err != nil {
		return "", false
	}

	return time.Month(month).String() + " " + year, true
}

// Apply returns the records matching every non-empty filter field, in input order.
func Apply(records []attendance.Record, filters attendance.FilterState) []attendance.Record {
	filtered := make([]attendance.Record, 0, len(records))
	if filters.IsEmpty() {
		return append(filtered, records...)
	}

	fold := cases.Fold()
	name := fold.String(filters.Name)

	for _, r := range records {
		if filters.Name != "" && !strings.Contains(fold.String(r.SalesPersonName), name) {
			continue
		}
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		if filters.Month != "" {
			label, ok := MonthLabel(r.DateTime)
			if !ok || label != filters.Month {
				continue
			}
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// NameOptions lists the distinct submitter names, sorted.
func NameOptions(records []attendance.Record) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, r := range records {
		if r.SalesPersonName == "" {
			continue
		}
		if _, ok := seen[r.SalesPersonName]; ok {
			continue
		}
		seen[r.SalesPersonName] = struct{}{}
		names = append(names, r.SalesPersonName)
	}
	sort.Strings(names)
	return names
}

// MonthOptions lists the distinct month labels, most recent month first.
func MonthOptions(records []attendance.Record) []string {
	seen := make(map[string]time.Time)
	for _, r := range records {
		label, ok := MonthLabel(r.DateTime)
		if !ok {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		t, err := time.Parse(monthLabelLayout, label)
		if err != nil {
			continue
		}
		seen[label] = t
	}
	return sortMonths(seen)
}

func sortMonths(months map[string]time.Time) []string {
	labels := make([]string, 0, len(months))
	for label := range months {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return months[labels[i]].After(months[labels[j]])
	})
	return labels
}
