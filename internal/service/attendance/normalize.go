package attendance

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/sheet-attendance/internal/domain/user"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/gviz"
)

// cellString renders a gviz cell value as text; nil becomes "".
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// Normalize maps every row to a Record. Rows are never dropped: a short or malformed
// row yields empty fields.
func Normalize(rows []gviz.Row, loc *time.Location) []attendance.Record {
	records := make([]attendance.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, normalizeRow(row, loc))
	}
	return records
}

func normalizeRow(row gviz.Row, loc *time.Location) attendance.Record {
	raw := cellString(row.Value(attendance.ColTimestamp))

	record := attendance.Record{
		SalesPersonName:   cellString(row.Value(attendance.ColSalesPerson)),
		DateTime:          cellString(row.Value(attendance.ColDateTime)),
		Status:            cellString(row.Value(attendance.ColStatus)),
		MapLink:           cellString(row.Value(attendance.ColMapLink)),
		Address:           cellString(row.Value(attendance.ColAddress)),
		OriginalTimestamp: raw,
	}

	if gviz.IsDateLiteral(raw) {
		record.DateTime = displayDate(raw, loc)
	} else if gviz.IsDateLiteral(record.DateTime) {
		record.DateTime = displayDate(record.DateTime, loc)
	}

	if ts, ok := gviz.ParseTimestamp(raw, loc); ok {
		record.Timestamp = ts
	}

	return record
}

// displayDate renders a Date(...) literal, keeping the raw text when it does not parse.
func displayDate(literal string, loc *time.Location) string {
	t, err := gviz.ParseDateLiteral(literal, loc)
	if err != nil {
		slog.Debug("Keeping unparsable date literal",
			slog.String("component", "normalizer"),
			slog.String("value", literal),
			slog.Any("error", err),
		)
		return literal
	}
	return gviz.FormatDisplay(t)
}

// SortNewestFirst returns a copy of records ordered by parsed timestamp, latest first.
// Records without a parsable timestamp keep their relative order at the end.
func SortNewestFirst(records []attendance.Record) []attendance.Record {
	sorted := make([]attendance.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Timestamp, sorted[j].Timestamp
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})
	return sorted
}

// TodayFor keeps the records of name whose date part equals now's calendar day.
func TodayFor(records []attendance.Record, name string, now time.Time) []attendance.Record {
	day := now.Format(gviz.DayLayout)
	today := make([]attendance.Record, 0)
	for _, r := range records {
		if r.SalesPersonName == name && r.Day() == day {
			today = append(today, r)
		}
	}
	return today
}

// VisibleTo returns every record for an admin, otherwise only the caller's own.
func VisibleTo(records []attendance.Record, who user.Identity) []attendance.Record {
	visible := make([]attendance.Record, 0, len(records))
	for _, r := range records {
		if who.IsAdmin() || r.SalesPersonName == who.SalesPersonName {
			visible = append(visible, r)
		}
	}
	return visible
}
