package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/attendance"
)

func rec(name, dateTime, status string) attendance.Record {
	return attendance.Record{SalesPersonName: name, DateTime: dateTime, Status: status}
}

func TestMonthLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"31/12/2024 10:15:00", "December 2024", true},
		{"01/01/2025", "January 2025", true},
		{"", "", false},
		{"Date(2024,x,1)", "", false},
		{"01/13/2024 00:00:00", "", false},
		{"01/02/abcd 00:00:00", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := MonthLabel(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply_StatusKeepsOrder(t *testing.T) {
	records := []attendance.Record{
		rec("A", "01/12/2024 09:00:00", "IN"),
		rec("B", "02/12/2024 09:00:00", "OUT"),
		rec("C", "03/12/2024 09:00:00", "Leave"),
		rec("D", "04/12/2024 09:00:00", "OUT"),
	}

	got := Apply(records, attendance.FilterState{Status: "OUT"})
	assert.Equal(t, []attendance.Record{records[1], records[3]}, got)
}

func TestApply_Month(t *testing.T) {
	records := []attendance.Record{
		rec("A", "31/12/2024 09:00:00", "IN"),
		rec("A", "01/12/2023 09:00:00", "IN"),
		rec("A", "15/11/2024 09:00:00", "IN"),
		rec("A", "05/12/2024 18:00:00", "OUT"),
		rec("A", "", "Leave"),
	}

	got := Apply(records, attendance.FilterState{Month: "December 2024"})
	assert.Equal(t, []attendance.Record{records[0], records[3]}, got)
}

func TestApply_NameIsCaseInsensitiveSubstring(t *testing.T) {
	records := []attendance.Record{
		rec("Budi Santoso", "", "IN"),
		rec("BUDIMAN", "", "IN"),
		rec("Siti", "", "IN"),
		rec("", "", "IN"),
	}

	got := Apply(records, attendance.FilterState{Name: "budi"})
	assert.Equal(t, []attendance.Record{records[0], records[1]}, got)
}

func TestApply_CombinedAndEmpty(t *testing.T) {
	records := []attendance.Record{
		rec("Alice", "31/12/2024 09:00:00", "IN"),
		rec("Alice", "31/12/2024 17:00:00", "OUT"),
		rec("Bob", "31/12/2024 09:00:00", "IN"),
	}

	assert.Equal(t, records, Apply(records, attendance.FilterState{}))

	got := Apply(records, attendance.FilterState{Name: "ALI", Status: "IN", Month: "December 2024"})
	assert.Equal(t, []attendance.Record{records[0]}, got)

	// the input is never modified
	assert.Equal(t, "Alice", records[0].SalesPersonName)
	assert.Len(t, records, 3)
}

func TestNameOptions(t *testing.T) {
	records := []attendance.Record{
		rec("bob", "", ""),
		rec("Alice", "", ""),
		rec("Bob", "", ""),
		rec("Alice", "", ""),
		rec("", "", ""),
	}
	assert.Equal(t, []string{"Alice", "Bob", "bob"}, NameOptions(records))
}

func TestMonthOptions_NewestFirst(t *testing.T) {
	records := []attendance.Record{
		rec("A", "10/03/2024 09:00:00", "IN"),
		rec("A", "02/01/2025 09:00:00", "IN"),
		rec("A", "20/12/2024 09:00:00", "IN"),
		rec("A", "21/12/2024 09:00:00", "OUT"),
		rec("A", "not a date", "IN"),
	}
	assert.Equal(t, []string{"January 2025", "December 2024", "March 2024"}, MonthOptions(records))
}
