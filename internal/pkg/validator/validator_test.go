package validator

import (
	"testing"
	"time"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"IN", "OUT", "Leave"}
	if !IsInSlice("IN", slice) {
		t.Errorf("IsInSlice('IN') = false, want true")
	}
	if IsInSlice("leave", slice) {
		t.Errorf("IsInSlice('leave') = true, want false")
	}
}

func TestParseDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31", " 2024-02-29 "}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		if _, err := ParseDate(s); err != nil {
			t.Errorf("ParseDate(%q) error = %v, want nil", s, err)
		}
	}
	for _, s := range invalid {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) error = nil, want error", s)
		}
	}
}

func TestDate_Before(t *testing.T) {
	a, _ := ParseDate("2024-05-01")
	b, _ := ParseDate("2024-05-02")
	if !a.Before(b) {
		t.Errorf("2024-05-01 should be before 2024-05-02")
	}
	if b.Before(a) || a.Before(a) {
		t.Errorf("Before must be strict")
	}
}

func TestDate_In(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	d, _ := ParseDate("2024-05-01")
	got := d.In(loc)
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("Date.In() = %v, want %v", got, want)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "status", Message: "required"},
		{Field: "reason", Message: "required"},
	}
	got := errs.Error()
	want := "status: required; reason: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "start_date", Message: "Start date is required"},
		{Field: "reason", Message: "Reason is required for leave"},
	}
	got := errs.ToMap()
	want := map[string]string{"start_date": "Start date is required", "reason": "Reason is required for leave"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}
