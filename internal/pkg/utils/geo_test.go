package utils

import "testing"

func TestFormatCoordinates(t *testing.T) {
	got := FormatCoordinates(12.9715987, 77.594566)
	if got != "12.971599, 77.594566" {
		t.Errorf("FormatCoordinates() = %q", got)
	}
}

func TestMapLink(t *testing.T) {
	got := MapLink(12.5, -0.25)
	want := "https://www.google.com/maps/search/?api=1&query=12.5,-0.25"
	if got != want {
		t.Errorf("MapLink() = %q, want %q", got, want)
	}
}

func TestValidCoordinates(t *testing.T) {
	cases := []struct {
		lat, lon float64
		want     bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{90.1, 0, false},
		{0, -180.5, false},
	}
	for _, c := range cases {
		if got := ValidCoordinates(c.lat, c.lon); got != c.want {
			t.Errorf("ValidCoordinates(%v, %v) = %v, want %v", c.lat, c.lon, got, c.want)
		}
	}
}
