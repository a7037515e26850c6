package utils

import (
	"fmt"
	"strconv"
)

const mapSearchURL = "https://www.google.com/maps/search/?api=1&query="

// FormatCoordinates renders a coordinate pair with six decimals, used wherever a
// human-readable address is not available.
func FormatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lon)
}

// MapLink builds a Google Maps search link for a coordinate pair.
func MapLink(lat, lon float64) string {
	return mapSearchURL + formatFloat(lat) + "," + formatFloat(lon)
}

// ValidCoordinates reports whether lat/lon are within WGS84 bounds.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
