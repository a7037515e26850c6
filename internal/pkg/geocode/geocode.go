// Package geocode resolves coordinates to a display address through a Nominatim-style
// reverse geocoding service.
package geocode

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"

	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/utils"
)

// Resolver turns a coordinate pair into a human-readable address. Resolve never fails:
// when no address can be found it returns the formatted coordinates.
type Resolver interface {
	Resolve(ctx context.Context, lat, lon float64) string
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
}

// Nominatim queries {base}/reverse?format=json&lat=..&lon=..&addressdetails=1.
type Nominatim struct {
	client    *http.Client
	baseURL   string
	userAgent string
	group     singleflight.Group
}

func NewNominatim(baseURL, userAgent string, timeout time.Duration) *Nominatim {
	return &Nominatim{
		client:    &http.Client{Timeout: timeout},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
	}
}

// Resolve implements Resolver. Concurrent lookups of the same coordinates share one request.
func (n *Nominatim) Resolve(ctx context.Context, lat, lon float64) string {
	fallback := utils.FormatCoordinates(lat, lon)

	v, err, _ := n.group.Do(fallback, func() (interface{}, error) {
		return n.lookup(ctx, lat, lon)
	})
	if err != nil {
		slog.Warn("Reverse geocoding failed, using coordinates",
			slog.String("component", "geocode"),
			slog.Any("error", err),
		)
		return fallback
	}

	address, _ := v.(string)
	if address == "" {
		return fallback
	}
	return address
}

func (n *Nominatim) lookup(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("network error during reverse geocoding: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocoder returned unexpected status: %d", resp.StatusCode)
	}

	var body nominatimResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode geocoder response: %w", err)
	}
	return body.DisplayName, nil
}

// Coordinates is a Resolver that never leaves the process.
type Coordinates struct{}

func (Coordinates) Resolve(_ context.Context, lat, lon float64) string {
	return utils.FormatCoordinates(lat, lon)
}
