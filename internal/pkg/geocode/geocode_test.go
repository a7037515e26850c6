package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNominatim_Resolve_DisplayName(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "12.5", r.URL.Query().Get("lat"))
		assert.Equal(t, "77.25", r.URL.Query().Get("lon"))
		assert.Equal(t, "agent/1", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"display_name":"MG Road, Bengaluru"}`))
	}))
	defer ts.Close()

	n := NewNominatim(ts.URL, "agent/1", time.Second)
	assert.Equal(t, "MG Road, Bengaluru", n.Resolve(context.Background(), 12.5, 77.25))
}

func TestNominatim_Resolve_Fallbacks(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"missing display_name", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
		}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ts := httptest.NewServer(c.handler)
			defer ts.Close()

			n := NewNominatim(ts.URL, "", time.Second)
			assert.Equal(t, "12.500000, 77.250000", n.Resolve(context.Background(), 12.5, 77.25))
		})
	}
}

func TestNominatim_Resolve_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	n := NewNominatim(url, "", 200*time.Millisecond)
	assert.Equal(t, "1.000000, 2.000000", n.Resolve(context.Background(), 1, 2))
}

func TestCoordinates_Resolve(t *testing.T) {
	assert.Equal(t, "-1.500000, 2.000000", Coordinates{}.Resolve(context.Background(), -1.5, 2))
}
