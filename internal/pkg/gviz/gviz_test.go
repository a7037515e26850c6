package gviz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wrappedResponse = `/*O_o*/
google.visualization.Query.setResponse({"version":"0.6","reqId":"0","status":"ok","table":{"cols":[{"id":"A","label":"Timestamp","type":"datetime"}],"rows":[{"c":[{"v":"Date(2024,11,31,10,15,0)","f":"31/12/2024 10:15:00"},null,{"v":"IN"}]},{"c":[{"v":42.5}]}]}});`

func TestExtractJSON(t *testing.T) {
	payload, err := ExtractJSON([]byte(`prefix({"a":{"b":1}});`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"b":1}}`, string(payload))

	_, err = ExtractJSON([]byte("no json here"))
	assert.ErrorIs(t, err, ErrNoPayload)

	_, err = ExtractJSON([]byte("} reversed {"))
	assert.ErrorIs(t, err, ErrNoPayload)
}

func TestDecode(t *testing.T) {
	rows, err := Decode([]byte(wrappedResponse))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Date(2024,11,31,10,15,0)", rows[0].Value(0))
	assert.Nil(t, rows[0].Value(1), "null cell")
	assert.Equal(t, "IN", rows[0].Value(2))
	assert.Nil(t, rows[0].Value(9), "short row")
	assert.Nil(t, rows[0].Value(-1))
	assert.Equal(t, 42.5, rows[1].Value(0))
}

func TestDecode_MissingTableIsEmpty(t *testing.T) {
	cases := []string{
		`setResponse({"status":"error","errors":[{"reason":"invalid_query"}]});`,
		`setResponse({"status":"ok","table":{"cols":[]}});`,
		`setResponse({"status":"ok","table":{"cols":[],"rows":[]}});`,
	}
	for _, body := range cases {
		rows, err := Decode([]byte(body))
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	}
}

func TestDecode_MalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`setResponse({"table": {"rows": [}});`))
	assert.Error(t, err)
}

func TestParseDateLiteral(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"Date(2024,11,31,10,15,0)", time.Date(2024, time.December, 31, 10, 15, 0, 0, time.UTC)},
		{"Date(2024,0,15)", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)},
		{"Date(2024, 0, 15, 9)", time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)},
		{"Date(2024,1,30,0,0,0)", time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got, err := ParseDateLiteral(c.in, time.UTC)
		require.NoError(t, err, c.in)
		assert.True(t, c.want.Equal(got), "%s: got %v want %v", c.in, got, c.want)
	}
}

func TestParseDateLiteral_Errors(t *testing.T) {
	invalid := []string{"2024-01-01", "Date()", "Date(2024,1)", "Date(2024,x,1)", "Date(1,2,3,4,5,6,7,8)"}
	for _, s := range invalid {
		_, err := ParseDateLiteral(s, time.UTC)
		assert.Error(t, err, s)
	}
}

func TestFormatDisplay(t *testing.T) {
	ts, err := ParseDateLiteral("Date(2024,11,31,10,15,0)", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "31/12/2024 10:15:00", FormatDisplay(ts))
}

func TestParseTimestamp(t *testing.T) {
	ts, ok := ParseTimestamp("15/01/2024 09:30:00", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC), ts)

	_, ok = ParseTimestamp("not a date", time.UTC)
	assert.False(t, ok)

	_, ok = ParseTimestamp("Date(2024,x,1)", time.UTC)
	assert.False(t, ok)
}

func TestClient_Rows(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sheet-id/gviz/tq", r.URL.Path)
		assert.Equal(t, "out:json", r.URL.Query().Get("tqx"))
		assert.Equal(t, "Attendance", r.URL.Query().Get("sheet"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(wrappedResponse))
	}))
	defer ts.Close()

	client := NewClient(ts.URL+"/", "sheet-id", "test-agent", time.Second)
	rows, err := client.Rows(context.Background(), "Attendance")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestClient_Query_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "sheet-id", "", time.Second)
	body, err := client.Query(context.Background(), "Attendance")
	assert.Nil(t, body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
