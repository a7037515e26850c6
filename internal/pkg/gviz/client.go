package gviz

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResponseSize bounds how much of a query reply is read.
const maxResponseSize = 32 << 20

// Client queries one spreadsheet through its public tabular query endpoint.
type Client struct {
	HTTPClient    *http.Client
	BaseURL       string
	SpreadsheetID string
	UserAgent     string
}

// NewClient creates a Client with the given request timeout.
func NewClient(baseURL, spreadsheetID, userAgent string, timeout time.Duration) *Client {
	return &Client{
		HTTPClient:    &http.Client{Timeout: timeout},
		BaseURL:       strings.TrimRight(baseURL, "/"),
		SpreadsheetID: spreadsheetID,
		UserAgent:     userAgent,
	}
}

// QueryURL builds {base}/{id}/gviz/tq?tqx=out:json&sheet={sheet}.
func (c *Client) QueryURL(sheet string) string {
	q := url.Values{}
	q.Set("tqx", "out:json")
	q.Set("sheet", sheet)
	return fmt.Sprintf("%s/%s/gviz/tq?%s", c.BaseURL, url.PathEscape(c.SpreadsheetID), q.Encode())
}

// Query returns the raw (wrapped) response body for a sheet.
func (c *Client) Query(ctx context.Context, sheet string) ([]byte, error) {
	log := slog.With(slog.String("component", "gviz"), slog.String("sheet", sheet))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.QueryURL(sheet), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error during sheet query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn("Sheet query returned error status", slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("sheet query returned unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet query response: %w", err)
	}

	log.Debug("Sheet query completed", slog.Int("bytes", len(body)))
	return body, nil
}

// Rows queries a sheet and decodes its rows.
func (c *Client) Rows(ctx context.Context, sheet string) ([]Row, error) {
	body, err := c.Query(ctx, sheet)
	if err != nil {
		return nil, err
	}
	return Decode(body)
}
