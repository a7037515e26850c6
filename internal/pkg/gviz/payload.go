// Package gviz reads the Google Visualization ("gviz") tabular query format that a
// published spreadsheet returns from its /gviz/tq endpoint.
package gviz

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// ErrNoPayload is returned when a response body carries no JSON object at all.
var ErrNoPayload = errors.New("gviz: no JSON object in response")

// Response is the JSON document embedded in a tabular query reply.
type Response struct {
	Version string `json:"version"`
	Status  string `json:"status"`
	Table   *Table `json:"table"`
}

type Table struct {
	Cols []Column `json:"cols"`
	Rows []Row    `json:"rows"`
}

type Column struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// Row is positional; cells may be null.
type Row struct {
	C []*Cell `json:"c"`
}

// Cell holds a typed value (string, float64, bool or nil) and its optional formatted text.
type Cell struct {
	V any     `json:"v"`
	F *string `json:"f,omitempty"`
}

// Value returns the value at column i, or nil when the row is shorter or the cell is null.
func (r Row) Value(i int) any {
	if i < 0 || i >= len(r.C) || r.C[i] == nil {
		return nil
	}
	return r.C[i].V
}

// ExtractJSON keeps everything between the first '{' and the last '}' of the body.
// The wrapper around it (the google.visualization.Query.setResponse(...) call) is not validated.
func ExtractJSON(body []byte) ([]byte, error) {
	start := bytes.IndexByte(body, '{')
	end := bytes.LastIndexByte(body, '}')
	if start < 0 || end < start {
		return nil, ErrNoPayload
	}
	return body[start : end+1], nil
}

// Decode strips the wrapper and returns the table rows. A response without a table or
// without rows yields an empty slice.
func Decode(body []byte) ([]Row, error) {
	payload, err := ExtractJSON(body)
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("gviz: decode payload: %w", err)
	}

	if resp.Table == nil || len(resp.Table.Rows) == 0 {
		return []Row{}, nil
	}
	return resp.Table.Rows, nil
}
