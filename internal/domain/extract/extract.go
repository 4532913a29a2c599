package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyInput     = errors.New("extract: input is empty")
	ErrNoFields       = errors.New("extract: no fields specified")
	ErrMalformedInput = errors.New("extract: input is not valid JSON")
)

// Request describes one extraction run.
type Request struct {
	Input        string   // raw JSON text
	Fields       []string // path strings; see SplitFields for the comma form
	OutputFormat string   // "csv" (default) or "txt"
	Separator    string   // TXT multi-field separator, default tab
}

// Stats summarizes an extraction: how many rows were produced and, per field
// path, in how many rows a value was found or missing.
type Stats struct {
	TotalRecords  int            `json:"total_records"`
	FieldsCount   int            `json:"fields_count"`
	FieldsFound   map[string]int `json:"fields_found"`
	FieldsMissing map[string]int `json:"fields_missing"`
}

// Response is a successful extraction result.
type Response struct {
	Rows         []Row  `json:"results"`
	Output       string `json:"output"`
	OutputFormat string `json:"output_format"`
	Stats        Stats  `json:"stats"`
}

// SplitFields turns a comma-separated field list into path strings,
// dropping empty entries.
func SplitFields(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Extract parses the input document, resolves every field path and serializes
// the aligned rows in the requested format.
func Extract(req Request) (*Response, error) {
	if strings.TrimSpace(req.Input) == "" {
		return nil, ErrEmptyInput
	}
	if len(req.Fields) == 0 {
		return nil, ErrNoFields
	}

	var doc any
	if err := json.Unmarshal([]byte(req.Input), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	paths := make([]Path, len(req.Fields))
	for i, f := range req.Fields {
		paths[i] = ParsePath(f)
	}

	rows := buildRows(doc, paths)

	format := strings.ToLower(req.OutputFormat)
	if format == "" {
		format = "csv"
	}
	var output string
	if format == "txt" {
		output = toTXT(rows, paths, req.Separator)
	} else {
		format = "csv"
		output = toCSV(rows, paths)
	}

	stats := Stats{
		TotalRecords:  len(rows),
		FieldsCount:   len(paths),
		FieldsFound:   make(map[string]int, len(paths)),
		FieldsMissing: make(map[string]int, len(paths)),
	}
	for _, p := range paths {
		found := 0
		for _, row := range rows {
			if row[p.Raw] != nil {
				found++
			}
		}
		stats.FieldsFound[p.Raw] = found
		stats.FieldsMissing[p.Raw] = len(rows) - found
	}

	return &Response{
		Rows:         rows,
		Output:       output,
		OutputFormat: format,
		Stats:        stats,
	}, nil
}
