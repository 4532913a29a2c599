// Package jsontool implements the JSON formatter and validator tools:
// pretty-printing with configurable indent and optional key sorting,
// compaction, document statistics and syntax validation with line/column
// positions.
package jsontool

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyInput  = errors.New("jsontool: input is empty")
	ErrInvalidJSON = errors.New("jsontool: input is not valid JSON")
)

// DefaultIndent is the indent width used when none is given.
const DefaultIndent = 2

// FormatRequest configures one formatting run.
type FormatRequest struct {
	Input    string
	Indent   int  // spaces per level, default 2
	SortKeys bool // re-emit object keys in sorted order
}

// FormatStats describes the input and both output renderings.
type FormatStats struct {
	OriginalLength   int `json:"original_length"`
	FormattedLength  int `json:"formatted_length"`
	CompressedLength int `json:"compressed_length"`
	KeysCount        int `json:"keys_count"`
}

// FormatResult carries the indented and compacted renderings of a document.
type FormatResult struct {
	Formatted  string      `json:"formatted"`
	Compressed string      `json:"compressed"`
	Stats      FormatStats `json:"stats"`
}

// Format parses the input and returns an indented and a compacted rendering.
// Without SortKeys the original key order is preserved; with it, objects are
// re-emitted with keys sorted lexicographically.
func Format(req FormatRequest) (*FormatResult, error) {
	if strings.TrimSpace(req.Input) == "" {
		return nil, ErrEmptyInput
	}
	indent := req.Indent
	if indent <= 0 {
		indent = DefaultIndent
	}

	var doc any
	if err := json.Unmarshal([]byte(req.Input), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	var formatted, compressed []byte
	if req.SortKeys {
		// Marshal of a decoded document emits object keys sorted.
		var err error
		formatted, err = json.MarshalIndent(doc, "", strings.Repeat(" ", indent))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		compressed, err = json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
	} else {
		// Indent and Compact work on the raw bytes and keep key order.
		var fb, cb bytes.Buffer
		if err := json.Indent(&fb, []byte(req.Input), "", strings.Repeat(" ", indent)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		if err := json.Compact(&cb, []byte(req.Input)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		formatted, compressed = fb.Bytes(), cb.Bytes()
	}

	return &FormatResult{
		Formatted:  string(formatted),
		Compressed: string(compressed),
		Stats: FormatStats{
			OriginalLength:   len(req.Input),
			FormattedLength:  len(formatted),
			CompressedLength: len(compressed),
			KeysCount:        countKeys(doc),
		},
	}, nil
}

// countKeys counts object keys recursively through objects and arrays.
func countKeys(v any) int {
	switch val := v.(type) {
	case map[string]any:
		n := len(val)
		for _, child := range val {
			n += countKeys(child)
		}
		return n
	case []any:
		n := 0
		for _, child := range val {
			n += countKeys(child)
		}
		return n
	default:
		return 0
	}
}

// ValidateResult reports whether a document parses, and where it broke if not.
type ValidateResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// Validate checks the input for JSON syntax errors. An invalid document is
// not an error: the result carries the parser message and the 1-based
// line/column of the failure.
func Validate(input string) (*ValidateResult, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyInput
	}

	var doc any
	err := json.Unmarshal([]byte(input), &doc)
	if err == nil {
		return &ValidateResult{Valid: true, Message: "valid JSON"}, nil
	}

	res := &ValidateResult{Valid: false, Error: err.Error()}
	var offset int64 = -1
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	}
	if offset >= 0 {
		res.Line, res.Column = lineColumn(input, offset)
	}
	return res, nil
}

// lineColumn converts a byte offset into 1-based line and column numbers.
func lineColumn(s string, offset int64) (line, col int) {
	if offset > int64(len(s)) {
		offset = int64(len(s))
	}
	prefix := s[:offset]
	line = 1 + strings.Count(prefix, "\n")
	if idx := strings.LastIndexByte(prefix, '\n'); idx >= 0 {
		col = len(prefix) - idx
	} else {
		col = len(prefix) + 1
	}
	return line, col
}
