package jsontool

import (
	"errors"
	"strings"
	"testing"
)

func TestFormat_DefaultIndent(t *testing.T) {
	t.Parallel()

	res, err := Format(FormatRequest{Input: `{"b":1,"a":2}`})
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}
	// json.Indent keeps key order and puts a space after each colon.
	want := "{\n  \"b\": 1,\n  \"a\": 2\n}"
	if res.Formatted != want {
		t.Fatalf("formatted = %q, want %q", res.Formatted, want)
	}
	if res.Compressed != `{"b":1,"a":2}` {
		t.Fatalf("compressed = %q", res.Compressed)
	}
}

func TestFormat_PreservesKeyOrderByDefault(t *testing.T) {
	t.Parallel()

	res, err := Format(FormatRequest{Input: `{"z":1,"a":2}`})
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}
	if strings.Index(res.Formatted, `"z"`) > strings.Index(res.Formatted, `"a"`) {
		t.Fatalf("key order changed: %q", res.Formatted)
	}
}

func TestFormat_SortKeys(t *testing.T) {
	t.Parallel()

	res, err := Format(FormatRequest{Input: `{"z":1,"a":2}`, SortKeys: true})
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}
	if strings.Index(res.Formatted, `"a"`) > strings.Index(res.Formatted, `"z"`) {
		t.Fatalf("keys not sorted: %q", res.Formatted)
	}
	if res.Compressed != `{"a":2,"z":1}` {
		t.Fatalf("compressed = %q", res.Compressed)
	}
}

func TestFormat_CustomIndent(t *testing.T) {
	t.Parallel()

	res, err := Format(FormatRequest{Input: `{"a":1}`, Indent: 4})
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}
	if !strings.Contains(res.Formatted, "\n    \"a\"") {
		t.Fatalf("formatted = %q, want 4-space indent", res.Formatted)
	}
}

func TestFormat_Stats(t *testing.T) {
	t.Parallel()

	input := `{"a":{"b":1},"list":[{"c":2},{"d":3}]}`
	res, err := Format(FormatRequest{Input: input})
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}
	// a, b, list, c, d
	if res.Stats.KeysCount != 5 {
		t.Fatalf("keys_count = %d, want 5", res.Stats.KeysCount)
	}
	if res.Stats.OriginalLength != len(input) {
		t.Fatalf("original_length = %d", res.Stats.OriginalLength)
	}
	if res.Stats.FormattedLength != len(res.Formatted) || res.Stats.CompressedLength != len(res.Compressed) {
		t.Fatalf("stats = %+v", res.Stats)
	}
}

func TestFormat_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := Format(FormatRequest{Input: "  "})
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got: %v", err)
	}
}

func TestFormat_InvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := Format(FormatRequest{Input: `{"a":`})
	if !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got: %v", err)
	}
}

func TestValidate_Valid(t *testing.T) {
	t.Parallel()

	res, err := Validate(`{"a":[1,2,3]}`)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if !res.Valid || res.Error != "" {
		t.Fatalf("result = %+v", res)
	}
}

func TestValidate_InvalidWithPosition(t *testing.T) {
	t.Parallel()

	res, err := Validate("{\n  \"a\": 1,\n  \"b\" 2\n}")
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if res.Valid {
		t.Fatal("expected invalid result")
	}
	if res.Error == "" {
		t.Fatal("expected parser message")
	}
	if res.Line != 3 {
		t.Fatalf("line = %d, want 3", res.Line)
	}
	if res.Column <= 0 {
		t.Fatalf("column = %d, want positive", res.Column)
	}
}

func TestValidate_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := Validate("")
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got: %v", err)
	}
}
