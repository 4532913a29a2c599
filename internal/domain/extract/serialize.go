package extract

import (
	"encoding/json"
	"strings"
)

// DefaultSeparator joins multi-field TXT rows when no separator is configured.
const DefaultSeparator = "\t"

// formatValue renders one resolved value as output text. Absent values render
// empty, booleans as true/false, strings verbatim, and everything else
// (numbers, objects, arrays) as compact JSON.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

// toCSV renders rows as CSV with a header of the literal path strings.
// A field is quoted only when it contains a comma, newline or double quote;
// embedded quotes are doubled.
func toCSV(rows []Row, paths []Path) string {
	if len(rows) == 0 {
		return ""
	}

	headers := make([]string, len(paths))
	for i, p := range paths {
		headers[i] = p.Raw
	}

	var b strings.Builder
	b.WriteString(strings.Join(headers, ","))
	for _, row := range rows {
		b.WriteByte('\n')
		for i, p := range paths {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(csvField(formatValue(row[p.Raw])))
		}
	}
	return b.String()
}

func csvField(v string) string {
	if !strings.ContainsAny(v, ",\n\"") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// toTXT renders rows as plain text: a single path emits one value per line,
// multiple paths join each row's values with the separator.
func toTXT(rows []Row, paths []Path, separator string) string {
	if len(rows) == 0 {
		return ""
	}
	if separator == "" {
		separator = DefaultSeparator
	}

	lines := make([]string, 0, len(rows))
	if len(paths) == 1 {
		for _, row := range rows {
			lines = append(lines, formatValue(row[paths[0].Raw]))
		}
	} else {
		cells := make([]string, len(paths))
		for _, row := range rows {
			for i, p := range paths {
				cells[i] = formatValue(row[p.Raw])
			}
			lines = append(lines, strings.Join(cells, separator))
		}
	}
	return strings.Join(lines, "\n")
}
