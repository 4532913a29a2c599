package extract

// Resolve walks a parsed path against a decoded JSON document and returns the
// matched values, one or many depending on broadcast tokens.
//
// The algorithm keeps a working set of current values, initially just the
// document, and replaces it token by token: a field token maps each object to
// the value at that key (nil for non-objects or missing keys), an index token
// maps each array to the element at that position (nil when out of bounds or
// not an array), and a broadcast token flattens each array's elements into the
// set (a non-array contributes one nil). A path without broadcast tokens
// always yields exactly one value.
func Resolve(doc any, p Path) []any {
	current := []any{doc}
	for _, tok := range p.Tokens {
		next := make([]any, 0, len(current))
		for _, cur := range current {
			switch tok.Kind {
			case TokenField:
				if obj, ok := cur.(map[string]any); ok {
					if v, present := obj[tok.Name]; present {
						next = append(next, v)
						continue
					}
				}
				next = append(next, nil)
			case TokenIndex:
				if arr, ok := cur.([]any); ok && tok.Index >= 0 && tok.Index < len(arr) {
					next = append(next, arr[tok.Index])
				} else {
					next = append(next, nil)
				}
			case TokenBroadcast:
				if arr, ok := cur.([]any); ok {
					next = append(next, arr...)
				} else {
					next = append(next, nil)
				}
			}
		}
		current = next
	}
	return current
}

// resolveOne returns the single value for a path with no broadcast tokens.
func resolveOne(doc any, p Path) any {
	values := Resolve(doc, p)
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

// Row maps original path strings to their resolved value for one output row.
type Row map[string]any

// buildRows produces the aligned extraction rows for a set of paths.
//
// Without any broadcast path the document is projected per top-level element:
// one row per element if the document is an array, a single row otherwise.
// With at least one broadcast path, every path is resolved against the whole
// document and the per-path value lists are zipped to the longest list:
// non-broadcast paths repeat their first value on every row, broadcast paths
// pad missing positions with nil. All paths therefore produce the same row
// count.
func buildRows(doc any, paths []Path) []Row {
	broadcast := false
	for _, p := range paths {
		if p.HasBroadcast() {
			broadcast = true
			break
		}
	}
	if !broadcast {
		return buildPerElementRows(doc, paths)
	}
	return buildZippedRows(doc, paths)
}

func buildPerElementRows(doc any, paths []Path) []Row {
	elements, ok := doc.([]any)
	if !ok {
		elements = []any{doc}
	}
	rows := make([]Row, 0, len(elements))
	for _, el := range elements {
		row := make(Row, len(paths))
		for _, p := range paths {
			row[p.Raw] = resolveOne(el, p)
		}
		rows = append(rows, row)
	}
	return rows
}

func buildZippedRows(doc any, paths []Path) []Row {
	values := make(map[string][]any, len(paths))
	maxLen := 0
	for _, p := range paths {
		v := Resolve(doc, p)
		values[p.Raw] = v
		if len(v) > maxLen {
			maxLen = len(v)
		}
	}

	rows := make([]Row, 0, maxLen)
	for i := 0; i < maxLen; i++ {
		row := make(Row, len(paths))
		for _, p := range paths {
			v := values[p.Raw]
			switch {
			case i < len(v):
				row[p.Raw] = v[i]
			case !p.HasBroadcast() && len(v) > 0:
				row[p.Raw] = v[0]
			default:
				row[p.Raw] = nil
			}
		}
		rows = append(rows, row)
	}
	return rows
}
