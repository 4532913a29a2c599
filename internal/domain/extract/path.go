// Package extract implements the field-path resolution engine: a small path
// grammar (dotted fields, array indexes, array broadcast), resolution of
// parsed paths against JSON-like documents, and CSV/TXT serialization of the
// aligned results.
package extract

import "strconv"

// TokenKind discriminates path tokens.
type TokenKind int

const (
	// TokenField accesses a key on an object.
	TokenField TokenKind = iota
	// TokenIndex accesses a zero-based array position.
	TokenIndex
	// TokenBroadcast expands an array into one output per element.
	TokenBroadcast
)

// Token is one step of a parsed path.
type Token struct {
	Kind  TokenKind
	Name  string // TokenField only
	Index int    // TokenIndex only
}

// Path is a parsed, immutable field path, reusable across documents.
type Path struct {
	Raw    string
	Tokens []Token
}

// HasBroadcast reports whether the path contains a `[]` token.
func (p Path) HasBroadcast() bool {
	for _, t := range p.Tokens {
		if t.Kind == TokenBroadcast {
			return true
		}
	}
	return false
}

// ParsePath tokenizes a path string like "body.items[2].id" or "items[].id".
// Parsing is pure and never fails: the grammar matches identifiers, "[N]" and
// "[]", and skips anything else. A non-numeric bracket segment such as "[x]"
// is therefore not an index: its brackets are ignored and "x" lexes as a
// field name.
func ParsePath(raw string) Path {
	var tokens []Token
	for i := 0; i < len(raw); {
		c := raw[i]
		switch {
		case isIdentStart(c):
			j := i + 1
			for j < len(raw) && isIdentPart(raw[j]) {
				j++
			}
			tokens = append(tokens, Token{Kind: TokenField, Name: raw[i:j]})
			i = j
		case c == '[':
			if tok, width, ok := scanBracket(raw[i:]); ok {
				tokens = append(tokens, tok)
				i += width
			} else {
				i++ // unmatched fragment: skip the bracket alone
			}
		default:
			i++
		}
	}
	return Path{Raw: raw, Tokens: tokens}
}

// scanBracket matches "[]" or "[digits]" at the start of s.
func scanBracket(s string) (Token, int, bool) {
	if len(s) >= 2 && s[1] == ']' {
		return Token{Kind: TokenBroadcast}, 2, true
	}
	j := 1
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == 1 || j >= len(s) || s[j] != ']' {
		return Token{}, 0, false
	}
	n, err := strconv.Atoi(s[1:j])
	if err != nil {
		return Token{}, 0, false
	}
	return Token{Kind: TokenIndex, Index: n}, j + 1, true
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
