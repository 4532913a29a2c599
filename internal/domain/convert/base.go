package convert

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnsupportedBase = errors.New("convert: only bases 2, 8, 10 and 16 are supported")
	ErrInvalidDigits   = errors.New("convert: value is not valid in the given base")
)

// BaseResult carries a base-converted value, its decimal form and a
// human-readable formula line.
type BaseResult struct {
	Result       string `json:"result"`
	DecimalValue int64  `json:"decimal_value"`
	Formula      string `json:"formula"`
}

// AllBasesResult renders one value in every supported base.
type AllBasesResult struct {
	Decimal     string `json:"decimal"`
	Binary      string `json:"binary"`
	Octal       string `json:"octal"`
	Hexadecimal string `json:"hexadecimal"`
}

func validBase(b int) bool {
	return b == 2 || b == 8 || b == 10 || b == 16
}

// formatBase renders a decimal value in the target base; hex comes out
// uppercase.
func formatBase(v int64, base int) string {
	s := strconv.FormatInt(v, base)
	if base == 16 {
		return strings.ToUpper(s)
	}
	return s
}

func parseBase(value string, base int) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), base, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q in base %d", ErrInvalidDigits, value, base)
	}
	return v, nil
}

// Base converts a numeral between two of the bases 2, 8, 10 and 16.
func Base(value string, fromBase, toBase int) (*BaseResult, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, ErrEmptyValue
	}
	if !validBase(fromBase) || !validBase(toBase) {
		return nil, ErrUnsupportedBase
	}

	decimal, err := parseBase(value, fromBase)
	if err != nil {
		return nil, err
	}
	result := formatBase(decimal, toBase)

	return &BaseResult{
		Result:       result,
		DecimalValue: decimal,
		Formula:      fmt.Sprintf("%s(%d) = %s(%d)", value, fromBase, result, toBase),
	}, nil
}

// AllBases converts a numeral into binary, octal, decimal and hexadecimal at
// once.
func AllBases(value string, fromBase int) (*AllBasesResult, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, ErrEmptyValue
	}
	if !validBase(fromBase) {
		return nil, ErrUnsupportedBase
	}

	decimal, err := parseBase(value, fromBase)
	if err != nil {
		return nil, err
	}

	return &AllBasesResult{
		Decimal:     strconv.FormatInt(decimal, 10),
		Binary:      formatBase(decimal, 2),
		Octal:       formatBase(decimal, 8),
		Hexadecimal: formatBase(decimal, 16),
	}, nil
}
