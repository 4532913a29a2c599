// Package convert implements the unit and number-base converter tools.
package convert

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrUnknownCategory = errors.New("convert: unsupported category")
	ErrUnknownUnit     = errors.New("convert: unknown unit")
	ErrEmptyValue      = errors.New("convert: value is empty")
)

// lengthUnits maps each length unit to its size in meters.
var lengthUnits = map[string]float64{
	"meter":      1,
	"kilometer":  1000,
	"centimeter": 0.01,
	"millimeter": 0.001,
	"mile":       1609.344,
	"yard":       0.9144,
	"foot":       0.3048,
	"inch":       0.0254,
}

// weightUnits maps each weight unit to its size in kilograms.
var weightUnits = map[string]float64{
	"kilogram":  1,
	"gram":      0.001,
	"milligram": 0.000001,
	"ton":       1000,
	"pound":     0.453592,
	"ounce":     0.0283495,
}

var temperatureUnits = []string{"celsius", "fahrenheit", "kelvin"}

// UnitResult carries a converted value and a human-readable formula line.
type UnitResult struct {
	Result  float64 `json:"result"`
	Formula string  `json:"formula"`
}

// Unit converts a value between two units of the given category. Length and
// weight go through their base unit (meter, kilogram) and round to 6 decimal
// places; temperature goes through Celsius and rounds to 2.
func Unit(value float64, fromUnit, toUnit, category string) (*UnitResult, error) {
	var (
		result float64
		err    error
	)
	switch strings.ToLower(category) {
	case "length":
		result, err = linearConvert(value, fromUnit, toUnit, lengthUnits)
	case "weight":
		result, err = linearConvert(value, fromUnit, toUnit, weightUnits)
	case "temperature":
		result, err = temperatureConvert(value, fromUnit, toUnit)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	if err != nil {
		return nil, err
	}

	return &UnitResult{
		Result:  result,
		Formula: fmt.Sprintf("%s %s = %s %s", trimFloat(value), fromUnit, trimFloat(result), toUnit),
	}, nil
}

// SupportedUnits lists the accepted unit names per category.
func SupportedUnits() map[string][]string {
	length := make([]string, 0, len(lengthUnits))
	for u := range lengthUnits {
		length = append(length, u)
	}
	weight := make([]string, 0, len(weightUnits))
	for u := range weightUnits {
		weight = append(weight, u)
	}
	temperature := make([]string, len(temperatureUnits))
	copy(temperature, temperatureUnits)
	return map[string][]string{
		"length":      length,
		"weight":      weight,
		"temperature": temperature,
	}
}

func linearConvert(value float64, fromUnit, toUnit string, factors map[string]float64) (float64, error) {
	from, ok := factors[strings.ToLower(fromUnit)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, fromUnit)
	}
	to, ok := factors[strings.ToLower(toUnit)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, toUnit)
	}
	return roundTo(value*from/to, 6), nil
}

func temperatureConvert(value float64, fromUnit, toUnit string) (float64, error) {
	var celsius float64
	switch strings.ToLower(fromUnit) {
	case "celsius":
		celsius = value
	case "fahrenheit":
		celsius = (value - 32) * 5 / 9
	case "kelvin":
		celsius = value - 273.15
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, fromUnit)
	}

	var result float64
	switch strings.ToLower(toUnit) {
	case "celsius":
		result = celsius
	case "fahrenheit":
		result = celsius*9/5 + 32
	case "kelvin":
		result = celsius + 273.15
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, toUnit)
	}
	return roundTo(result, 2), nil
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// trimFloat renders a float without trailing zeros for formula strings.
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
