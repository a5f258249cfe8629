package sensor

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformed is returned when a raw reading does not have the shape the
// management module documents for it.
var ErrMalformed = errors.New("malformed reading")

const (
	centigrade = "centigrade"
	fahrenheit = "fahrenheit"
)

// ParseTemperature turns a reading such as "24.50 Centigrade" or
// "76.10 Fahrenheit" into degrees Centigrade. A bare number is taken as
// Centigrade.
func ParseTemperature(raw string) (float64, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 || len(fields) > 2 {
		return 0, fmt.Errorf("%w: temperature %q", ErrMalformed, raw)
	}

	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: temperature %q", ErrMalformed, raw)
	}

	if len(fields) == 1 {
		return value, nil
	}

	switch strings.ToLower(fields[1]) {
	case centigrade, "c":
		return value, nil
	case fahrenheit, "f":
		return FahrenheitToCentigrade(value), nil
	default:
		return 0, fmt.Errorf("%w: unknown temperature unit %q", ErrMalformed, fields[1])
	}
}

// FahrenheitToCentigrade converts f to Centigrade. Exactly 32F is nudged to
// 33F first.
func FahrenheitToCentigrade(f float64) float64 {
	if f == 32 {
		f = 33
	}
	return (f - 32) * 5 / 9
}
