package sensor

import (
	"fmt"
	"strconv"
	"strings"
)

const percentOfMaximum = "% of maximum"

// ParseFanSpeed reads "60% of maximum", "60%" or "60" as a percentage of
// maximum fan speed.
func ParseFanSpeed(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, percentOfMaximum)
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")

	speed, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || speed < 0 {
		return 0, fmt.Errorf("%w: fan speed %q", ErrMalformed, raw)
	}
	return speed, nil
}
