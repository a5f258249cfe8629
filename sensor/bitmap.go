package sensor

import (
	"fmt"
	"strings"
)

// Bitmap is a presence string as reported by the chassis topology group:
// one character per bay, '1' for present, '0' for absent, bay 1 first.
type Bitmap string

func ParseBitmap(raw string) (Bitmap, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: empty bitmap", ErrMalformed)
	}
	for _, c := range s {
		if c != '0' && c != '1' {
			return "", fmt.Errorf("%w: bitmap %q", ErrMalformed, raw)
		}
	}
	return Bitmap(s), nil
}

// Set reports whether bay (1-based) is marked present.
func (b Bitmap) Set(bay int) bool {
	return bay >= 1 && bay <= len(b) && b[bay-1] == '1'
}

// Count returns the number of bays marked present.
func (b Bitmap) Count() int {
	return strings.Count(string(b), "1")
}

// Mismatch holds the bays on which two bitmaps disagree.
type Mismatch struct {
	// installed but not communicating
	Silent []int
	// communicating but not installed
	Unexpected []int
}

func (m Mismatch) Empty() bool {
	return len(m.Silent) == 0 && len(m.Unexpected) == 0
}

// Compare walks installed and communicating bay by bay. A bay is healthy when
// it is set in both or in neither.
func Compare(installed, communicating Bitmap) (Mismatch, error) {
	var m Mismatch
	if len(installed) != len(communicating) {
		return m, fmt.Errorf("%w: bitmap lengths differ (%d installed, %d communicating)",
			ErrMalformed, len(installed), len(communicating))
	}
	for bay := 1; bay <= len(installed); bay++ {
		switch in, up := installed.Set(bay), communicating.Set(bay); {
		case in && !up:
			m.Silent = append(m.Silent, bay)
		case !in && up:
			m.Unexpected = append(m.Unexpected, bay)
		}
	}
	return m, nil
}
