package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseDurationSeconds parses human-readable durations ("90s", "1h30m",
// "1h 15m 30s", bare "120") into whole seconds. Empty, malformed and
// non-positive inputs are always rejected.
func ParseDurationSeconds(s string) (int64, error) {
	cleaned := strings.ToLower(strings.Join(strings.Fields(s), ""))
	if cleaned == "" {
		return 0, errors.New("empty duration")
	}

	if allDigits(cleaned) {
		n, err := strconv.ParseInt(cleaned, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		if n <= 0 {
			return 0, fmt.Errorf("non-positive duration %q", s)
		}
		return n, nil
	}

	var total int64
	i := 0
	for i < len(cleaned) {
		if !isDigit(cleaned[i]) {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		var val int64
		for i < len(cleaned) && isDigit(cleaned[i]) {
			val = val*10 + int64(cleaned[i]-'0')
			i++
		}
		if i == len(cleaned) {
			// Trailing bare number counts as seconds, like "1h30".
			total += val
			break
		}
		switch cleaned[i] {
		case 'h':
			total += val * 3600
		case 'm':
			total += val * 60
		case 's':
			total += val
		default:
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		i++
	}

	if total <= 0 {
		return 0, fmt.Errorf("non-positive duration %q", s)
	}
	return total, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
