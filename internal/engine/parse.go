package engine

import (
	"strconv"
	"strings"
)

var weekdayShort = [SlotCount]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// SlotName returns the short weekday name of a slot index.
func SlotName(idx int) string {
	if idx < 0 || idx >= SlotCount {
		return "?"
	}
	return weekdayShort[idx]
}

// ParseSlot parses user input to a slot index.
// Supported: 0..6, or weekday names ("mon", "monday", ...).
func ParseSlot(input string) (int, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= SlotCount {
			return 0, SlotRangeError{Index: n}
		}
		return n, nil
	}
	switch s {
	case "mon", "monday":
		return 0, nil
	case "tue", "tues", "tuesday":
		return 1, nil
	case "wed", "wednesday":
		return 2, nil
	case "thu", "thur", "thurs", "thursday":
		return 3, nil
	case "fri", "friday":
		return 4, nil
	case "sat", "saturday":
		return 5, nil
	case "sun", "sunday":
		return 6, nil
	default:
		return 0, SlotParseError{Input: input}
	}
}

// ParseTypes splits comma-separated tags and flattens repeated flags.
func ParseTypes(inputs []string) []string {
	var out []string
	for _, in := range inputs {
		for _, part := range strings.Split(in, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
