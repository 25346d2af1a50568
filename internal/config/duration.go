package config

import (
	"fmt"
	"strings"
	"time"
)

// Duration-valued knobs (fetch timeout, poll period, long-poll timeout) are
// Go duration strings so they pass through the strict decoder as plain
// strings. Empty means unset; negatives are rejected since every consumer is
// a timeout or an interval.

func ParseDurationField(field, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", field, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", field)
	}
	return d, nil
}

// ParseDurationOrDefault substitutes def for an unset field, so the getters
// on Config keep a zero-value config usable.
func ParseDurationOrDefault(field, raw string, def time.Duration) (time.Duration, error) {
	d, err := ParseDurationField(field, raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return def, nil
	}
	return d, nil
}
