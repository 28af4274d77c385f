// Package util provides shared helpers for tln: duration parsing for
// flags and config, and timeline label formatting.
package util

import (
	"fmt"
	"strconv"
	"time"
)

// ParseDuration parses human-friendly duration strings.
// Supports: 30s, 5m, 1h, 1d, 1w and standard Go durations (e.g., 1h30m).
//
// Examples:
//   - "30s"   -> 30 seconds
//   - "5m"    -> 5 minutes
//   - "1d"    -> 24 hours
//   - "1h30m" -> 1 hour 30 minutes (standard Go format)
func ParseDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration: %s", s)
	}

	unit := s[len(s)-1]
	value, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		// Not a simple unit, try standard Go duration
		return time.ParseDuration(s)
	}

	switch unit {
	case 's':
		return time.Duration(value) * time.Second, nil
	case 'm':
		return time.Duration(value) * time.Minute, nil
	case 'h':
		return time.Duration(value) * time.Hour, nil
	case 'd':
		return time.Duration(value) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(value) * 7 * 24 * time.Hour, nil
	default:
		return time.ParseDuration(s)
	}
}

// MustParseDuration parses a duration string or panics. Use only for
// values that are guaranteed valid, like built-in defaults.
func MustParseDuration(s string) time.Duration {
	d, err := ParseDuration(s)
	if err != nil {
		panic(fmt.Sprintf("invalid duration %q: %v", s, err))
	}
	return d
}

// FormatOffset renders an offset from the timeline origin as a compact
// ruler label: "1h02m03s", "12.5s", "250ms".
func FormatOffset(d time.Duration) string {
	neg := ""
	if d < 0 {
		neg = "-"
		d = -d
	}
	switch {
	case d >= time.Hour:
		h := d / time.Hour
		m := (d % time.Hour) / time.Minute
		s := (d % time.Minute) / time.Second
		return fmt.Sprintf("%s%dh%02dm%02ds", neg, h, m, s)
	case d >= time.Minute:
		m := d / time.Minute
		s := (d % time.Minute) / time.Second
		return fmt.Sprintf("%s%dm%02ds", neg, m, s)
	case d >= time.Second:
		return fmt.Sprintf("%s%.3gs", neg, float64(d)/float64(time.Second))
	case d >= time.Millisecond:
		return fmt.Sprintf("%s%dms", neg, d/time.Millisecond)
	case d == 0:
		return "0s"
	default:
		return neg + d.String()
	}
}

// FormatSpeed renders a playback speed multiplier: "1x", "2.5x", "-1x".
func FormatSpeed(speed float64) string {
	return fmt.Sprintf("%.4gx", speed)
}
