// Package timeutil provides clock-string arithmetic for prayer times.
//
// All prayer times flow through the system as "HH:mm" strings in local wall
// time; this package converts between those strings, minute-of-day offsets,
// and display forms. Every function is pure -- callers that need "now" pass
// it in explicitly.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// MinutesPerDay is the span of one civil day in minutes.
const MinutesPerDay = 24 * 60

// StripTimezone removes a trailing parenthesized annotation from a time
// string: "05:05 (+06)" -> "05:05". Idempotent on already-clean input.
func StripTimezone(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "("); i != -1 && strings.HasSuffix(s, ")") {
		s = strings.TrimSpace(s[:i])
	}
	return s
}

// ParseTimeToMinutes parses an "HH:mm" string into minutes since local
// midnight. It returns an error on malformed or empty input; callers are
// expected to guard empty prayer fields before calling.
func ParseTimeToMinutes(s string) (int, error) {
	s = StripTimezone(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time format: %q", s)
	}

	var hour, min int
	if _, err := fmt.Sscanf(parts[0], "%d", &hour); err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &min); err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return 0, fmt.Errorf("time out of range: %q", s)
	}

	return hour*60 + min, nil
}

// MinuteOfDay returns t's minute-of-day (0..1439).
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// SinceMidnight returns the duration elapsed since t's local midnight,
// at second precision.
func SinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}

// FormatRemaining renders a countdown duration as "Xh Ym Zs", dropping
// leading zero units: sub-hour renders "Ym Zs", sub-minute renders "Zs".
// Non-positive durations clamp to "0m 0s".
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return "0m 0s"
	}
	total := int(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// FormatClock renders an "HH:mm" string in the requested display format.
// "24h" is a passthrough; "12h" converts with 12-hour wraparound (00 -> 12,
// 13 -> 1) and an AM/PM suffix. Unparsable input is returned unchanged so
// blank or malformed fields render as-is.
func FormatClock(hhmm, format string) string {
	if format != "12h" {
		return hhmm
	}

	min, err := ParseTimeToMinutes(hhmm)
	if err != nil {
		return hhmm
	}

	h := min / 60
	m := min % 60
	ampm := "AM"
	if h >= 12 {
		ampm = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, ampm)
}
