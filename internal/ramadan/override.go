// Package ramadan corrects API-supplied Hijri calendar labels against a
// locally authoritative moon-sighting date.
//
// Calendar authorities behind the raw feed can be a day or two off from
// local moon-sighting observation. Rather than trusting the feed's
// month/day labels during Ramadan, the engine re-derives every
// Ramadan-relevant fact (day number, month identity, special occasions)
// from one configured local start date per Gregorian year, leaving all
// other months untouched.
package ramadan

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ramadan-taqwim/internal/timings"
)

// Hijri month numbers relevant to the override rules.
const (
	monthShaban  = 8
	monthRamadan = 9
	monthShawwal = 10
)

// Display month names, matching the Al Adhan English transliterations.
const (
	nameShaban  = "Shaʿbān"
	nameRamadan = "Ramaḍān"
	nameShawwal = "Shawwāl"
)

// laylatDiff is the day offset (0-indexed from the local start) whose
// evening is Laylat al-Qadr: the night between Ramadan day 27 and 28.
const laylatDiff = 26

// Canonical special-occasion labels.
const (
	LaylatAlQadr = "Laylat al-Qadr"
	EidAlFitr    = "Eid al-Fitr"
)

// StartOverride is one locally known Ramadan start, configured per
// Gregorian year. Static data, never mutated at runtime.
type StartOverride struct {
	StartGregorian string // DD-MM-YYYY
	HijriYear      int
	DayCount       int // typically 29 or 30
}

// DefaultOverrides returns the shipped Bangladesh moon-sighting table.
// 2026 Ramadan day 1 is locally 19-02-2026.
func DefaultOverrides() map[int]StartOverride {
	return map[int]StartOverride{
		2026: {StartGregorian: "19-02-2026", HijriYear: 1447, DayCount: 30},
	}
}

// Engine applies start overrides to canonical day sequences. The table is
// explicit engine state so tests and alternate locales can supply their own.
type Engine struct {
	overrides map[int]StartOverride
}

// NewEngine creates an Engine over the given per-year override table.
func NewEngine(overrides map[int]StartOverride) *Engine {
	if overrides == nil {
		overrides = map[int]StartOverride{}
	}
	return &Engine{overrides: overrides}
}

// Apply rewrites the Hijri fields and holiday lists of a day sequence
// against the configured local start dates. It is pure and
// order-preserving; days in years without an override pass through with
// only holiday deduplication. Applying it twice yields the same result as
// once: every rule keys off the Gregorian diff, not the fields it rewrites.
func (e *Engine) Apply(days []timings.DayTiming) []timings.DayTiming {
	out := make([]timings.DayTiming, len(days))
	for i, d := range days {
		out[i] = e.applyDay(d)
	}
	return out
}

func (e *Engine) applyDay(day timings.DayTiming) timings.DayTiming {
	override, ok := e.overrideFor(day.DateGregorian)
	if !ok {
		day.Holidays = dedupeHolidays(day.Holidays)
		return day
	}

	diff := dayNumber(day.DateGregorian) - dayNumber(override.StartGregorian)

	switch {
	case diff >= 0 && diff < override.DayCount:
		// Within Ramadan by the local calendar.
		ramadanDay := diff + 1
		day.HijriMonth = monthRamadan
		day.HijriDay = ramadanDay
		day.HijriYear = override.HijriYear
		day.HijriDisplay = fmt.Sprintf("%d %s %d", ramadanDay, nameRamadan, override.HijriYear)
		day.IsRamadan = true
		day.RamadanDay = ramadanDay

	case diff == override.DayCount && day.HijriMonth == monthShawwal && day.HijriDay > 1:
		// Day after Ramadan with the API one day ahead in Shawwal: pull the
		// Shawwal day back so the sighting offset doesn't create a phantom day.
		day.HijriDay--
		day.HijriYear = override.HijriYear
		day.HijriDisplay = fmt.Sprintf("%d %s %d", day.HijriDay, nameShawwal, override.HijriYear)
		day.IsRamadan = false
		day.RamadanDay = 0

	case diff == -1 && day.HijriMonth == monthRamadan && day.HijriDay == 1:
		// API believes Ramadan started a day early: force the day back to
		// Sha'ban 30 so calendar labels stay consistent.
		day.HijriMonth = monthShaban
		day.HijriDay = 30
		day.HijriYear = override.HijriYear
		day.HijriDisplay = fmt.Sprintf("30 %s %d", nameShaban, override.HijriYear)
		day.IsRamadan = false
		day.RamadanDay = 0
	}

	day.Holidays = deriveHolidays(day.Holidays, diff, override.DayCount)
	return day
}

// overrideFor looks up the override for a DD-MM-YYYY date's Gregorian year.
func (e *Engine) overrideFor(dateGregorian string) (StartOverride, bool) {
	parts := strings.Split(dateGregorian, "-")
	if len(parts) != 3 {
		return StartOverride{}, false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return StartOverride{}, false
	}
	o, ok := e.overrides[year]
	return o, ok
}

// dayNumber converts a DD-MM-YYYY string to a UTC epoch-day integer.
// Date-only, no time-of-day component: the comparison is timezone-stable
// and insensitive to local clock time. Malformed input yields 0, which no
// configured start date can be within override range of.
func dayNumber(dateGregorian string) int {
	parts := strings.Split(dateGregorian, "-")
	if len(parts) != 3 {
		return 0
	}
	dd, err1 := strconv.Atoi(parts[0])
	mm, err2 := strconv.Atoi(parts[1])
	yyyy, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0
	}
	t := time.Date(yyyy, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
	return int(t.Unix() / 86400)
}

// deriveHolidays strips Laylat al-Qadr-like and Eid al-Fitr-like labels
// from the list and re-derives the canonical ones purely from the diff.
// Non-special labels pass through verbatim; the combined list is then
// deduplicated.
func deriveHolidays(existing []string, diff, dayCount int) []string {
	var derived []string
	if diff == laylatDiff {
		derived = append(derived, LaylatAlQadr)
	}
	if diff == dayCount {
		derived = append(derived, EidAlFitr)
	}

	var passthrough []string
	for _, h := range existing {
		if isQadrLike(h) || isEidLike(h) {
			continue
		}
		passthrough = append(passthrough, h)
	}

	return dedupeHolidays(append(derived, passthrough...))
}

func isQadrLike(label string) bool {
	l := strings.ToLower(label)
	return strings.Contains(l, "lailat") ||
		strings.Contains(l, "laylat") ||
		strings.Contains(l, "qadr")
}

func isEidLike(label string) bool {
	l := strings.ToLower(label)
	return strings.Contains(l, "eid") || strings.Contains(l, "fitr")
}

// dedupeHolidays trims whitespace and removes case-insensitive duplicates,
// preserving first-seen order. Labels that match no known pattern are kept
// verbatim -- a holiday is never dropped for being unrecognized.
func dedupeHolidays(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		key := strings.ToLower(l)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}
