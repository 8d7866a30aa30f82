package timings

import (
	"fmt"
	"strconv"

	"ramadan-taqwim/internal/api"
	"ramadan-taqwim/internal/timeutil"
)

// SehriPolicy selects which raw field defines the end of Sehri.
type SehriPolicy string

const (
	// SehriAtFajr marks Sehri as ending at Fajr.
	//
	// Imsak (stopping ~10 min before Fajr) has no basis in the Sunnah:
	// "Eat and drink until the white thread of dawn appears to you
	//  distinct from the black thread of night." [al-Baqarah 2:187]
	SehriAtFajr SehriPolicy = "fajr"

	// SehriAtImsak honors the API's Imsak field when it is present,
	// parseable and not the "00:00" sentinel, falling back to Fajr.
	SehriAtImsak SehriPolicy = "imsak-if-present"
)

// Normalizer converts raw API day records into canonical DayTimings.
type Normalizer struct {
	Sehri SehriPolicy
}

// NewNormalizer returns a Normalizer with the given Sehri policy;
// an empty or unknown policy falls back to SehriAtFajr.
func NewNormalizer(policy SehriPolicy) Normalizer {
	if policy != SehriAtImsak {
		policy = SehriAtFajr
	}
	return Normalizer{Sehri: policy}
}

// NormalizeDay converts one raw API day record into a canonical DayTiming.
// Malformed numeric fields degrade to zero values rather than failing the
// day; empty time strings stay empty and downstream consumers tolerate them.
func (n Normalizer) NormalizeDay(raw api.CalendarDay) DayTiming {
	t := raw.Timings
	hijri := raw.Date.Hijri
	greg := raw.Date.Gregorian

	fajr := timeutil.StripTimezone(t.Fajr)

	prayers := NormalizedPrayers{
		Fajr:           fajr,
		Sunrise:        timeutil.StripTimezone(t.Sunrise),
		Dhuhr:          timeutil.StripTimezone(t.Dhuhr),
		Asr:            timeutil.StripTimezone(t.Asr),
		Maghrib:        timeutil.StripTimezone(t.Maghrib),
		Isha:           timeutil.StripTimezone(t.Isha),
		SehriEnds:      fajr,
		SehriEndsLabel: "Fajr",
		Iftar:          timeutil.StripTimezone(t.Maghrib),
	}

	if n.Sehri == SehriAtImsak {
		if imsak := timeutil.StripTimezone(t.Imsak); usableImsak(imsak) {
			prayers.SehriEnds = imsak
			prayers.SehriEndsLabel = "Imsak"
		}
	}

	// Union of primary and adjusted holiday lists, order preserved.
	// Deduplication happens in the override stage.
	holidays := make([]string, 0, len(hijri.Holidays)+len(hijri.AdjustedHolidays))
	holidays = append(holidays, hijri.Holidays...)
	holidays = append(holidays, hijri.AdjustedHolidays...)

	hijriDay := parseIntLoose(hijri.Day)
	hijriYear := parseIntLoose(hijri.Year)

	day := DayTiming{
		DateGregorian: greg.Date,
		DateReadable:  raw.Date.Readable,
		Timestamp:     parseInt64Loose(raw.Date.Timestamp),
		Weekday:       greg.Weekday.En,
		HijriDisplay:  fmt.Sprintf("%s %s %s", hijri.Day, hijri.Month.En, hijri.Year),
		HijriMonth:    hijri.Month.Number,
		HijriDay:      hijriDay,
		HijriYear:     hijriYear,
		Holidays:      holidays,
		Prayers:       prayers,
	}

	if hijri.Month.Number == 9 {
		day.IsRamadan = true
		day.RamadanDay = hijriDay
	}

	return day
}

// NormalizeDays maps NormalizeDay over a raw month.
func (n Normalizer) NormalizeDays(raw []api.CalendarDay) []DayTiming {
	days := make([]DayTiming, len(raw))
	for i, r := range raw {
		days[i] = n.NormalizeDay(r)
	}
	return days
}

// usableImsak reports whether an Imsak value can serve as the Sehri cutoff.
func usableImsak(imsak string) bool {
	if imsak == "" || imsak == "00:00" {
		return false
	}
	_, err := timeutil.ParseTimeToMinutes(imsak)
	return err == nil
}

// parseIntLoose parses a base-10 integer, returning 0 on malformed input.
func parseIntLoose(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func parseInt64Loose(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
