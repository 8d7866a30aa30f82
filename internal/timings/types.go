// Package timings defines the canonical day-timing model and the
// normalizer that maps raw Al Adhan day records onto it.
package timings

import "time"

// PrayerNames lists the six canonical prayers/events in chronological order.
// The countdown engine iterates them in exactly this order.
var PrayerNames = []string{"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha"}

// NormalizedPrayers holds the six canonical clock times plus the two
// derived fasting-window fields. All values are "HH:mm" local wall time
// with any timezone suffix stripped; an empty string means unknown.
type NormalizedPrayers struct {
	Fajr    string `json:"Fajr"`
	Sunrise string `json:"Sunrise"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`

	// SehriEnds mirrors Fajr (or Imsak under the imsak-if-present policy);
	// SehriEndsLabel records which source was used.
	SehriEnds      string `json:"SehriEnds"`
	SehriEndsLabel string `json:"SehriEndsLabel"`
	// Iftar mirrors Maghrib.
	Iftar string `json:"Iftar"`
}

// Get returns the clock time for a canonical prayer name, or "" for an
// unknown name.
func (p NormalizedPrayers) Get(name string) string {
	switch name {
	case "Fajr":
		return p.Fajr
	case "Sunrise":
		return p.Sunrise
	case "Dhuhr":
		return p.Dhuhr
	case "Asr":
		return p.Asr
	case "Maghrib":
		return p.Maghrib
	case "Isha":
		return p.Isha
	default:
		return ""
	}
}

// DayTiming is the canonical per-day record the rest of the system
// operates on. It is immutable once built; the Ramadan override stage
// returns corrected copies rather than mutating in place.
type DayTiming struct {
	DateGregorian string `json:"dateGregorian"` // DD-MM-YYYY, natural key within a month
	DateReadable  string `json:"dateReadable"`  // "19 Feb 2026"
	Timestamp     int64  `json:"timestamp"`     // epoch seconds for the day
	Weekday       string `json:"weekday"`

	HijriDisplay string `json:"hijriDisplay"` // "1 Ramaḍān 1447"
	HijriMonth   int    `json:"hijriMonth"`   // 1-12; 9 is Ramadan
	HijriDay     int    `json:"hijriDay"`
	HijriYear    int    `json:"hijriYear"`

	IsRamadan  bool `json:"isRamadan"`
	RamadanDay int  `json:"ramadanDay,omitempty"` // 1-based; 0 unless IsRamadan

	Holidays []string `json:"holidays"`

	Prayers NormalizedPrayers `json:"prayers"`
}

// MonthTimings is an ordered sequence of canonical days for one calendar
// month, tagged with its cache key and fetch instant. Created once by a
// successful fetch+normalize+override pipeline and read-only afterward;
// a refresh supersedes the whole value.
type MonthTimings struct {
	CacheKey  string      `json:"cacheKey"`
	FetchedAt time.Time   `json:"fetchedAt"`
	Days      []DayTiming `json:"days"`
}
