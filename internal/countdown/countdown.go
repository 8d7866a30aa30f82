// Package countdown computes live next-prayer and Sehri/Iftar countdowns
// from a canonical day record.
//
// Every function is a pure function of (day, previous-day Isha, now);
// nothing reads the wall clock. The surrounding system re-invokes the
// engine on a one-second tick and simply stops calling it to cancel.
package countdown

import (
	"time"

	"ramadan-taqwim/internal/timeutil"
	"ramadan-taqwim/internal/timings"
)

// NextPrayer describes the upcoming prayer at a given instant.
// Ephemeral: recomputed every tick, never persisted.
type NextPrayer struct {
	Name             string        `json:"name"`
	Time             string        `json:"time"`     // "HH:mm"
	PrevTime         string        `json:"prevTime"` // window start, "HH:mm"
	Remaining        time.Duration `json:"-"`
	RemainingMs      int64         `json:"remainingMs"`
	RemainingDisplay string        `json:"remainingDisplay"`
	Progress         float64       `json:"progress"` // 0..1 through the window
}

// SehriIftar describes the state of the day's fasting window.
type SehriIftar struct {
	Label            string        `json:"label"` // "Sehri Ends In" / "Iftar In"
	Type             string        `json:"type"`  // "sehri" / "iftar"
	TargetTime       string        `json:"targetTime"`
	StartTime        string        `json:"startTime"`
	Remaining        time.Duration `json:"-"`
	RemainingMs      int64         `json:"remainingMs"`
	RemainingDisplay string        `json:"remainingDisplay"`
	Progress         float64       `json:"progress"`
}

// GetNextPrayer returns the first prayer strictly after now's time-of-day,
// or nil once Isha has passed (the caller rolls to tomorrow's Fajr with
// tomorrow's day record).
//
// prevIsha is the previous calendar day's Isha time; it anchors the Fajr
// progress window, which crosses midnight. When prevIsha is empty the
// engine falls back to today's Isha -- a documented approximation, close
// enough because consecutive Isha times drift by at most a few minutes.
func GetNextPrayer(day timings.DayTiming, prevIsha string, now time.Time) *NextPrayer {
	nowMin := timeutil.MinuteOfDay(now)
	sinceMidnight := timeutil.SinceMidnight(now)

	prevTime := ""
	for _, name := range timings.PrayerNames {
		clock := day.Prayers.Get(name)
		min, err := timeutil.ParseTimeToMinutes(clock)
		if err != nil {
			// Empty or malformed entry: skip, it can be neither the next
			// prayer nor a usable window boundary.
			continue
		}

		if min > nowMin {
			remaining := time.Duration(min)*time.Minute - sinceMidnight

			start := prevTime
			overnight := start == ""
			if overnight {
				// First prayer of the day: the window starts at the
				// previous day's Isha and crosses midnight.
				start = prevIsha
				if start == "" {
					start = day.Prayers.Isha
				}
			}

			progress := windowProgress(start, min, nowMin, overnight)

			return &NextPrayer{
				Name:             name,
				Time:             clock,
				PrevTime:         start,
				Remaining:        remaining,
				RemainingMs:      remaining.Milliseconds(),
				RemainingDisplay: timeutil.FormatRemaining(remaining),
				Progress:         progress,
			}
		}

		prevTime = clock
	}

	return nil
}

// GetSehriIftar returns the active fasting-window countdown, or nil when
// the day is not in Ramadan or Iftar has passed. prevIsha anchors the
// overnight Sehri window exactly as in GetNextPrayer.
func GetSehriIftar(day timings.DayTiming, prevIsha string, now time.Time) *SehriIftar {
	if !day.IsRamadan {
		return nil
	}

	sehriMin, err := timeutil.ParseTimeToMinutes(day.Prayers.SehriEnds)
	if err != nil {
		return nil
	}
	iftarMin, err := timeutil.ParseTimeToMinutes(day.Prayers.Iftar)
	if err != nil {
		return nil
	}

	nowMin := timeutil.MinuteOfDay(now)
	sinceMidnight := timeutil.SinceMidnight(now)

	switch {
	case nowMin < sehriMin:
		start := prevIsha
		if start == "" {
			start = day.Prayers.Isha // same approximation as the Fajr window
		}
		remaining := time.Duration(sehriMin)*time.Minute - sinceMidnight
		return &SehriIftar{
			Label:            "Sehri Ends In",
			Type:             "sehri",
			TargetTime:       day.Prayers.SehriEnds,
			StartTime:        start,
			Remaining:        remaining,
			RemainingMs:      remaining.Milliseconds(),
			RemainingDisplay: timeutil.FormatRemaining(remaining),
			Progress:         windowProgress(start, sehriMin, nowMin, true),
		}

	case nowMin < iftarMin:
		remaining := time.Duration(iftarMin)*time.Minute - sinceMidnight
		return &SehriIftar{
			Label:            "Iftar In",
			Type:             "iftar",
			TargetTime:       day.Prayers.Iftar,
			StartTime:        day.Prayers.SehriEnds,
			Remaining:        remaining,
			RemainingMs:      remaining.Milliseconds(),
			RemainingDisplay: timeutil.FormatRemaining(remaining),
			Progress:         windowProgress(day.Prayers.SehriEnds, iftarMin, nowMin, false),
		}

	default:
		return nil
	}
}

// IsPrayerPast reports whether a prayer time has passed at minute
// granularity: a prayer is past from the start of its own minute.
func IsPrayerPast(clock string, now time.Time) bool {
	min, err := timeutil.ParseTimeToMinutes(clock)
	if err != nil {
		return false
	}
	return min <= timeutil.MinuteOfDay(now)
}

// IsNextPrayer reports whether the named prayer is the one next counted down.
func IsNextPrayer(name string, next *NextPrayer) bool {
	return next != nil && next.Name == name
}

// windowProgress computes elapsed/span through the [start, target] window,
// clamped to [0, 1]. When wraps is true the window crosses midnight
// (start is yesterday evening), so both span and elapsed are extended by
// the minutes from start to midnight.
func windowProgress(start string, targetMin, nowMin int, wraps bool) float64 {
	startMin, err := timeutil.ParseTimeToMinutes(start)
	if err != nil {
		return 0
	}

	var span, elapsed int
	if wraps {
		span = targetMin + (timeutil.MinutesPerDay - startMin)
		elapsed = nowMin + (timeutil.MinutesPerDay - startMin)
	} else {
		span = targetMin - startMin
		elapsed = nowMin - startMin
	}

	if span <= 0 {
		return 0
	}

	p := float64(elapsed) / float64(span)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
