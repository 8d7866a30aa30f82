package ramadan

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"ramadan-taqwim/internal/timings"
)

// test2026 is the shipped Bangladesh override: Ramadan day 1 on 19-02-2026.
func test2026() map[int]StartOverride {
	return map[int]StartOverride{
		2026: {StartGregorian: "19-02-2026", HijriYear: 1447, DayCount: 30},
	}
}

// rawDay builds a day as the normalizer would emit it from the API, i.e.
// carrying the feed's own Hijri labeling.
func rawDay(dateGregorian string, hijriMonth, hijriDay int, holidays ...string) timings.DayTiming {
	d := timings.DayTiming{
		DateGregorian: dateGregorian,
		HijriMonth:    hijriMonth,
		HijriDay:      hijriDay,
		HijriYear:     1447,
		Holidays:      holidays,
	}
	if hijriMonth == 9 {
		d.IsRamadan = true
		d.RamadanDay = hijriDay
	}
	return d
}

// shiftDate returns a DD-MM-YYYY date offset by days from 19-02-2026.
func shiftDate(t *testing.T, days int) string {
	t.Helper()
	base := time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC)
	d := base.AddDate(0, 0, days)
	return fmt.Sprintf("%02d-%02d-%d", d.Day(), int(d.Month()), d.Year())
}

// ---------------------------------------------------------------------------
// Ramadan day numbering
// ---------------------------------------------------------------------------

func TestApply_RamadanDayNumbering(t *testing.T) {
	e := NewEngine(test2026())

	tests := []struct {
		name           string
		date           string
		wantRamadan    bool
		wantRamadanDay int
	}{
		{"local start is day 1", "19-02-2026", true, 1},
		{"mid month", "17-03-2026", true, 27},
		{"last fasting day is day 30", "20-03-2026", true, 30},
		{"day after Ramadan is not Ramadan", "21-03-2026", false, 0},
		{"day before start is not Ramadan", "18-02-2026", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Feed Hijri labels deliberately disagree with the local
			// calendar; the override must win regardless.
			in := rawDay(tt.date, 9, 15)
			got := e.Apply([]timings.DayTiming{in})[0]

			if got.IsRamadan != tt.wantRamadan {
				t.Errorf("IsRamadan = %v, want %v", got.IsRamadan, tt.wantRamadan)
			}
			if got.RamadanDay != tt.wantRamadanDay {
				t.Errorf("RamadanDay = %d, want %d", got.RamadanDay, tt.wantRamadanDay)
			}
			if tt.wantRamadan {
				if got.HijriMonth != 9 || got.HijriDay != tt.wantRamadanDay || got.HijriYear != 1447 {
					t.Errorf("hijri = %d/%d/%d, want 9/%d/1447",
						got.HijriMonth, got.HijriDay, got.HijriYear, tt.wantRamadanDay)
				}
				wantDisplay := fmt.Sprintf("%d Ramaḍān 1447", tt.wantRamadanDay)
				if got.HijriDisplay != wantDisplay {
					t.Errorf("HijriDisplay = %q, want %q", got.HijriDisplay, wantDisplay)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Transition rules
// ---------------------------------------------------------------------------

func TestApply_ShawwalLagDecrement(t *testing.T) {
	e := NewEngine(test2026())

	// Day after Ramadan (diff == 30) where the API is already on Shawwal 2:
	// the API runs a day ahead of local sighting.
	in := rawDay("21-03-2026", 10, 2)
	in.DateGregorian = "21-03-2026"

	// diff for 21-03 is 30.
	got := e.Apply([]timings.DayTiming{in})[0]

	if got.HijriMonth != 10 || got.HijriDay != 1 {
		t.Errorf("hijri = %d/%d, want Shawwal 1", got.HijriMonth, got.HijriDay)
	}
	if got.HijriDisplay != "1 Shawwāl 1447" {
		t.Errorf("HijriDisplay = %q", got.HijriDisplay)
	}
	if got.IsRamadan || got.RamadanDay != 0 {
		t.Error("Ramadan flags not cleared")
	}
}

func TestApply_ShawwalNotDecrementedOnDayOne(t *testing.T) {
	e := NewEngine(test2026())

	// Same diff but the API already agrees (Shawwal 1): leave it alone.
	in := rawDay("21-03-2026", 10, 1)
	got := e.Apply([]timings.DayTiming{in})[0]

	if got.HijriDay != 1 {
		t.Errorf("HijriDay = %d, want 1 untouched", got.HijriDay)
	}
}

func TestApply_EarlyRamadanForcedBackToShaban(t *testing.T) {
	e := NewEngine(test2026())

	// API marks 18-02 (diff -1) as Ramadan 1: force back to Sha'ban 30.
	in := rawDay("18-02-2026", 9, 1)
	got := e.Apply([]timings.DayTiming{in})[0]

	if got.HijriMonth != 8 || got.HijriDay != 30 {
		t.Errorf("hijri = %d/%d, want Sha'ban 30", got.HijriMonth, got.HijriDay)
	}
	if got.HijriDisplay != "30 Shaʿbān 1447" {
		t.Errorf("HijriDisplay = %q", got.HijriDisplay)
	}
	if got.IsRamadan || got.RamadanDay != 0 {
		t.Error("Ramadan flags not cleared")
	}
}

func TestApply_NoStructuralChangeOutsideTransitions(t *testing.T) {
	e := NewEngine(test2026())

	// diff -10: far before Ramadan, API labels pass through.
	in := rawDay("09-02-2026", 8, 21)
	got := e.Apply([]timings.DayTiming{in})[0]

	if got.HijriMonth != 8 || got.HijriDay != 21 {
		t.Errorf("hijri = %d/%d, want 8/21 untouched", got.HijriMonth, got.HijriDay)
	}
}

// ---------------------------------------------------------------------------
// Holiday derivation
// ---------------------------------------------------------------------------

func TestApply_LaylatAlQadrPlacement(t *testing.T) {
	e := NewEngine(test2026())

	// 17-03-2026 is diff 26: the night between day 27 and 28.
	in := rawDay("17-03-2026", 9, 26, "Lailat-ul-Qadr (estimated)", "Some Other Day")
	got := e.Apply([]timings.DayTiming{in})[0]

	want := []string{"Laylat al-Qadr", "Some Other Day"}
	if !reflect.DeepEqual(got.Holidays, want) {
		t.Errorf("Holidays = %v, want %v", got.Holidays, want)
	}
}

func TestApply_LaylatStrippedOffPlacementDay(t *testing.T) {
	e := NewEngine(test2026())

	// The API placed Laylat al-Qadr a day early (diff 25): strip it,
	// derive nothing.
	in := rawDay("16-03-2026", 9, 25, "Lailat-ul-Qadr")
	got := e.Apply([]timings.DayTiming{in})[0]

	if len(got.Holidays) != 0 {
		t.Errorf("Holidays = %v, want empty off the placement day", got.Holidays)
	}
}

func TestApply_EidAlFitrPlacement(t *testing.T) {
	e := NewEngine(test2026())

	// 21-03-2026 is diff 30 == dayCount: Eid.
	in := rawDay("21-03-2026", 10, 1, "Eid-ul-Fitr")
	got := e.Apply([]timings.DayTiming{in})[0]

	want := []string{"Eid al-Fitr"}
	if !reflect.DeepEqual(got.Holidays, want) {
		t.Errorf("Holidays = %v, want %v", got.Holidays, want)
	}
	if got.IsRamadan {
		t.Error("Eid day must not be a Ramadan day")
	}
}

func TestApply_HolidayDedup(t *testing.T) {
	tests := []struct {
		name string
		date string
		in   []string
		want []string
	}{
		{
			"case-insensitive with whitespace, override year",
			"10-02-2026", // diff -9, no structural change
			[]string{"Shab-e-Barat", " shab-e-barat ", "Shab-e-Barat"},
			[]string{"Shab-e-Barat"},
		},
		{
			"non-override year still dedups",
			"10-02-2025",
			[]string{"Some Day", "some day"},
			[]string{"Some Day"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(test2026())
			in := rawDay(tt.date, 8, 12, tt.in...)
			got := e.Apply([]timings.DayTiming{in})[0]
			if !reflect.DeepEqual(got.Holidays, tt.want) {
				t.Errorf("Holidays = %v, want %v", got.Holidays, tt.want)
			}
		})
	}
}

func TestApply_UnknownLabelsNeverDropped(t *testing.T) {
	e := NewEngine(test2026())

	in := rawDay("01-03-2026", 9, 11, "Completely Unknown Occasion")
	got := e.Apply([]timings.DayTiming{in})[0]

	if len(got.Holidays) != 1 || got.Holidays[0] != "Completely Unknown Occasion" {
		t.Errorf("Holidays = %v, want the unknown label preserved verbatim", got.Holidays)
	}
}

// ---------------------------------------------------------------------------
// Structural properties
// ---------------------------------------------------------------------------

func TestApply_Idempotent(t *testing.T) {
	e := NewEngine(test2026())

	var days []timings.DayTiming
	for i := -3; i <= 32; i++ {
		days = append(days, rawDay(shiftDate(t, i), 9, i+1, "Lailat-ul-Qadr"))
	}

	once := e.Apply(days)
	twice := e.Apply(once)

	if !reflect.DeepEqual(once, twice) {
		t.Error("Apply is not idempotent")
	}
}

func TestApply_YearWithoutOverridePassesThrough(t *testing.T) {
	e := NewEngine(test2026())

	in := rawDay("19-02-2025", 9, 21)
	got := e.Apply([]timings.DayTiming{in})[0]

	if got.HijriMonth != 9 || got.HijriDay != 21 || !got.IsRamadan || got.RamadanDay != 21 {
		t.Errorf("unexpected rewrite for unconfigured year: %+v", got)
	}
}

func TestApply_PreservesOrderAndLength(t *testing.T) {
	e := NewEngine(test2026())

	days := []timings.DayTiming{
		rawDay("18-02-2026", 8, 30),
		rawDay("19-02-2026", 9, 1),
		rawDay("20-02-2026", 9, 2),
	}
	got := e.Apply(days)

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, d := range got {
		if d.DateGregorian != days[i].DateGregorian {
			t.Errorf("order changed at %d: %s", i, d.DateGregorian)
		}
	}
}

func TestDayNumber_TimezoneStable(t *testing.T) {
	// The diff must come from UTC epoch days, never local time.
	a := dayNumber("19-02-2026")
	b := dayNumber("20-02-2026")
	if b-a != 1 {
		t.Errorf("consecutive dates differ by %d days, want 1", b-a)
	}
	if dayNumber("garbage") != 0 {
		t.Errorf("malformed date should yield 0")
	}
}
