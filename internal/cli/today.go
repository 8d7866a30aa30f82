package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ramadan-taqwim/internal/config"
	"ramadan-taqwim/internal/countdown"
	"ramadan-taqwim/internal/display"
	"ramadan-taqwim/internal/timeutil"
	"ramadan-taqwim/internal/timings"
)

func runToday(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)
	ctx := context.Background()

	svc, closeStore := buildService(ctx, cfg)
	defer closeStore()

	now := time.Now()
	mt, idx, prevIsha, err := loadToday(ctx, svc, cfg, now)
	if err != nil {
		return err
	}

	day := mt.Days[idx]
	next := countdown.GetNextPrayer(day, prevIsha, now)
	si := countdown.GetSehriIftar(day, prevIsha, now)

	if FlagJSON {
		return printTodayJSON(day, next, si, cfg)
	}

	printTodayRich(day, next, si, cfg, now)
	return nil
}

// printTodayRich renders the colored terminal output for today's schedule.
func printTodayRich(day timings.DayTiming, next *countdown.NextPrayer, si *countdown.SehriIftar, cfg *config.Config, now time.Time) {
	fmt.Println()
	fmt.Printf("  %s\n", display.Bold("Ramadan Taqwim"))
	fmt.Println()
	fmt.Printf("  %s, %s\n", cfg.City, config.Country)
	fmt.Printf("  %s (%s)\n", day.DateReadable, day.Weekday)

	hijriLine := day.HijriDisplay
	if day.IsRamadan {
		hijriLine += fmt.Sprintf("  ·  Ramadan day %d", day.RamadanDay)
		fmt.Printf("  %s\n", display.Ramadan(hijriLine))
	} else {
		fmt.Printf("  %s\n", hijriLine)
	}

	for _, h := range day.Holidays {
		fmt.Printf("  %s\n", display.Ramadan("★ "+h))
	}

	fmt.Println()
	printHero(day, next, si, cfg.TimeFormat)
	fmt.Println()

	// Prayer rows: past dimmed, next accented with countdown.
	for _, name := range timings.PrayerNames {
		clock := day.Prayers.Get(name)
		line := fmt.Sprintf("  %-8s %s", name, timeutil.FormatClock(clock, cfg.TimeFormat))

		switch {
		case countdown.IsNextPrayer(name, next):
			fmt.Println(display.Accent(line) + display.Accent("  <- next in "+next.RemainingDisplay))
		case clock != "" && countdown.IsPrayerPast(clock, now):
			fmt.Println(display.Dim(line))
		default:
			fmt.Println(line)
		}
	}

	if day.IsRamadan {
		fmt.Println()
		fmt.Printf("  %s %s (%s)\n", display.Bold("Sehri ends"),
			timeutil.FormatClock(day.Prayers.SehriEnds, cfg.TimeFormat), day.Prayers.SehriEndsLabel)
		fmt.Printf("  %s      %s (Maghrib)\n", display.Bold("Iftar"),
			timeutil.FormatClock(day.Prayers.Iftar, cfg.TimeFormat))
	}

	fmt.Println()
}

// printHero renders the countdown hero: the fasting-window countdown during
// Ramadan, the next-prayer countdown otherwise.
func printHero(day timings.DayTiming, next *countdown.NextPrayer, si *countdown.SehriIftar, timeFormat string) {
	switch {
	case si != nil:
		fmt.Printf("  %s %s\n", display.Ramadan(si.Label), display.Bold(si.RemainingDisplay))
		fmt.Printf("  %s  %s -> %s\n", display.Bar(si.Progress, 24),
			timeutil.FormatClock(si.StartTime, timeFormat),
			timeutil.FormatClock(si.TargetTime, timeFormat))
	case next != nil:
		fmt.Printf("  %s %s\n", display.Accent("Next: "+next.Name), display.Bold(next.RemainingDisplay))
		fmt.Printf("  %s  %s -> %s\n", display.Bar(next.Progress, 24),
			timeutil.FormatClock(next.PrevTime, timeFormat),
			timeutil.FormatClock(next.Time, timeFormat))
	default:
		fmt.Printf("  %s\n", display.Dim("All prayers completed for today"))
	}
}

// todayJSON is the JSON output structure for the root command.
type todayJSON struct {
	City       string                `json:"city"`
	Country    string                `json:"country"`
	Date       string                `json:"date"`
	Weekday    string                `json:"weekday"`
	Hijri      string                `json:"hijri"`
	IsRamadan  bool                  `json:"isRamadan"`
	RamadanDay int                   `json:"ramadanDay,omitempty"`
	Holidays   []string              `json:"holidays"`
	Timings    map[string]string     `json:"timings"`
	SehriEnds  string                `json:"sehriEnds"`
	Iftar      string                `json:"iftar"`
	Next       *countdown.NextPrayer `json:"next"`
	SehriIftar *countdown.SehriIftar `json:"sehriIftar"`
}

func printTodayJSON(day timings.DayTiming, next *countdown.NextPrayer, si *countdown.SehriIftar, cfg *config.Config) error {
	t := make(map[string]string, len(timings.PrayerNames))
	for _, name := range timings.PrayerNames {
		t[strings.ToLower(name)] = timeutil.FormatClock(day.Prayers.Get(name), cfg.TimeFormat)
	}

	out := todayJSON{
		City:       cfg.City,
		Country:    config.Country,
		Date:       day.DateReadable,
		Weekday:    day.Weekday,
		Hijri:      day.HijriDisplay,
		IsRamadan:  day.IsRamadan,
		RamadanDay: day.RamadanDay,
		Holidays:   day.Holidays,
		Timings:    t,
		SehriEnds:  timeutil.FormatClock(day.Prayers.SehriEnds, cfg.TimeFormat),
		Iftar:      timeutil.FormatClock(day.Prayers.Iftar, cfg.TimeFormat),
		Next:       next,
		SehriIftar: si,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
