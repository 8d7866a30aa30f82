package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ramadan-taqwim/internal/config"
	"ramadan-taqwim/internal/countdown"
	"ramadan-taqwim/internal/display"
	"ramadan-taqwim/internal/schedule"
	"ramadan-taqwim/internal/timeutil"
	"ramadan-taqwim/internal/timings"
)

var flagNextWatch bool

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long:  "Display the next upcoming prayer with a live countdown.\nWith --watch the countdown re-renders once per second.",
		RunE:  runNext,
	}

	cmd.Flags().BoolVar(&flagNextWatch, "watch", false, "Re-render the countdown every second")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
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

	render := func(now time.Time) *countdown.NextPrayer {
		next := countdown.GetNextPrayer(day, prevIsha, now)
		if next == nil {
			// Past Isha: roll to tomorrow's Fajr using tomorrow's record.
			next = rollToTomorrow(ctx, svc, cfg, mt, idx, now)
		}
		return next
	}

	if !flagNextWatch {
		next := render(now)
		if next == nil {
			fmt.Println("All prayers completed for today.")
			return nil
		}
		if FlagJSON {
			data, err := json.MarshalIndent(next, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}
		printNextLine(next, cfg.TimeFormat)
		return nil
	}

	// Watch mode: the one-second evaluation tick. Ctrl-C to stop.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		next := render(time.Now())
		fmt.Print("\r\033[K")
		if next == nil {
			fmt.Print("All prayers completed for today.")
		} else {
			fmt.Printf("%s in %s  %s",
				display.Accent(next.Name), next.RemainingDisplay, display.Bar(next.Progress, 20))
		}
		<-ticker.C
	}
}

// rollToTomorrow finds tomorrow's Fajr countdown once today's Isha has
// passed, loading the next month when today is the month's last day.
// Returns nil when tomorrow's data can't be found.
func rollToTomorrow(ctx context.Context, svc *schedule.Service, cfg *config.Config, mt *timings.MonthTimings, idx int, now time.Time) *countdown.NextPrayer {
	prevIsha := mt.Days[idx].Prayers.Isha

	var tomorrow *timings.DayTiming
	if idx+1 < len(mt.Days) {
		tomorrow = &mt.Days[idx+1]
	} else {
		next := now.AddDate(0, 0, 1)
		nmt, _, err := svc.LoadMonth(ctx, monthParams(cfg, next.Year(), int(next.Month())), now)
		if err != nil || len(nmt.Days) == 0 {
			return nil
		}
		tomorrow = &nmt.Days[0]
	}

	fajr := tomorrow.Prayers.Fajr
	fajrMin, err := timeutil.ParseTimeToMinutes(fajr)
	if err != nil {
		return nil
	}

	// Tomorrow's Fajr seen from this evening: remaining crosses midnight.
	remaining := time.Duration(fajrMin)*time.Minute +
		(24*time.Hour - timeutil.SinceMidnight(now))

	prevMin, err := timeutil.ParseTimeToMinutes(prevIsha)
	if err != nil {
		prevMin = timeutil.MinuteOfDay(now)
	}
	span := fajrMin + (timeutil.MinutesPerDay - prevMin)
	elapsed := timeutil.MinuteOfDay(now) - prevMin
	progress := 0.0
	if span > 0 && elapsed > 0 {
		progress = float64(elapsed) / float64(span)
		if progress > 1 {
			progress = 1
		}
	}

	return &countdown.NextPrayer{
		Name:             "Fajr",
		Time:             fajr,
		PrevTime:         prevIsha,
		Remaining:        remaining,
		RemainingMs:      remaining.Milliseconds(),
		RemainingDisplay: timeutil.FormatRemaining(remaining),
		Progress:         progress,
	}
}

func printNextLine(next *countdown.NextPrayer, timeFormat string) {
	fmt.Printf("%s %s (in %s)\n",
		display.Accent(next.Name),
		timeutil.FormatClock(next.Time, timeFormat),
		next.RemainingDisplay)
	fmt.Printf("%s  %s -> %s\n",
		display.Bar(next.Progress, 24),
		timeutil.FormatClock(next.PrevTime, timeFormat),
		timeutil.FormatClock(next.Time, timeFormat))
}
