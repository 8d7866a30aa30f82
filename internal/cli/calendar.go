package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ramadan-taqwim/internal/display"
	"ramadan-taqwim/internal/schedule"
	"ramadan-taqwim/internal/timeutil"
)

var (
	flagCalMonth int
	flagCalYear  int
)

func newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show the month's prayer calendar",
		Long:  "Display the full month calendar with Hijri dates, Sehri/Iftar times,\nRamadan day numbers, and special occasions.",
		RunE:  runCalendar,
	}

	cmd.Flags().IntVar(&flagCalMonth, "month", 0, "Gregorian month 1-12 (default: current)")
	cmd.Flags().IntVar(&flagCalYear, "year", 0, "Gregorian year (default: current)")

	return cmd
}

func runCalendar(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)
	ctx := context.Background()

	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if flagCalYear > 0 {
		year = flagCalYear
	}
	if flagCalMonth != 0 {
		if flagCalMonth < 1 || flagCalMonth > 12 {
			return fmt.Errorf("invalid --month %d: must be 1-12", flagCalMonth)
		}
		month = flagCalMonth
	}

	svc, closeStore := buildService(ctx, cfg)
	defer closeStore()

	mt, _, err := svc.LoadMonth(ctx, monthParams(cfg, year, month), now)
	if err != nil {
		return err
	}

	if FlagJSON {
		data, err := json.MarshalIndent(mt, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println()
	fmt.Printf("  %s\n", display.Boldf("%s %d · %s", time.Month(month).String(), year, cfg.City))
	fmt.Println()

	tbl := display.NewTable([]string{"Date", "Day", "Hijri", "Sehri", "Iftar", ""})
	todayKey := schedule.DateKey(now)

	for i, d := range mt.Days {
		badge := ""
		for _, h := range d.Holidays {
			if badge != "" {
				badge += ", "
			}
			badge += h
		}
		ramadanCol := ""
		if d.IsRamadan {
			ramadanCol = fmt.Sprintf("R%d", d.RamadanDay)
			if badge != "" {
				ramadanCol += " " + badge
			}
		} else {
			ramadanCol = badge
		}

		tbl.AddRow([]string{
			d.DateGregorian,
			shortWeekday(d.Weekday),
			d.HijriDisplay,
			timeutil.FormatClock(d.Prayers.SehriEnds, cfg.TimeFormat),
			timeutil.FormatClock(d.Prayers.Iftar, cfg.TimeFormat),
			ramadanCol,
		})

		if d.DateGregorian == todayKey {
			tbl.SetHighlightRow(i)
		} else if badge != "" {
			tbl.SetBadgeRow(i)
		}
	}

	fmt.Print(tbl.Render())
	fmt.Println()
	return nil
}

// shortWeekday abbreviates a weekday name, tolerating blank fields.
func shortWeekday(w string) string {
	if len(w) < 3 {
		return w
	}
	return w[:3]
}
