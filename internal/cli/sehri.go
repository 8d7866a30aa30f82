package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ramadan-taqwim/internal/countdown"
	"ramadan-taqwim/internal/display"
	"ramadan-taqwim/internal/timeutil"
)

var flagSehriWatch bool

func newSehriCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sehri",
		Short: "Show the Sehri/Iftar countdown",
		Long:  "Display the fasting-window countdown: time until Sehri ends before dawn,\ntime until Iftar through the day. Only meaningful during Ramadan.",
		RunE:  runSehri,
	}

	cmd.Flags().BoolVar(&flagSehriWatch, "watch", false, "Re-render the countdown every second")

	return cmd
}

func runSehri(cmd *cobra.Command, args []string) error {
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

	if !day.IsRamadan {
		fmt.Println("Not Ramadan today -- no fasting window to count down.")
		return nil
	}

	if !flagSehriWatch {
		si := countdown.GetSehriIftar(day, prevIsha, now)
		if si == nil {
			fmt.Println("Iftar has passed. The fast resumes at Sehri tomorrow.")
			return nil
		}
		if FlagJSON {
			data, err := json.MarshalIndent(si, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}
		fmt.Printf("%s %s (at %s)\n",
			display.Ramadan(si.Label), si.RemainingDisplay,
			timeutil.FormatClock(si.TargetTime, cfg.TimeFormat))
		fmt.Printf("%s  %s -> %s\n",
			display.Bar(si.Progress, 24),
			timeutil.FormatClock(si.StartTime, cfg.TimeFormat),
			timeutil.FormatClock(si.TargetTime, cfg.TimeFormat))
		return nil
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		si := countdown.GetSehriIftar(day, prevIsha, time.Now())
		fmt.Print("\r\033[K")
		if si == nil {
			fmt.Print("Iftar has passed. The fast resumes at Sehri tomorrow.")
		} else {
			fmt.Printf("%s %s  %s",
				display.Ramadan(si.Label), si.RemainingDisplay, display.Bar(si.Progress, 20))
		}
		<-ticker.C
	}
}
