package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"ramadan-taqwim/internal/api"
	"ramadan-taqwim/internal/cache"
	"ramadan-taqwim/internal/config"
	"ramadan-taqwim/internal/ramadan"
	"ramadan-taqwim/internal/schedule"
	"ramadan-taqwim/internal/timings"
)

// buildService wires the month-loading pipeline from the merged config.
// The returned closer releases the cache backend; callers defer it.
// Cache init failure is non-fatal: the service runs uncached with a warning.
func buildService(ctx context.Context, cfg *config.Config) (*schedule.Service, func()) {
	var store cache.Store
	var err error

	switch cfg.CacheBackend {
	case "redis":
		store, err = cache.NewRedisStore(ctx, cfg.RedisURL)
	default:
		store, err = cache.NewFileStore(cfg.CacheDir)
	}
	if err != nil {
		store = nil
		fmt.Fprintf(os.Stderr, "warning: cache disabled: %v\n", err)
	}

	svc := schedule.NewService(
		api.NewClient(),
		store,
		timings.NewNormalizer(timings.SehriPolicy(cfg.SehriPolicy)),
		ramadan.NewEngine(ramadan.DefaultOverrides()),
	)

	closer := func() {
		if store != nil {
			_ = store.Close()
		}
	}
	return svc, closer
}

// monthParams builds the schedule parameters for a given year/month.
func monthParams(cfg *config.Config, year, month int) schedule.Params {
	return schedule.Params{
		City:    schedule.CityKey(cfg.City),
		Display: cfg.City,
		Country: config.Country,
		Method:  cfg.MethodOrDefault(1),
		School:  cfg.SchoolOrDefault(1),
		Year:    year,
		Month:   month,
	}
}

// loadToday loads the current month and locates today's record in it.
// It also resolves the previous day's Isha for the overnight countdown
// windows.
func loadToday(ctx context.Context, svc *schedule.Service, cfg *config.Config, now time.Time) (*timings.MonthTimings, int, string, error) {
	mt, _, err := svc.LoadMonth(ctx, monthParams(cfg, now.Year(), int(now.Month())), now)
	if err != nil {
		return nil, 0, "", err
	}

	idx := schedule.FindDay(mt, schedule.DateKey(now))
	if idx < 0 {
		return nil, 0, "", fmt.Errorf("no timing data for %s", schedule.DateKey(now))
	}

	return mt, idx, schedule.PrevIsha(mt, idx), nil
}
