// Package schedule runs the fetch -> normalize -> override pipeline with a
// cache-first loading strategy.
package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"ramadan-taqwim/internal/api"
	"ramadan-taqwim/internal/cache"
	"ramadan-taqwim/internal/ramadan"
	"ramadan-taqwim/internal/timings"
)

// Source identifies where a loaded month came from.
type Source string

const (
	SourceFreshCache Source = "fresh-cache"
	SourceStaleCache Source = "stale-cache"
	SourceNetwork    Source = "network"
)

// Params identify one month of timings for one configuration.
type Params struct {
	City    string // lowercase key form, e.g. "dhaka"
	Display string // human form sent to the API, e.g. "Dhaka"
	Country string
	Method  int
	School  int
	Year    int
	Month   int // 1-12
}

// Service composes the API client, cache store, normalizer and override
// engine into the month-loading pipeline. Store may be nil (caching
// disabled); everything else is required.
type Service struct {
	Client     *api.Client
	Store      cache.Store
	Normalizer timings.Normalizer
	Engine     *ramadan.Engine
}

// NewService wires a Service from its collaborators.
func NewService(client *api.Client, store cache.Store, n timings.Normalizer, e *ramadan.Engine) *Service {
	return &Service{Client: client, Store: store, Normalizer: n, Engine: e}
}

// BuildMonth normalizes a raw month, applies the Ramadan overrides, and
// stamps the result with its cache key and fetch instant.
func (s *Service) BuildMonth(raw []api.CalendarDay, key string, now time.Time) *timings.MonthTimings {
	days := s.Engine.Apply(s.Normalizer.NormalizeDays(raw))
	return &timings.MonthTimings{
		CacheKey:  key,
		FetchedAt: now,
		Days:      days,
	}
}

// LoadMonth returns the canonical month for the given parameters.
// A fresh cached copy wins; otherwise the network is tried, degrading to a
// stale cached copy when the fetch fails.
func (s *Service) LoadMonth(ctx context.Context, p Params, now time.Time) (*timings.MonthTimings, Source, error) {
	key := cache.Key(p.City, p.Method, p.School, p.Year, p.Month)

	var cached *timings.MonthTimings
	if s.Store != nil {
		cached = s.Store.LoadMonth(ctx, key)
	}
	if cache.Fresh(cached, now) {
		log.Debug().Str("key", key).Msg("month served from fresh cache")
		return cached, SourceFreshCache, nil
	}

	resp, err := s.Client.FetchCalendarByCity(p.Year, p.Month, p.Display, p.Country, p.Method, p.School)
	if err != nil {
		if cached != nil {
			log.Warn().Err(err).Str("key", key).Msg("fetch failed, serving stale cache")
			return cached, SourceStaleCache, nil
		}
		return nil, "", fmt.Errorf("failed to fetch month %d-%02d: %w", p.Year, p.Month, err)
	}

	mt := s.BuildMonth(resp.Data, key, now)

	if s.Store != nil {
		if err := s.Store.SaveMonth(ctx, mt); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to persist month cache")
		}
	}

	log.Debug().Str("key", key).Int("days", len(mt.Days)).Msg("month fetched from network")
	return mt, SourceNetwork, nil
}

// FindDay returns the index of the day with the given DD-MM-YYYY date,
// or -1 when the month doesn't contain it.
func FindDay(mt *timings.MonthTimings, dateGregorian string) int {
	for i, d := range mt.Days {
		if d.DateGregorian == dateGregorian {
			return i
		}
	}
	return -1
}

// PrevIsha returns the Isha time of the day before index i within the
// month, or "" when i is the first day (the countdown engine then falls
// back to the day's own Isha).
func PrevIsha(mt *timings.MonthTimings, i int) string {
	if i <= 0 || i > len(mt.Days) {
		return ""
	}
	return mt.Days[i-1].Prayers.Isha
}

// DateKey formats a time as the DD-MM-YYYY natural key used by the API.
func DateKey(t time.Time) string {
	return t.Format("02-01-2006")
}

// CityKey lowercases a display city name into its cache-key form.
func CityKey(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}
