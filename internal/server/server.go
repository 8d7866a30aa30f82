// Package server exposes the timing pipeline over HTTP: the same JSON
// shapes the CLI prints, served for status widgets and home dashboards.
package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"ramadan-taqwim/internal/config"
	"ramadan-taqwim/internal/countdown"
	"ramadan-taqwim/internal/schedule"
	"ramadan-taqwim/internal/timings"
)

// Server wires the schedule service into a fiber app with a cron-driven
// cache pre-warm.
type Server struct {
	cfg  *config.Config
	svc  *schedule.Service
	app  *fiber.App
	cron *cron.Cron
}

// New builds a Server over the given merged config and schedule service.
func New(cfg *config.Config, svc *schedule.Service) *Server {
	s := &Server{
		cfg: cfg,
		svc: svc,
		app: fiber.New(fiber.Config{
			AppName:               "ramadan-taqwim",
			DisableStartupMessage: true,
		}),
		cron: cron.New(),
	}

	s.app.Use(recover.New())
	s.app.Use(requestLogger)

	s.app.Get("/api/today", s.handleToday)
	s.app.Get("/api/month/:year/:month", s.handleMonth)
	s.app.Get("/api/countdown", s.handleCountdown)
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	return s
}

// Run starts the cron pre-warm and the HTTP listener, blocking until ctx
// is cancelled, then shuts both down.
func (s *Server) Run(ctx context.Context, refreshSpec string) error {
	if _, err := s.cron.AddFunc(refreshSpec, s.prewarm); err != nil {
		return fmt.Errorf("invalid refresh cron spec %q: %w", refreshSpec, err)
	}
	s.cron.Start()
	defer s.cron.Stop()

	// Warm the current month before accepting traffic; failure is logged,
	// not fatal -- the first request retries.
	s.prewarm()

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + s.cfg.Port
		log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- s.app.Listen(addr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down http server")
		return s.app.ShutdownWithTimeout(5 * time.Second)
	case err := <-errCh:
		return err
	}
}

// prewarm loads the current month so request paths hit a fresh cache.
func (s *Server) prewarm() {
	now := time.Now()
	_, source, err := s.svc.LoadMonth(context.Background(), s.params(now.Year(), int(now.Month())), now)
	if err != nil {
		log.Error().Err(err).Msg("cache pre-warm failed")
		return
	}
	log.Info().Str("source", string(source)).Msg("month cache pre-warmed")
}

func (s *Server) params(year, month int) schedule.Params {
	return schedule.Params{
		City:    schedule.CityKey(s.cfg.City),
		Display: s.cfg.City,
		Country: config.Country,
		Method:  s.cfg.MethodOrDefault(1),
		School:  s.cfg.SchoolOrDefault(1),
		Year:    year,
		Month:   month,
	}
}

// requestLogger logs each request through zerolog.
func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	log.Info().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("took", time.Since(start)).
		Msg("request")
	return err
}

// handleToday returns today's canonical day record with its countdowns.
func (s *Server) handleToday(c *fiber.Ctx) error {
	now := time.Now()

	day, prevIsha, err := s.today(c, now)
	if day == nil {
		return err
	}

	return c.JSON(fiber.Map{
		"day":        day,
		"next":       countdown.GetNextPrayer(*day, prevIsha, now),
		"sehriIftar": countdown.GetSehriIftar(*day, prevIsha, now),
	})
}

// handleMonth returns the full normalized month.
func (s *Server) handleMonth(c *fiber.Ctx) error {
	year, err1 := strconv.Atoi(c.Params("year"))
	month, err2 := strconv.Atoi(c.Params("month"))
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid year/month"})
	}

	mt, source, err := s.svc.LoadMonth(c.Context(), s.params(year, month), time.Now())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set("X-Cache-Source", string(source))
	return c.JSON(mt)
}

// handleCountdown returns only the countdown objects, for 1 Hz pollers.
// ?type=sehri-iftar narrows the response to the fasting window.
func (s *Server) handleCountdown(c *fiber.Ctx) error {
	now := time.Now()

	day, prevIsha, err := s.today(c, now)
	if day == nil {
		return err
	}

	if strings.EqualFold(c.Query("type"), "sehri-iftar") {
		return c.JSON(countdown.GetSehriIftar(*day, prevIsha, now))
	}
	return c.JSON(countdown.GetNextPrayer(*day, prevIsha, now))
}

// today loads the current month and locates the current day. On failure
// it writes the error response itself and returns a nil day; callers pass
// the returned error straight back to fiber.
func (s *Server) today(c *fiber.Ctx, now time.Time) (*timings.DayTiming, string, error) {
	mt, _, err := s.svc.LoadMonth(c.Context(), s.params(now.Year(), int(now.Month())), now)
	if err != nil {
		return nil, "", c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	idx := schedule.FindDay(mt, schedule.DateKey(now))
	if idx < 0 {
		return nil, "", c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no timing data for today"})
	}

	return &mt.Days[idx], schedule.PrevIsha(mt, idx), nil
}
