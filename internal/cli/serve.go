package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"ramadan-taqwim/internal/server"
)

var flagRefreshCron string

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve prayer times over HTTP",
		Long:  "Run an HTTP server exposing today's timings, the month calendar,\nand live countdowns as JSON, with a cron-scheduled cache refresh.",
		RunE:  runServe,
	}

	cmd.Flags().StringVar(&flagRefreshCron, "refresh-cron", "15 */6 * * *", "Cron schedule for the month cache refresh")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load .env if present; env vars override the config file for
	// deployment-shaped settings.
	_ = godotenv.Load()

	cfg := effectiveConfig(cmd)
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.RedisURL = redisURL
		cfg.CacheBackend = "redis"
	}

	// The server always logs at info; --verbose raises to debug.
	level := zerolog.InfoLevel
	if FlagVerbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("signal received, shutting down")
		cancel()
	}()

	svc, closeStore := buildService(ctx, cfg)
	defer closeStore()

	return server.New(cfg, svc).Run(ctx, flagRefreshCron)
}
