package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ramadan-taqwim/internal/config"
)

// Global flags shared across all subcommands.
var (
	FlagCity         string
	FlagMethod       int
	FlagSchool       int
	FlagJSON         bool
	FlagCacheDir     string
	FlagCacheBackend string
	FlagRedisURL     string
	FlagTimeFormat   string
	FlagSehriPolicy  string
	FlagVerbose      bool
)

// loadedConfig holds the config loaded during PersistentPreRunE.
// Available to all subcommand handlers.
var loadedConfig *config.Config

// NewRootCmd creates the root command for the ramadan-taqwim CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ramadan-taqwim",
		Short:   "Ramadan prayer times and countdowns for Bangladesh",
		Long:    "Daily prayer times, Ramadan calendar, and Sehri/Iftar countdowns,\npowered by the Al Adhan API and corrected against local moon sighting.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			loadedConfig = cfg
			return nil
		},
		// Default action: show today's schedule and countdown.
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Register global persistent flags.
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&FlagCity, "city", "", "Override city (takes precedence over config)")
	pf.IntVar(&FlagMethod, "method", -1, "Override calculation method (0-23)")
	pf.IntVar(&FlagSchool, "school", -1, "Override school (0=Shafi, 1=Hanafi)")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagCacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/ramadan-taqwim/)")
	pf.StringVar(&FlagCacheBackend, "cache-backend", "", "Cache backend: file or redis")
	pf.StringVar(&FlagRedisURL, "redis-url", "", "Redis URL for the redis cache backend")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.StringVar(&FlagSehriPolicy, "sehri-policy", "", "Sehri cutoff: fajr or imsak-if-present")
	pf.BoolVar(&FlagVerbose, "verbose", false, "Enable debug logging")

	// Register subcommands.
	rootCmd.AddCommand(newCalendarCmd())
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newSehriCmd())
	rootCmd.AddCommand(newMethodsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// setupLogging configures the global zerolog logger for CLI use: console
// output on stderr, quiet unless --verbose.
func setupLogging() {
	level := zerolog.WarnLevel
	if FlagVerbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// effectiveConfig returns the merged configuration values,
// applying the priority: CLI flags > config file > defaults.
// It uses cobra's Changed() to detect whether a flag was explicitly set.
func effectiveConfig(cmd *cobra.Command) *config.Config {
	cfg := loadedConfig
	if cfg == nil {
		empty := config.Config{}
		cfg = &empty
	}

	defaults := config.Defaults()

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	if flagWasSet(flags, root, "city") {
		cfg.City = FlagCity
	}
	if cfg.City == "" {
		cfg.City = defaults.City
	}
	if flagWasSet(flags, root, "method") {
		cfg.Method = &FlagMethod
	} else if cfg.Method == nil {
		cfg.Method = defaults.Method
	}
	if flagWasSet(flags, root, "school") {
		cfg.School = &FlagSchool
	} else if cfg.School == nil {
		cfg.School = defaults.School
	}
	if flagWasSet(flags, root, "cache-dir") {
		cfg.CacheDir = FlagCacheDir
	}
	if flagWasSet(flags, root, "cache-backend") {
		cfg.CacheBackend = FlagCacheBackend
	}
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = defaults.CacheBackend
	}
	if flagWasSet(flags, root, "redis-url") {
		cfg.RedisURL = FlagRedisURL
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = defaults.RedisURL
	}
	if flagWasSet(flags, root, "time-format") {
		cfg.TimeFormat = FlagTimeFormat
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = defaults.TimeFormat
	}
	if flagWasSet(flags, root, "sehri-policy") {
		cfg.SehriPolicy = FlagSehriPolicy
	}
	if cfg.SehriPolicy == "" {
		cfg.SehriPolicy = defaults.SehriPolicy
	}
	if cfg.Port == "" {
		cfg.Port = defaults.Port
	}

	return cfg
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}
