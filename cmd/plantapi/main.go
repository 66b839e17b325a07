package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saltyorg/plantapi/internal/config"
	"github.com/saltyorg/plantapi/internal/database"
	"github.com/saltyorg/plantapi/internal/logging"
	"github.com/saltyorg/plantapi/internal/web"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI flags
var (
	port           int
	bind           string
	dbPath         string
	driver         string
	staticDir      string
	logFile        string
	requestTimeout time.Duration
	verbosity      int
	vacuum         bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "plantapi",
		Short: "plantapi - Production and shipment API",
		Long:  `plantapi serves daily production and annual shipment figures to the plant dashboard.`,
		RunE:  run,
	}

	// Flags override the matching environment variables when set
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "SQLite database path (or set DB_PATH env var)")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "Store driver: sqlite or postgres (or set DB_DRIVER env var)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Rotating log file path (or set LOG_FILE env var)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")

	rootCmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP server port (or set PORT env var)")
	rootCmd.Flags().StringVarP(&bind, "bind", "b", "", "IP address to bind to (e.g., 127.0.0.1, 0.0.0.0)")
	rootCmd.Flags().StringVar(&staticDir, "static", "", "Front-end document root (or set STATIC_DIR env var)")
	rootCmd.Flags().DurationVar(&requestTimeout, "request-timeout", 0, "Per-request time limit (or set REQUEST_TIMEOUT env var)")

	// Version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("plantapi %s (commit: %s, built: %s)\n", version, commit, date)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "initdb",
		Short: "Create the production and shipment tables if absent",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s database.Session) error {
				return s.InitSchema(ctx)
			})
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Create the tables and insert demo data into empty ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s database.Session) error {
				if err := s.InitSchema(ctx); err != nil {
					return err
				}
				return s.Seed(ctx)
			})
		},
	})

	maintenanceCmd := &cobra.Command{
		Use:   "maintenance",
		Short: "Refresh SQLite planner statistics and optionally vacuum",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s database.Session) error {
				if err := s.Optimize(ctx); err != nil {
					return err
				}
				if vacuum {
					return s.Vacuum(ctx)
				}
				return nil
			})
		},
	}
	maintenanceCmd.Flags().BoolVar(&vacuum, "vacuum", false, "Also rebuild the database file")
	rootCmd.AddCommand(maintenanceCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the environment, applies explicitly set flags and
// configures logging.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = port
	}
	if flags.Changed("bind") {
		cfg.Bind = bind
	}
	if flags.Changed("static") {
		cfg.StaticDir = staticDir
	}
	if flags.Changed("request-timeout") {
		cfg.Timeouts.Request = requestTimeout
	}
	if flags.Changed("db") {
		cfg.Database.Path = dbPath
	}
	if flags.Changed("driver") {
		cfg.Database.Driver = driver
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
	if verbosity > 0 {
		cfg.Log.Level = logging.LevelFromVerbosity(verbosity)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.Apply(cfg.Log)
	return cfg, nil
}

// withSession runs fn on one acquired connection for the bootstrap subcommands.
func withSession(cmd *cobra.Command, fn func(context.Context, database.Session) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := database.New(cfg.Database)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	session, err := store.Acquire(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to release database connection")
		}
	}()

	if err := fn(ctx, session); err != nil {
		return err
	}

	log.Info().Str("command", cmd.Name()).Str("driver", store.Driver()).Msg("Done")
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := database.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("invalid database configuration: %w", err)
	}

	log.Info().
		Str("version", version).
		Int("port", cfg.Port).
		Str("bind", cfg.Bind).
		Str("driver", store.Driver()).
		Str("static", cfg.StaticDir).
		Dur("request_timeout", cfg.Timeouts.Request).
		Msg("Starting plantapi")

	server := web.NewServer(cfg, store)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}

	log.Info().Msg("plantapi stopped")
	return nil
}
