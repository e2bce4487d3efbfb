package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-exitpage-backend/internal/config"
	"github.com/tbourn/go-exitpage-backend/internal/observability"
	"github.com/tbourn/go-exitpage-backend/internal/repo"
	"github.com/tbourn/go-exitpage-backend/internal/services"
	"github.com/tbourn/go-exitpage-backend/internal/sysutil"
)

// cli carries what PersistentPreRunE prepared for the subcommands.
type cli struct {
	envFile  string
	cfg      config.Config
	log      zerolog.Logger
	shutdown observability.ShutdownFunc
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "exitpage",
		Short:         "Exit-page backend: farewell generation, drafts and published pages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return c.teardown()
		},
	}
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.fail(run(cmd.Context(), c.cfg, c.log))
		},
	}
	root.RunE = serve.RunE

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(*cobra.Command, []string) error {
			return c.fail(migrateDB(c.cfg.DBPath, c.log))
		},
	}

	probe := &cobra.Command{
		Use:   "probe",
		Short: "Check the configured farewell backend once and print the availability record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.fail(probeBackend(cmd.Context(), c.cfg, cmd.OutOrStdout()))
		},
	}

	root.AddCommand(serve, migrate, probe)
	return root
}

func (c *cli) setup(ctx context.Context) error {
	if err := godotenv.Load(c.envFile); err != nil {
		log.Warn().Err(err).Str("file", c.envFile).Msg("no .env file, using process environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("load configuration")
		return err
	}
	c.cfg = cfg
	c.log = sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty, os.Stdout)
	gin.SetMode(cfg.GinMode)

	ver := sysutil.FirstNonEmpty(version, os.Getenv("APP_VERSION"), "dev")
	shutdown, err := observability.SetupOTel(ctx, cfg.OTEL, ver, cfg.GinMode)
	if err != nil {
		c.log.Warn().Err(err).Msg("tracing disabled")
		shutdown = func(context.Context) error { return nil }
	}
	c.shutdown = shutdown
	return nil
}

func (c *cli) teardown() error {
	if c.shutdown == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.shutdown(ctx)
}

// fail logs err before cobra returns it, since errors are silenced.
func (c *cli) fail(err error) error {
	if err != nil {
		c.log.Error().Err(err).Msg("command failed")
	}
	return err
}

func migrateDB(path string, logger zerolog.Logger) error {
	db, err := repo.OpenSQLite(path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = repo.Close(db) }()
	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info().Str("path", path).Msg("schema up to date")
	return nil
}

// probeBackend runs one availability probe and writes the record as JSON.
// A backend that is down is reported, not returned as an error.
func probeBackend(ctx context.Context, cfg config.Config, out io.Writer) error {
	backend, err := newBackend(cfg.Farewell)
	if err != nil {
		return err
	}
	tracker := services.NewAvailabilityTracker(backend, nil, nil, zerolog.Nop())
	rec := tracker.Probe(ctx)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}
