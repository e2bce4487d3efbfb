// Command server runs the exit-page HTTP API.
//
// @title       Exit Page API
// @version     1.0
// @description Farewell generation, drafts and published exit pages.
// @BasePath    /api/v1
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	_ "github.com/tbourn/go-exitpage-backend/docs"
	"github.com/tbourn/go-exitpage-backend/internal/config"
	"github.com/tbourn/go-exitpage-backend/internal/farewellapi"
	httpapi "github.com/tbourn/go-exitpage-backend/internal/http"
	"github.com/tbourn/go-exitpage-backend/internal/http/handlers"
	"github.com/tbourn/go-exitpage-backend/internal/repo"
	"github.com/tbourn/go-exitpage-backend/internal/services"
	"github.com/tbourn/go-exitpage-backend/internal/templates"
)

// version is set with -ldflags "-X main.version=...".
var version string

const housekeepingEvery = 5 * time.Minute

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = repo.Close(db) }()
	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	backend, err := newBackend(cfg.Farewell)
	if err != nil {
		return err
	}
	lib, err := loadTemplates(cfg.Farewell.TemplatesPath)
	if err != nil {
		return err
	}

	sessions := repo.NewMemoryStore(cfg.SessionTTL)
	deps, tracker := wire(cfg, db, backend, lib, sessions, logger)

	r := gin.New()
	httpapi.RegisterRoutes(r, db, deps, cfg)

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
	logger.Info().Str("addr", srv.Addr).Str("backend", cfg.Farewell.Backend).Msg("exit-page backend listening")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tracker.Run(gctx)
		return nil
	})
	g.Go(func() error {
		housekeeping(gctx, db, sessions, logger)
		return nil
	})
	g.Go(func() error { return runServer(gctx, srv) })
	return g.Wait()
}

// availabilityScope holds the tracker's mirrored record in the shared
// database, where every instance pointed at it can read it.
const availabilityScope = "availability"

// wire builds the services. The returned tracker is not yet running.
func wire(cfg config.Config, db *gorm.DB, backend farewellapi.Backend, lib *templates.Library, sessions *repo.MemoryStore, logger zerolog.Logger) (handlers.Deps, *services.AvailabilityTracker) {
	tracker := services.NewAvailabilityTracker(backend, repo.NewSQLStore(db).Scope(availabilityScope), nil, logger)
	if cfg.ProbeInitialDelay > 0 {
		tracker.InitialDelay = cfg.ProbeInitialDelay
	}
	if cfg.ProbeInterval > 0 {
		tracker.Interval = cfg.ProbeInterval
	}

	farewells := &services.FarewellService{
		Backend:   backend,
		Tracker:   tracker,
		Sessions:  sessions,
		Templates: lib,
		Log:       logger,
	}
	drafts := &services.DraftService{Store: repo.NewSQLStore(db), Log: logger}

	return handlers.Deps{
		Farewells:      farewells,
		Status:         tracker,
		Drafts:         drafts,
		Wizard:         &services.WizardService{Drafts: drafts, Farewells: farewells, Log: logger},
		Comments:       &services.CommentService{DB: db, Pages: drafts},
		Reactions:      &services.ReactionService{DB: db, Pages: drafts},
		IdempotencyTTL: cfg.IdempotencyTTL,
	}, tracker
}

func newBackend(fc config.FarewellConfig) (farewellapi.Backend, error) {
	switch fc.Backend {
	case config.BackendOpenAI:
		return farewellapi.NewOpenAIBackend(fc.APIKey, fc.APIURL, fc.Model)
	case config.BackendHTTP, "":
		return farewellapi.NewClient(fc.APIURL, fc.HealthPath), nil
	default:
		return nil, fmt.Errorf("unknown farewell backend %q", fc.Backend)
	}
}

func loadTemplates(path string) (*templates.Library, error) {
	if path == "" {
		return templates.Default(), nil
	}
	lib, err := templates.LoadMarkdown(path, templates.Default())
	if err != nil {
		return nil, fmt.Errorf("load templates %s: %w", path, err)
	}
	return lib, nil
}

// housekeeping expires idle session scopes and stale idempotency records
// until ctx is done.
func housekeeping(ctx context.Context, db *gorm.DB, sessions *repo.MemoryStore, logger zerolog.Logger) {
	t := time.NewTicker(housekeepingEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			swept := sessions.Sweep()
			purged, err := repo.PurgeExpiredIdempotency(ctx, db, time.Now().UTC())
			if err != nil {
				logger.Warn().Err(err).Msg("purge idempotency records")
			}
			if swept > 0 || purged > 0 {
				logger.Debug().Int("sessions", swept).Int64("idempotency", purged).Msg("housekeeping")
			}
		}
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
