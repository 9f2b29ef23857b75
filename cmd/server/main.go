// Command server runs the match analytics HTTP service.
//
// Boot sequence:
//  1. Load .env (best effort) and the environment configuration.
//  2. Configure zerolog (level, optional pretty console output).
//  3. Open the SQLite snapshot store and migrate the schema.
//  4. Warm-start the in-memory analytics store from the persisted snapshot.
//  5. Optionally trigger a synchronous remote refresh (REFRESH_ON_START).
//  6. Set up OpenTelemetry tracing (opt-in).
//  7. Serve the API until SIGINT/SIGTERM, then drain gracefully.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aryanBanwala/match-analytics/internal/config"
	httpapi "github.com/aryanBanwala/match-analytics/internal/http"
	"github.com/aryanBanwala/match-analytics/internal/observability"
	"github.com/aryanBanwala/match-analytics/internal/repo"
	"github.com/aryanBanwala/match-analytics/internal/services"
	"github.com/aryanBanwala/match-analytics/internal/supabase"
	"github.com/aryanBanwala/match-analytics/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Local development convenience; production supplies real env vars.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	log.Info().Str("version", version).Str("port", cfg.Port).Msg("starting match-analytics")

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open sqlite")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate schema")
	}

	source := supabase.New(cfg.Supabase, log.Logger)
	analyticsSvc := services.NewAnalyticsService()
	refreshSvc := services.NewRefreshService(db, source, analyticsSvc, log.Logger)

	// Serve whatever the last refresh persisted, even before any remote pull.
	if err := refreshSvc.LoadFromDB(context.Background()); err != nil {
		log.Error().Err(err).Msg("warm start from local snapshot")
	}

	if cfg.RefreshOnStart && !analyticsSvc.Ready() {
		if !source.Configured() {
			log.Warn().Msg("REFRESH_ON_START set but supabase source not configured")
		} else if err := refreshSvc.RunOnce(context.Background()); err != nil {
			log.Error().Err(err).Msg("initial refresh failed; continuing without data")
		}
	}

	shutdownOTel, err := observability.Setup(context.Background(), cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("setup otel")
	}

	gin.SetMode(cfg.GinMode)
	engine := gin.New()
	httpapi.RegisterRoutes(engine, db, analyticsSvc, refreshSvc, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
	if err := shutdownOTel(ctx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	log.Info().Msg("stopped")
}
