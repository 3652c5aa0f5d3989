package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/innervoice/innervoice-go/internal/auth"
	"github.com/innervoice/innervoice-go/internal/config"
	"github.com/innervoice/innervoice-go/internal/datastore"
	"github.com/innervoice/innervoice-go/internal/handler"
	"github.com/innervoice/innervoice-go/internal/logger"
	"github.com/innervoice/innervoice-go/internal/metrics"
	"github.com/innervoice/innervoice-go/internal/repository"
	"github.com/innervoice/innervoice-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.SetupDefault(os.Stdout, logger.ParseLevel(cfg.LogLevel))

	if err := serve(cfg, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// runMigrate applies migrations with only the database settings loaded.
func runMigrate() {
	cfg, err := config.LoadDatabase()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.SetupDefault(os.Stdout, logger.ParseLevel(cfg.LogLevel))
	if err := datastore.Migrate(cfg.DatabaseDriver, cfg.DatabaseServiceURL); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")
}

func serve(cfg *config.Config, log *slog.Logger) error {
	if cfg.MigrateOnStart {
		if err := datastore.Migrate(cfg.DatabaseDriver, cfg.DatabaseServiceURL); err != nil {
			return err
		}
		log.Info("migrations applied")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The user-scoped client only resolves tokens; all table access goes
	// through the service-scoped pool.
	userStore, err := datastore.Open(ctx, datastore.Options{
		Scope:       datastore.ScopeUser,
		Driver:      cfg.DatabaseDriver,
		URL:         cfg.SupabaseURL,
		APIKey:      cfg.SupabaseAnonKey,
		AuthTimeout: cfg.AuthTimeout,
	})
	if err != nil {
		return err
	}
	defer userStore.Close()

	serviceStore, err := datastore.Open(ctx, datastore.Options{
		Scope:           datastore.ScopeService,
		Driver:          cfg.DatabaseDriver,
		DSN:             cfg.DatabaseServiceURL,
		URL:             cfg.SupabaseURL,
		APIKey:          cfg.SupabaseServiceRoleKey,
		AuthTimeout:     cfg.AuthTimeout,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer serviceStore.Close()

	programRepo := repository.NewProgramRepository(serviceStore)
	providerRepo := repository.NewProviderRepository(serviceStore)
	profileRepo := repository.NewProfileRepository(serviceStore)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	router := handler.NewRouter(&handler.RouterDeps{
		Logger:         log,
		Programs:       service.NewProgramService(programRepo, providerRepo),
		Providers:      service.NewProviderService(providerRepo),
		Profiles:       service.NewProfileService(profileRepo),
		Verifier:       auth.NewVerifier(userStore),
		Metrics:        collector,
		MetricsHandler: metrics.Handler(reg),
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "driver", cfg.DatabaseDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
