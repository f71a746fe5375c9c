package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	httpapi "rentalstore-backend/internal/api/http"
	"rentalstore-backend/internal/config"
	"rentalstore-backend/internal/idempotency"
	"rentalstore-backend/internal/logger"
	"rentalstore-backend/internal/repository"
	"rentalstore-backend/internal/repository/memory"
	"rentalstore-backend/internal/repository/postgres"
	"rentalstore-backend/internal/security"
	"rentalstore-backend/internal/service"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Rental Store Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "request_timeout", cfg.RequestTimeout())

	if err := run(cfg); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := initTracing(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("Failed to flush traces", "error", err)
		}
	}()

	repos, uow, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	idem, err := idempotency.New(cfg)
	if err != nil {
		return err
	}
	logger.Info("Idempotency store configured", "type", cfg.Idempotency.Type)

	tokens := security.NewTokenManager(cfg.JWT.Secret, cfg.TokenExpiry())

	// Initialize Services
	services := httpapi.Services{
		Rentals:   service.NewRentalService(repos, uow),
		Customers: service.NewCustomerService(repos.Customers),
		Genres:    service.NewGenreService(repos.Genres),
		Movies:    service.NewMovieService(repos.Movies, repos.Genres),
		Users:     service.NewUserService(repos.Users, tokens),
		Auth:      service.NewAuthService(repos.Users, tokens),
	}

	api := httpapi.NewServer(cfg, services, tokens, idem)
	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server...", "timeout", cfg.ShutdownTimeout())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStore returns the repositories and unit of work for the configured
// driver along with a close function.
func openStore(ctx context.Context, cfg *config.Config) (*repository.Repositories, repository.UnitOfWork, func(), error) {
	if cfg.Database.Driver == "memory" {
		logger.Warn("Using in-memory store, data is lost on restart")
		store := memory.NewStore()
		return store.Repositories, store, func() {}, nil
	}

	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		logger.Info("Database schema applied")
	}

	store := postgres.NewStore(db)
	return store.Repositories, store, func() { db.Close() }, nil
}

// initTracing installs an OTLP/HTTP tracer provider when an endpoint is
// configured. Without one the global no-op provider stays in place.
func initTracing(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	endpoint := cfg.Tracing.OTLPEndpoint
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	var opts []otlptracehttp.Option
	if strings.Contains(endpoint, "://") {
		opts = append(opts, otlptracehttp.WithEndpointURL(endpoint))
	} else {
		opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
	}
	if cfg.Tracing.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	logger.Info("Tracing enabled", "endpoint", endpoint)
	return tp.Shutdown, nil
}
