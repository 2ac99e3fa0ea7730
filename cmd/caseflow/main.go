package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/caseflow-systems/caseflow/internal/config"
	"github.com/caseflow-systems/caseflow/internal/events"
	"github.com/caseflow-systems/caseflow/internal/handlers"
	"github.com/caseflow-systems/caseflow/internal/logging"
	"github.com/caseflow-systems/caseflow/internal/server"
	"github.com/caseflow-systems/caseflow/internal/service"
	"github.com/caseflow-systems/caseflow/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	migrationsPath := flag.String("migrations", "migrations", "path to postgres migrations")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	logging.SetDefault(logger)

	ctx := context.Background()

	st, err := newStore(ctx, cfg, *migrationsPath, logger)
	if err != nil {
		log.Fatalf("Failed to initialize storage backend: %v", err)
	}
	defer st.Close()

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NATS.Enabled {
		np, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		publisher = np
	}
	defer publisher.Close()

	if err := os.MkdirAll(cfg.Uploads.Dir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	svc := service.New(st, cfg.Uploads.Dir, logger, publisher)
	handler := handlers.New(svc, logger)
	router := server.NewRouter(handler, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("caseflow listening", "addr", srv.Addr, "backend", st.Name())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	logger.Info("server stopped")
}

// newStore builds the configured storage backend. The choice is made once
// here; handlers and the service layer never branch on it again.
func newStore(ctx context.Context, cfg *config.Config, migrationsPath string, logger *logging.Logger) (store.Store, error) {
	switch cfg.Storage.Backend {
	case "postgres":
		connString := cfg.Postgres.ConnString()

		logger.Info("running database migrations")
		m, err := migrate.New("file://"+migrationsPath, connString)
		if err != nil {
			return nil, fmt.Errorf("initialize migrations: %w", err)
		}
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			return nil, fmt.Errorf("run migrations: %w", err)
		}

		st, err := store.NewPostgresStore(ctx, connString)
		if err != nil {
			return nil, err
		}
		return store.Instrument(st), nil

	case "opensearch":
		st, err := store.NewOpenSearchStore(ctx, store.OpenSearchConfig{
			URL:         cfg.OpenSearch.URL,
			Username:    cfg.OpenSearch.Username,
			Password:    cfg.OpenSearch.Password,
			Insecure:    cfg.OpenSearch.Insecure,
			IndexPrefix: cfg.OpenSearch.IndexPrefix,
			PoolSize:    cfg.OpenSearch.PoolSize,
		})
		if err != nil {
			return nil, err
		}
		return store.Instrument(st), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
