package counterapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Apurer/counter-panel/internal/counterapi/adapters/memory"
	counterpostgres "github.com/Apurer/counter-panel/internal/counterapi/adapters/postgres"
	"github.com/Apurer/counter-panel/internal/counterapi/application"
	"github.com/Apurer/counter-panel/internal/counterapi/httpapi"
	"github.com/Apurer/counter-panel/internal/counterapi/ports"
	"github.com/Apurer/counter-panel/internal/platform/migrations"
	platformobservability "github.com/Apurer/counter-panel/internal/platform/observability"
	platformpostgres "github.com/Apurer/counter-panel/internal/platform/postgres"
)

const serviceName = "counter-api"

type repository interface {
	ports.ProductRepository
	ports.OrderRepository
}

// Run boots the counter HTTP API and serves until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Options{
		ServiceName:  serviceName,
		LogLevel:     cfg.LogLevel,
		LogFormat:    cfg.LogFormat,
		Exporter:     cfg.Exporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repo, cleanupRepo := buildRepository(ctx, cfg, logger)
	defer cleanupRepo()
	service := application.NewService(repo, repo)
	if cfg.SeedDemo {
		if err := seedDemo(ctx, service); err != nil {
			logger.Warn("failed to seed demo data", slog.String("error", err.Error()))
		} else {
			logger.Info("demo menu and orders seeded")
		}
	}

	gin.SetMode(gin.ReleaseMode)
	router := httpapi.NewRouter(httpapi.NewCounterAPI(service), logger, otelgin.Middleware(serviceName))
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("counter API listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("counter API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown counter API: %w", err)
	}
	logger.Info("counter API stopped")
	return nil
}

func buildRepository(ctx context.Context, cfg Config, logger *slog.Logger) (repository, func()) {
	db, cleanup := platformpostgres.Open(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return memory.NewRepository(), cleanup
	}
	if err := migrations.Run(db); err != nil {
		cleanup()
		logger.Warn("failed to migrate postgres schema, falling back to in-memory repository", slog.String("error", err.Error()))
		return memory.NewRepository(), func() {}
	}
	logger.Info("counter repository configured with postgres")
	return counterpostgres.NewRepository(db), cleanup
}
