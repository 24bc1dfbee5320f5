package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/godilite/fieldops-server/internal/config"
	handler "github.com/godilite/fieldops-server/internal/grpc"
	"github.com/godilite/fieldops-server/internal/httpapi"
	"github.com/godilite/fieldops-server/internal/repository"
	"github.com/godilite/fieldops-server/internal/service"
	"github.com/godilite/fieldops-server/pkg/cache"
	dbbuilder "github.com/godilite/fieldops-server/pkg/database"
	grpcsrv "github.com/godilite/fieldops-server/pkg/grpc/server"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	logger          *zap.Logger
	dbPool          *sql.DB
	cache           *cache.Cache
	grpcServer      *grpcsrv.Server
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg.DBDriver == "sqlite3" && cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dbPool, err := dbbuilder.New(ctx,
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
		dbbuilder.WithMigrations(repository.Schema...),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))

	ready := []httpapi.ReadinessCheck{dbPool.PingContext}

	var (
		cacheClient *cache.Cache
		cacher      handler.Cacher
	)
	if cfg.RedisAddr != "" {
		cacheClient, err = cache.New(ctx,
			cache.WithAddress(cfg.RedisAddr),
			cache.WithKeyPrefix("fieldops:"),
		)
		if err != nil {
			_ = dbPool.Close()
			return nil, fmt.Errorf("cache init failed: %w", err)
		}
		cacher = cacheClient
		ready = append(ready, cacheClient.Ping)
		logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
	} else {
		logger.Warn("REDIS_ADDR empty, serving gRPC without a response cache")
	}

	evaluationRepo := repository.NewEvaluationRepository(dbPool)

	trendService := service.NewTrendService(evaluationRepo, cfg.Calendar, logger)

	grpcHandlers := handler.NewGRPCHandlers(trendService, cacher, logger, cfg.CacheTTL)

	grpcServer, err := grpcsrv.New(
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
		grpcsrv.WithLogging(true),
		grpcsrv.WithRecovery(true),
	)
	if err != nil {
		_ = dbPool.Close()
		if cacheClient != nil {
			_ = cacheClient.Close()
		}
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}

	grpcServer.RegisterServiceWithHealth(&handler.TrendServiceDesc, grpcHandlers)

	router := httpapi.NewRouter(httpapi.NewHandler(trendService, logger, ready...), logger)

	return &App{
		logger:     logger,
		dbPool:     dbPool,
		cache:      cacheClient,
		grpcServer: grpcServer,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
	}, nil
}

// Run starts both servers and blocks until ctx is done, a shutdown signal is
// received, or the HTTP server fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("application starting")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.grpcServer.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("HTTP server starting", zap.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return a.shutdown()
	})

	err := g.Wait()
	_ = a.logger.Sync()
	return err
}

func (a *App) shutdown() error {
	a.logger.Info("application shutting down")

	timeout := a.shutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("http shutdown error", zap.Error(err))
	}
	if err := a.grpcServer.Shutdown(ctx); err != nil {
		a.logger.Error("grpc shutdown error", zap.Error(err))
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("cache shutdown error", zap.Error(err))
		}
	}
	if err := a.dbPool.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		a.logger.Warn("shutdown completed but deadline exceeded")
		return nil
	}
	a.logger.Info("graceful shutdown completed successfully")
	return nil
}
