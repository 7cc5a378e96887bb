package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cmlabs-hris/productivity-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/productivity-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/kvstore"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/logger"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/productivity-backend-go/internal/repository/memory"
	serviceAuth "github.com/cmlabs-hris/productivity-backend-go/internal/service/auth"
	"github.com/cmlabs-hris/productivity-backend-go/internal/service/file"
	"github.com/cmlabs-hris/productivity-backend-go/internal/service/importer"
	"github.com/cmlabs-hris/productivity-backend-go/internal/service/live"
	insightService "github.com/cmlabs-hris/productivity-backend-go/internal/service/insight"
	metricsService "github.com/cmlabs-hris/productivity-backend-go/internal/service/metrics"
	"github.com/cmlabs-hris/productivity-backend-go/internal/service/reconcile"
	reportService "github.com/cmlabs-hris/productivity-backend-go/internal/service/report"
	"github.com/cmlabs-hris/productivity-backend-go/internal/service/tracking"
	userService "github.com/cmlabs-hris/productivity-backend-go/internal/service/user"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.App.LogLevel, cfg.App.LogFormat, cfg.App.Env)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	medium, err := openMedium(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s store backend: %w", cfg.Store.Backend, err)
	}
	if medium != nil {
		defer medium.Close()
	}

	store := memory.NewStore(memory.Options{
		Medium:      medium,
		SnapshotKey: cfg.Store.SnapshotKey,
		BcryptCost:  cfg.Store.BcryptCost,
		Logger:      log,
	})
	if err := store.Load(ctx); err != nil {
		return err
	}

	userRepo := memory.NewUserRepository(store)
	sessionRepo := memory.NewSessionRepository(store)
	targetRepo := memory.NewTargetRepository(store)
	definitionRepo := memory.NewTaskDefinitionRepository(store)
	executionRepo := memory.NewExecutionRepository(store)
	uploadRepo := memory.NewUploadRepository(store)

	// Raw uploads are archived only when a directory is configured
	var fileService file.FileService
	if cfg.Upload.ArchiveDir != "" {
		archive, err := storage.NewLocalStorage(cfg.Upload.ArchiveDir)
		if err != nil {
			return fmt.Errorf("failed to initialize upload archive: %w", err)
		}
		fileService = file.NewFileService(archive, nil)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	parser := importer.NewParser(nil)

	metricsSvc := metricsService.NewMetricsService(userRepo, sessionRepo, targetRepo, definitionRepo, executionRepo, metricsService.Options{
		AchievementFromTargets: cfg.Metrics.AchievementSource == config.AchievementFromTargets,
	})
	uploadSvc := reconcile.NewUploadService(reconcile.Repositories{
		Users:       userRepo,
		Sessions:    sessionRepo,
		Targets:     targetRepo,
		Definitions: definitionRepo,
		Executions:  executionRepo,
		Uploads:     uploadRepo,
	}, parser, fileService, log, nil)
	authSvc := serviceAuth.NewAuthService(userRepo, JWTService, log)
	userSvc := userService.NewUserService(userRepo, uploadRepo, parser, log, nil)
	hub := sse.NewHub()
	trackingSvc := live.NewLiveTrackingService(tracking.NewTrackingService(sessionRepo, targetRepo, nil), userRepo, hub, log)
	insightSvc := insightService.NewInsightService(metricsSvc, sessionRepo, nil)
	reportSvc := reportService.NewReportService(metricsSvc)

	scheduler := cron.NewScheduler(log)
	cron.NewSessionJobs(trackingSvc, log).RegisterJobs(scheduler)
	scheduler.Start()

	handlers := appHTTP.Handlers{
		Auth:    appHTTP.NewAuthHandler(JWTService, authSvc),
		User:    appHTTP.NewUserHandler(userSvc, cfg.Upload.MaxBytes),
		Session: appHTTP.NewSessionHandler(trackingSvc, userRepo, nil),
		Upload:  appHTTP.NewUploadHandler(uploadSvc, cfg.Upload.MaxBytes),
		Metrics: appHTTP.NewMetricsHandler(metricsSvc, userRepo),
		Insight: appHTTP.NewInsightHandler(insightSvc, userRepo),
		Report:  appHTTP.NewReportHandler(reportSvc),
		Stream:  appHTTP.NewStreamHandler(hub),
	}

	router := appHTTP.NewRouter(JWTService, userRepo, handlers, appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
		Logger:         log,
	})

	// Open event streams only end when their request context does
	baseCtx, cancelStreams := context.WithCancel(context.Background())
	defer cancelStreams()
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	server.RegisterOnShutdown(cancelStreams)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server running", "addr", server.Addr, "store_backend", cfg.Store.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			scheduler.Stop()
			return err
		}
	case <-ctx.Done():
		log.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
	}
	scheduler.Stop()
	if err := store.Flush(shutdownCtx); err != nil {
		return fmt.Errorf("failed to flush store: %w", err)
	}
	return nil
}

// openMedium returns nil for the "none" backend, which keeps the store in memory only.
func openMedium(ctx context.Context, cfg *config.Config) (kvstore.Medium, error) {
	switch cfg.Store.Backend {
	case config.BackendNone:
		return nil, nil
	case config.BackendFile:
		files, err := storage.NewLocalStorage(cfg.Store.FileDir)
		if err != nil {
			return nil, err
		}
		return kvstore.NewFileMedium(files), nil
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Store.SQLitePath), 0o755); err != nil {
			return nil, err
		}
		m, err := kvstore.NewSQLiteMedium(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.BackendPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, err
		}
		m, err := kvstore.NewPostgresMedium(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		return m, nil
	case config.BackendRedis:
		m, err := kvstore.NewRedisMedium(ctx, cfg.Store.RedisURL)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Store.Backend)
	}
}
