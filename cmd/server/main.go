package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/taskops/taskboard/internal/config"
	"github.com/taskops/taskboard/internal/handler"
	"github.com/taskops/taskboard/internal/postgres"
	"github.com/taskops/taskboard/internal/repository"
	"github.com/taskops/taskboard/internal/service"
	"github.com/taskops/taskboard/internal/telemetry"
	"github.com/taskops/taskboard/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "taskboard",
		Short: "Task management REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
	root.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// repositories bundles one backend's repository set with its gauge
// feeds.
type repositories struct {
	users     repository.UserRepository
	taskLists repository.TaskListRepository
	tasks     repository.TaskRepository
	counts    telemetry.EntityCounts
}

func newRepositories(cfg *config.Config) (*repositories, error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		db, err := postgres.Open(cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		users := postgres.NewUserRepository(db)
		taskLists := postgres.NewTaskListRepository(db)
		tasks := postgres.NewTaskRepository(db)
		return &repositories{
			users:     users,
			taskLists: taskLists,
			tasks:     tasks,
			counts: telemetry.EntityCounts{
				Users:     users.Count,
				TaskLists: taskLists.Count,
				Tasks:     tasks.Count,
			},
		}, nil
	default:
		users := repository.NewInMemoryUserRepository()
		taskLists := repository.NewInMemoryTaskListRepository()
		tasks := repository.NewInMemoryTaskRepository()
		return &repositories{
			users:     users,
			taskLists: taskLists,
			tasks:     tasks,
			counts: telemetry.EntityCounts{
				Users:     users.Count,
				TaskLists: taskLists.Count,
				Tasks:     tasks.Count,
			},
		}, nil
	}
}

func run(cfg *config.Config) error {
	// Basic logger for startup, before OTel is initialized.
	startupLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	startupLogger.Info("starting application",
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
		slog.String("storage", string(cfg.Storage)),
		slog.String("port", cfg.ServerPort),
	)

	ctx := context.Background()

	tp, err := telemetry.InitTracerProvider(ctx, cfg.ServiceName, cfg.OTLPEndpoint, cfg.Environment)
	if err != nil {
		return fmt.Errorf("initializing tracer provider: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			startupLogger.Error("failed to shutdown tracer provider", slog.Any("error", err))
		}
	}()

	mp, err := telemetry.InitMeterProvider(ctx, cfg.ServiceName, cfg.OTLPEndpoint, cfg.Environment)
	if err != nil {
		return fmt.Errorf("initializing meter provider: %w", err)
	}
	defer func() {
		if err := mp.Shutdown(ctx); err != nil {
			startupLogger.Error("failed to shutdown meter provider", slog.Any("error", err))
		}
	}()

	// Logger provider goes last so log records correlate with traces.
	lp, logger, err := telemetry.InitLoggerProvider(ctx, cfg.ServiceName, cfg.OTLPEndpoint, cfg.Environment)
	if err != nil {
		return fmt.Errorf("initializing logger provider: %w", err)
	}
	defer func() {
		if err := lp.Shutdown(ctx); err != nil {
			startupLogger.Error("failed to shutdown logger provider", slog.Any("error", err))
		}
	}()

	repos, err := newRepositories(cfg)
	if err != nil {
		return fmt.Errorf("initializing repositories: %w", err)
	}

	meter := otel.Meter(cfg.ServiceName)
	metrics, err := telemetry.NewMetrics(meter, repos.counts)
	if err != nil {
		return fmt.Errorf("creating metrics: %w", err)
	}

	userSvc := service.NewUserDomainService(repos.users)
	taskSvc := service.NewTaskDomainService(repos.tasks, repos.taskLists, repos.users)
	taskListSvc := service.NewTaskListDomainService(repos.taskLists)

	userVal := usecase.NewUserValidationService(userSvc)
	taskVal := usecase.NewTaskValidationService(taskSvc)
	taskListVal := usecase.NewTaskListValidationService(taskListSvc, repos.users)

	userHandler := handler.NewUserHandler(
		usecase.NewUserUseCases(repos.users, userSvc, userVal), logger, metrics)
	taskListHandler := handler.NewTaskListHandler(
		usecase.NewTaskListUseCases(taskListSvc, taskListVal, repos.taskLists, repos.tasks, taskSvc), logger, metrics)
	taskHandler := handler.NewTaskHandler(
		usecase.NewTaskUseCases(repos.tasks, taskVal, taskListVal), logger, metrics)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", handler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/users", userHandler.Routes())
		r.Mount("/tasklists", taskListHandler.Routes())
		r.Mount("/tasks", taskHandler.Routes())
	})

	// Wrap the router with OpenTelemetry HTTP instrumentation; health
	// checks stay out of the traces.
	otelHandler := otelhttp.NewHandler(r, "http-server",
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      otelHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("error", err))
	}

	logger.Info("server stopped")
	return nil
}
