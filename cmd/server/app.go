package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"taskboard/internal/config"
	"taskboard/internal/platform/postgres"
	"taskboard/internal/queue"
	"taskboard/internal/service"
	"taskboard/internal/service/auth"
	"taskboard/internal/store"
	"taskboard/internal/worker"
)

// application holds the wired dependencies shared by the HTTP server
// and the background worker pool.
type application struct {
	config *config.Config
	logger *slog.Logger

	db          *sql.DB
	redisClient *redis.Client

	taskService service.TaskService
	userStore   store.UserStore
	jwtService  auth.JWTService

	queueReceiver queue.Receiver
	runner        *worker.Runner
}

// newApplication wires every component from configuration. The queue
// pieces are only created when the queue is enabled; the task service
// receives a nil publisher otherwise.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}
	app.db = db

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	app.jwtService = jwtService

	var publisher queue.Publisher
	if cfg.Queue.Enabled {
		app.redisClient = redis.NewClient(&redis.Options{Addr: cfg.Queue.RedisAddr})

		redisQueue := queue.NewRedisQueue(app.redisClient, queue.DefaultRetryPolicy(), logger)
		publisher = redisQueue
		app.queueReceiver = redisQueue

		runnerCfg := worker.DefaultRunnerConfig()
		if cfg.Queue.Workers > 0 {
			runnerCfg.WorkerCount = cfg.Queue.Workers
		}
		app.runner = worker.NewRunner(redisQueue, runnerCfg, logger)
		app.runner.RegisterHandler(worker.NewStatusLogHandler(logger))
	}

	taskStore := postgres.NewPostgresTaskStore(db, logger)
	app.userStore = postgres.NewPostgresUserStore(db, bcrypt.DefaultCost, logger)
	taskRepo := service.NewTaskRepository(taskStore, db)

	taskService, err := service.NewTaskService(taskRepo, publisher, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}
	app.taskService = taskService

	return app, nil
}

// start launches the worker pool when configured and then runs the HTTP
// server until shutdown.
func (app *application) start(ctx context.Context) error {
	if app.runner != nil {
		app.runner.Start(ctx)
	}
	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup releases held resources in reverse dependency order.
func (app *application) cleanup() {
	if app.runner != nil {
		app.runner.Stop()
	}
	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			app.logger.Error("failed to close redis client", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
