package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/canvasprint/canvasprint/internal/config"
)

// Server is the worker server
type Server struct {
	logger *zap.Logger
	config *config.Config
	server *asynq.Server
	mux    *asynq.ServeMux
}

// WorkerDependencies holds dependencies for workers
type WorkerDependencies struct {
	Analysis    Analyzer
	Store       ObjectStore
	MinioBucket string
}

// RedisOpt builds the asynq connection options from config
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewMux registers every task handler
func NewMux(logger *zap.Logger, deps *WorkerDependencies) *asynq.ServeMux {
	exportWorker := NewExportWorker(
		logger,
		deps.Analysis,
		deps.Store,
		deps.MinioBucket,
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeAnalysisExport, exportWorker.ProcessTask)
	return mux
}

// NewServer creates a new worker server
func NewServer(
	logger *zap.Logger,
	cfg *config.Config,
	deps *WorkerDependencies,
) (*Server, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("object storage is required for exports")
	}

	server := asynq.NewServer(
		RedisOpt(cfg.Redis),
		asynq.Config{
			Concurrency: cfg.Worker.Concurrency,
			Queues: map[string]int{
				cfg.Worker.Queue: 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logger.Error("task processing failed",
					zap.String("type", task.Type()),
					zap.Int("retry", retried),
					zap.Int("max_retry", maxRetry),
					zap.Error(err),
				)
			}),
			Logger: &asynqLogger{logger: logger},
		},
	)

	return &Server{
		logger: logger,
		config: cfg,
		server: server,
		mux:    NewMux(logger, deps),
	}, nil
}

// Start starts the worker server
func (s *Server) Start() error {
	s.logger.Info("starting worker server",
		zap.Int("concurrency", s.config.Worker.Concurrency),
		zap.String("queue", s.config.Worker.Queue),
	)

	return s.server.Run(s.mux)
}

// Stop stops the worker server
func (s *Server) Stop() {
	s.server.Shutdown()
}

// asynqLogger adapts zap.Logger to asynq.Logger
type asynqLogger struct {
	logger *zap.Logger
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Fatal(fmt.Sprint(args...))
}
