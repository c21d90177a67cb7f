package queue

import (
	"context"
	"fmt"
	"time"

	"meetup-api/core/logger"

	"github.com/hibiken/asynq"
)

// Task is a unit of deferred work.
type Task struct {
	Type    string
	Payload []byte
}

// EnqueueOptions controls when and where a task runs.
type EnqueueOptions struct {
	TaskID    string
	Queue     string
	ProcessAt time.Time
	MaxRetry  int
}

// Client enqueues tasks. TaskID makes scheduling idempotent: enqueueing the
// same id twice while the first is still pending fails with ErrDuplicateTask.
type Client interface {
	Enqueue(ctx context.Context, task Task, opts EnqueueOptions) error
	Close() error
}

// Inspector cancels pending tasks by id. Deleting a missing task is not an
// error to callers.
type Inspector interface {
	DeleteTask(queue, taskID string) error
}

// ErrTaskNotFound is returned by Inspector.DeleteTask when no task exists.
var ErrTaskNotFound = asynq.ErrTaskNotFound

// ErrDuplicateTask is returned by Enqueue when the task id already exists.
var ErrDuplicateTask = asynq.ErrTaskIDConflict

type asynqClient struct {
	client *asynq.Client
}

var _ Client = (*asynqClient)(nil)

// NewClient builds an asynq client from a redis:// URL.
func NewClient(redisURL string) (Client, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("asynq: parse redis url: %w", err)
	}
	return &asynqClient{client: asynq.NewClient(opt)}, nil
}

func (a *asynqClient) Enqueue(ctx context.Context, task Task, opts EnqueueOptions) error {
	var asynqOpts []asynq.Option
	if opts.TaskID != "" {
		asynqOpts = append(asynqOpts, asynq.TaskID(opts.TaskID))
	}
	if opts.Queue != "" {
		asynqOpts = append(asynqOpts, asynq.Queue(opts.Queue))
	}
	if !opts.ProcessAt.IsZero() {
		asynqOpts = append(asynqOpts, asynq.ProcessAt(opts.ProcessAt))
	}
	if opts.MaxRetry > 0 {
		asynqOpts = append(asynqOpts, asynq.MaxRetry(opts.MaxRetry))
	}

	_, err := a.client.EnqueueContext(ctx, asynq.NewTask(task.Type, task.Payload), asynqOpts...)
	return err
}

func (a *asynqClient) Close() error {
	return a.client.Close()
}

type asynqInspector struct {
	inspector *asynq.Inspector
}

var _ Inspector = (*asynqInspector)(nil)

// NewInspector builds an asynq inspector from a redis:// URL.
func NewInspector(redisURL string) (Inspector, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("asynq: parse redis url: %w", err)
	}
	return &asynqInspector{inspector: asynq.NewInspector(opt)}, nil
}

func (a *asynqInspector) DeleteTask(queue, taskID string) error {
	return a.inspector.DeleteTask(queue, taskID)
}

// Server wraps the asynq worker.
type Server struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewServer builds a worker consuming the given queues with equal weight.
func NewServer(redisURL string, queues ...string) (*Server, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("asynq: parse redis url: %w", err)
	}

	weights := make(map[string]int, len(queues))
	for _, q := range queues {
		weights[q] = 1
	}

	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 10,
		Queues:      weights,
	})

	return &Server{
		server: srv,
		mux:    asynq.NewServeMux(),
	}, nil
}

// HandleFunc registers a handler for a task type.
func (s *Server) HandleFunc(taskType string, handler func(ctx context.Context, payload []byte) error) {
	s.mux.HandleFunc(taskType, func(ctx context.Context, t *asynq.Task) error {
		return handler(ctx, t.Payload())
	})
}

// Start runs the worker in a background goroutine.
func (s *Server) Start() error {
	if err := s.server.Start(s.mux); err != nil {
		return fmt.Errorf("asynq: start server: %w", err)
	}
	logger.Info("Task worker started")
	return nil
}

func (s *Server) Shutdown() {
	s.server.Shutdown()
}
