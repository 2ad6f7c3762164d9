package task

import (
	"context"
	"fmt"
	"log/slog"
)

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// TaskRunner manages background task processing: a bounded queue drained by
// a worker pool.
type TaskRunner struct {
	queue  *TaskQueue
	pool   *WorkerPool
	logger *slog.Logger
}

// NewTaskRunner creates a new TaskRunner
func NewTaskRunner(config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	logger = logger.With("component", "task_runner")
	queue := NewTaskQueue(config.QueueSize, logger)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: config.WorkerCount}, logger)

	return &TaskRunner{
		queue:  queue,
		pool:   pool,
		logger: logger,
	}
}

// Submit adds a new task to the queue. It fails fast with ErrQueueFull or
// ErrQueueClosed rather than waiting for room.
func (r *TaskRunner) Submit(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("task not submitted: %w", err)
	}
	if err := r.queue.Enqueue(task); err != nil {
		r.logger.WarnContext(ctx, "failed to submit task",
			"task_id", task.ID(),
			"task_type", task.Type(),
			"error", err)
		return err
	}
	return nil
}

// Start begins processing tasks
func (r *TaskRunner) Start() error {
	r.pool.Start()
	return nil
}

// Stop gracefully shuts down the task runner. New submissions are refused,
// running tasks see their context cancelled, queued tasks are aborted, and
// Stop returns once every worker has exited.
func (r *TaskRunner) Stop() {
	r.queue.Close()
	r.pool.Stop()
}
