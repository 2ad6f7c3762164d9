package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/viral-scripts/internal/domain"
	"github.com/phrazzld/viral-scripts/internal/generation"
)

// GenerationResultFunc receives the outcome of a generation task. Exactly
// one of resp and err is non-nil.
type GenerationResultFunc func(resp *domain.ScriptResponse, err error)

// GenerationTask asks the generator for one script package and reports the
// outcome through a callback.
type GenerationTask struct {
	id        uuid.UUID
	sessionID string
	language  domain.Language
	topic     domain.Topic
	generator generation.Generator
	onResult  GenerationResultFunc
	logger    *slog.Logger

	mu     sync.Mutex
	status TaskStatus
}

var (
	_ Task    = (*GenerationTask)(nil)
	_ Aborter = (*GenerationTask)(nil)
)

// NewGenerationTask creates a pending GenerationTask.
func NewGenerationTask(
	sessionID string,
	language domain.Language,
	topic domain.Topic,
	generator generation.Generator,
	onResult GenerationResultFunc,
	logger *slog.Logger,
) (*GenerationTask, error) {
	if generator == nil {
		return nil, fmt.Errorf("generator cannot be nil")
	}
	if onResult == nil {
		return nil, fmt.Errorf("result callback cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.New()
	return &GenerationTask{
		id:        id,
		sessionID: sessionID,
		language:  language,
		topic:     topic,
		generator: generator,
		onResult:  onResult,
		logger: logger.With(
			"task_id", id,
			"task_type", TaskTypeScriptGeneration,
			"session_id", sessionID,
		),
		status: TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *GenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *GenerationTask) Type() string {
	return TaskTypeScriptGeneration
}

// Status returns the current task status
func (t *GenerationTask) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *GenerationTask) setStatus(status TaskStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = status
}

// Execute runs the generation and hands the result to the callback. The
// callback is invoked exactly once, even if the generator panics.
func (t *GenerationTask) Execute(ctx context.Context) (err error) {
	t.setStatus(TaskStatusProcessing)
	start := time.Now()

	t.logger.InfoContext(ctx, "generating script",
		"language", t.language.String(),
		"topic_length", len(t.topic))

	var resp *domain.ScriptResponse
	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = fmt.Errorf("%w: generator panicked: %v", generation.ErrGenerationFailed, r)
		}

		if err != nil {
			t.setStatus(TaskStatusFailed)
			t.logger.ErrorContext(ctx, "script generation failed",
				"duration_ms", time.Since(start).Milliseconds(),
				"error", err)
			t.onResult(nil, err)
			return
		}

		t.setStatus(TaskStatusCompleted)
		t.logger.InfoContext(ctx, "script generation completed",
			"duration_ms", time.Since(start).Milliseconds())
		t.onResult(resp, nil)
	}()

	resp, err = t.generator.GenerateScript(ctx, t.language, t.topic)
	if err == nil && resp == nil {
		err = fmt.Errorf("%w: generator returned no script", generation.ErrEmptyResponse)
	}
	return err
}

// Abort reports err through the callback for a task that never ran.
func (t *GenerationTask) Abort(err error) {
	t.setStatus(TaskStatusFailed)
	t.logger.Warn("script generation aborted", "error", err)
	t.onResult(nil, err)
}
