package task

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MockTask is a simple implementation of the Task interface for testing
type MockTask struct {
	TaskID    uuid.UUID
	TaskType  string
	ExecuteFn func(ctx context.Context) error

	mu         sync.Mutex
	taskStatus TaskStatus
}

// NewMockTask creates a new MockTask with the given ID and type
func NewMockTask(id uuid.UUID, taskType string) *MockTask {
	return &MockTask{
		TaskID:     id,
		TaskType:   taskType,
		taskStatus: TaskStatusPending,
		ExecuteFn:  func(ctx context.Context) error { return nil },
	}
}

// ID returns the task's unique identifier
func (t *MockTask) ID() uuid.UUID {
	return t.TaskID
}

// Type returns the task type identifier
func (t *MockTask) Type() string {
	return t.TaskType
}

// Status returns the current task status
func (t *MockTask) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.taskStatus
}

// Execute runs ExecuteFn and records the resulting status
func (t *MockTask) Execute(ctx context.Context) error {
	err := t.ExecuteFn(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.taskStatus = TaskStatusFailed
	} else {
		t.taskStatus = TaskStatusCompleted
	}
	return err
}
