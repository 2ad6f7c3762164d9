package task

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/viral-scripts/internal/domain"
	"github.com/phrazzld/viral-scripts/internal/generation"
	"github.com/phrazzld/viral-scripts/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedResult struct {
	calls int
	resp  *domain.ScriptResponse
	err   error
}

func (c *capturedResult) record(resp *domain.ScriptResponse, err error) {
	c.calls++
	c.resp = resp
	c.err = err
}

func TestNewGenerationTask_Validation(t *testing.T) {
	_, err := NewGenerationTask("s1", domain.LanguageEnglish, "x", nil, func(*domain.ScriptResponse, error) {}, nil)
	assert.Error(t, err)

	_, err = NewGenerationTask("s1", domain.LanguageEnglish, "x", &mocks.MockGenerator{}, nil, nil)
	assert.Error(t, err)
}

func TestGenerationTask_Success(t *testing.T) {
	want := mocks.SampleScriptResponse("Moon landing hoax")
	gen := mocks.NewMockGeneratorWithResponse(want)
	var result capturedResult

	task, err := NewGenerationTask("s1", domain.LanguageEnglish, "Moon landing hoax", gen, result.record, setupTestLogger())
	require.NoError(t, err)
	assert.Equal(t, TaskStatusPending, task.Status())
	assert.Equal(t, TaskTypeScriptGeneration, task.Type())

	require.NoError(t, task.Execute(context.Background()))

	assert.Equal(t, TaskStatusCompleted, task.Status())
	assert.Equal(t, 1, result.calls)
	assert.Same(t, want, result.resp)
	assert.NoError(t, result.err)
	assert.Equal(t, []domain.Language{domain.LanguageEnglish}, gen.GenerateScriptCalls.Languages)
	assert.Equal(t, []domain.Topic{"Moon landing hoax"}, gen.GenerateScriptCalls.Topics)
}

func TestGenerationTask_Failure(t *testing.T) {
	gen := mocks.NewMockGeneratorWithError(generation.ErrEmptyResponse)
	var result capturedResult

	task, err := NewGenerationTask("s1", domain.LanguageEnglish, "x", gen, result.record, setupTestLogger())
	require.NoError(t, err)

	err = task.Execute(context.Background())
	assert.ErrorIs(t, err, generation.ErrEmptyResponse)
	assert.Equal(t, TaskStatusFailed, task.Status())
	assert.Equal(t, 1, result.calls)
	assert.Nil(t, result.resp)
	assert.ErrorIs(t, result.err, generation.ErrEmptyResponse)
}

func TestGenerationTask_NilResponseIsEmpty(t *testing.T) {
	gen := &mocks.MockGenerator{}
	var result capturedResult

	task, err := NewGenerationTask("s1", domain.LanguageEnglish, "x", gen, result.record, setupTestLogger())
	require.NoError(t, err)

	err = task.Execute(context.Background())
	assert.ErrorIs(t, err, generation.ErrEmptyResponse)
	assert.Equal(t, 1, result.calls)
}

func TestGenerationTask_PanicIsReported(t *testing.T) {
	gen := &mocks.MockGenerator{
		GenerateScriptFn: func(ctx context.Context, lang domain.Language, topic domain.Topic) (*domain.ScriptResponse, error) {
			panic("provider exploded")
		},
	}
	var result capturedResult

	task, err := NewGenerationTask("s1", domain.LanguageEnglish, "x", gen, result.record, setupTestLogger())
	require.NoError(t, err)

	err = task.Execute(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, generation.ErrGenerationFailed))
	assert.Equal(t, TaskStatusFailed, task.Status())
	assert.Equal(t, 1, result.calls)
	assert.Error(t, result.err)
}

func TestGenerationTask_Abort(t *testing.T) {
	gen := &mocks.MockGenerator{}
	var result capturedResult

	task, err := NewGenerationTask("s1", domain.LanguageEnglish, "x", gen, result.record, setupTestLogger())
	require.NoError(t, err)

	task.Abort(ErrPoolStopped)

	assert.Equal(t, TaskStatusFailed, task.Status())
	assert.Equal(t, 1, result.calls)
	assert.Nil(t, result.resp)
	assert.ErrorIs(t, result.err, ErrPoolStopped)
	assert.Empty(t, gen.GenerateScriptCalls.Topics, "an aborted task never reaches the generator")
}
