package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/viral-scripts/internal/domain"
	"github.com/phrazzld/viral-scripts/internal/generation"
)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	// GenerateScriptFn allows test cases to mock the GenerateScript behavior
	GenerateScriptFn func(ctx context.Context, lang domain.Language, topic domain.Topic) (*domain.ScriptResponse, error)

	// Default response values
	Response *domain.ScriptResponse
	Err      error

	// Gate, when non-nil, holds every call until a value is received from it or
	// the context is done. Tests use it to keep a generation in flight.
	Gate chan struct{}

	// Call tracking for verification
	GenerateScriptCalls struct {
		// mu protects the call tracking state for concurrent test cases
		mu sync.Mutex

		// Count tracks how many times GenerateScript was called
		Count int

		// Languages contains all languages passed to GenerateScript calls
		Languages []domain.Language

		// Topics contains all topics passed to GenerateScript calls
		Topics []domain.Topic
	}

	// started is closed on the first call
	startedOnce sync.Once
	started     chan struct{}
	initOnce    sync.Once
}

var _ generation.Generator = (*MockGenerator)(nil)

func (m *MockGenerator) init() {
	m.initOnce.Do(func() {
		m.started = make(chan struct{})
	})
}

// GenerateScript implements the generation.Generator interface
func (m *MockGenerator) GenerateScript(
	ctx context.Context,
	lang domain.Language,
	topic domain.Topic,
) (*domain.ScriptResponse, error) {
	m.init()

	// Track call details for verification
	m.GenerateScriptCalls.mu.Lock()
	m.GenerateScriptCalls.Count++
	m.GenerateScriptCalls.Languages = append(m.GenerateScriptCalls.Languages, lang)
	m.GenerateScriptCalls.Topics = append(m.GenerateScriptCalls.Topics, topic)
	m.GenerateScriptCalls.mu.Unlock()

	m.startedOnce.Do(func() { close(m.started) })

	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	// Use custom function if provided
	if m.GenerateScriptFn != nil {
		return m.GenerateScriptFn(ctx, lang, topic)
	}

	// Return default values
	return m.Response, m.Err
}

// Started returns a channel that is closed once GenerateScript has been entered.
func (m *MockGenerator) Started() <-chan struct{} {
	m.init()
	return m.started
}

// CallCount returns how many times GenerateScript was called
func (m *MockGenerator) CallCount() int {
	m.GenerateScriptCalls.mu.Lock()
	defer m.GenerateScriptCalls.mu.Unlock()
	return m.GenerateScriptCalls.Count
}

// NewMockGeneratorWithResponse creates a MockGenerator that returns the specified response
func NewMockGeneratorWithResponse(resp *domain.ScriptResponse) *MockGenerator {
	return &MockGenerator{
		Response: resp,
	}
}

// NewMockGeneratorWithError creates a MockGenerator that returns the specified error
func NewMockGeneratorWithError(err error) *MockGenerator {
	return &MockGenerator{
		Err: err,
	}
}

// MockGeneratorWithEmptyResponse creates a MockGenerator that simulates a model
// call that produced no text
func MockGeneratorWithEmptyResponse() *MockGenerator {
	return &MockGenerator{
		Err: generation.ErrEmptyResponse,
	}
}

// MockGeneratorWithTransportFailure creates a MockGenerator that simulates a network failure
func MockGeneratorWithTransportFailure() *MockGenerator {
	return &MockGenerator{
		Err: generation.ErrTransportFailure,
	}
}

// Reset resets the call tracking state
func (m *MockGenerator) Reset() {
	m.GenerateScriptCalls.mu.Lock()
	defer m.GenerateScriptCalls.mu.Unlock()

	m.GenerateScriptCalls.Count = 0
	m.GenerateScriptCalls.Languages = nil
	m.GenerateScriptCalls.Topics = nil
}
