package mocks

import (
	"context"
	"sync"
	"time"
)

// MockSessionTokens stands in for *session.Tokens in HTTP tests.
type MockSessionTokens struct {
	// IssueFn allows test cases to mock the Issue behavior
	IssueFn func(ctx context.Context, sessionID string) (string, time.Time, error)

	// AuthorizeFn allows test cases to mock the Authorize behavior
	AuthorizeFn func(ctx context.Context, token, sessionID string) error

	// Default values used when functions aren't explicitly defined
	Token        string
	ExpiresAt    time.Time
	IssueErr     error
	AuthorizeErr error

	mu sync.Mutex
	// AuthorizeCalls records the tokens passed to Authorize
	AuthorizeCalls []string
}

// Issue returns IssueFn's result, or Token, ExpiresAt and IssueErr.
func (m *MockSessionTokens) Issue(ctx context.Context, sessionID string) (string, time.Time, error) {
	if m.IssueFn != nil {
		return m.IssueFn(ctx, sessionID)
	}
	return m.Token, m.ExpiresAt, m.IssueErr
}

// Authorize returns AuthorizeFn's result, or AuthorizeErr.
func (m *MockSessionTokens) Authorize(ctx context.Context, token, sessionID string) error {
	m.mu.Lock()
	m.AuthorizeCalls = append(m.AuthorizeCalls, token)
	m.mu.Unlock()

	if m.AuthorizeFn != nil {
		return m.AuthorizeFn(ctx, token, sessionID)
	}
	return m.AuthorizeErr
}

// Calls returns a copy of the tokens seen by Authorize.
func (m *MockSessionTokens) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.AuthorizeCalls...)
}
