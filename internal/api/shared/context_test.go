package shared

import (
	"context"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	withTrace := SetTraceID(ctx)
	traceID := GetTraceID(withTrace)
	assert.Len(t, traceID, 32)

	_, err := hex.DecodeString(traceID)
	assert.NoError(t, err)
	assert.Empty(t, GetTraceID(ctx), "original context must be unchanged")
}

func TestGetTraceIDWithInvalidContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), TraceIDKey, 123)
	assert.Empty(t, GetTraceID(ctx))
}

func TestTraceIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		id := GetTraceID(SetTraceID(context.Background()))
		require.False(t, seen[id], "duplicate trace ID %s", id)
		seen[id] = true
	}
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

type shortReader struct{}

func (shortReader) Read(p []byte) (int, error) {
	if len(p) > 4 {
		p = p[:4]
	}
	for i := range p {
		p[i] = 0xAB
	}
	return len(p), errors.New("short read")
}

func TestGenerateTraceIDFallback(t *testing.T) {
	for name, src := range map[string]interface {
		Read([]byte) (int, error)
	}{
		"failing": failingReader{},
		"partial": shortReader{},
	} {
		t.Run(name, func(t *testing.T) {
			id := generateTraceID(src)
			assert.Len(t, id, 32)
			_, err := hex.DecodeString(id)
			assert.NoError(t, err)
		})
	}
}

func TestSessionIDContext(t *testing.T) {
	_, ok := GetSessionID(context.Background())
	assert.False(t, ok)

	_, ok = GetSessionID(WithSessionID(context.Background(), ""))
	assert.False(t, ok)

	id, ok := GetSessionID(WithSessionID(context.Background(), "abc"))
	assert.True(t, ok)
	assert.Equal(t, "abc", id)
}
