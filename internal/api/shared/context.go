package shared

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"io"
	"log/slog"
	"time"
)

// ContextKey is the type of the request context keys set by the API.
type ContextKey string

const (
	// SessionIDContextKey holds the id of the session a request was
	// authorized for.
	SessionIDContextKey ContextKey = "sessionID"

	// TraceIDKey holds the request's trace ID.
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of random bytes in a trace ID.
	TraceIDLength = 16
)

// SetTraceID returns ctx carrying a fresh trace ID.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID(rand.Reader))
}

// GetTraceID returns the trace ID in ctx, or "" when there is none.
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// WithSessionID returns ctx carrying the authorized session id.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDContextKey, sessionID)
}

// GetSessionID returns the authorized session id in ctx.
func GetSessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionIDContextKey).(string)
	return id, ok && id != ""
}

// generateTraceID reads a 32 hex character ID from src, falling back to a
// clock-derived value if src fails.
func generateTraceID(src io.Reader) string {
	b := make([]byte, TraceIDLength)
	if n, err := io.ReadFull(src, b); err != nil {
		slog.Error("failed to generate random trace ID",
			"error", err,
			"bytes_read", n,
			"fallback", "time-based generation")
		return fallbackTraceID()
	}
	return hex.EncodeToString(b)
}

func fallbackTraceID() string {
	b := make([]byte, TraceIDLength)
	now := time.Now()
	binary.BigEndian.PutUint64(b[:8], uint64(now.UnixNano()))
	binary.BigEndian.PutUint64(b[8:], uint64(now.Unix())^uint64(now.Nanosecond())<<32)
	return hex.EncodeToString(b)
}
