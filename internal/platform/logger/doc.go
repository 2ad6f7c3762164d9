// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels. Components receive the *slog.Logger produced here
// and enrich it with their own attributes (session_id, trace_id, attempt).
package logger
