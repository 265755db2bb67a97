// Package logger provides structured logging functionality for the application
// using Go's standard library log/slog package, with optional size-based file
// rotation and request-scoped loggers carried in context.
package logger
