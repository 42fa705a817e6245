package state

import "log/slog"

// Logger is the logging surface used across furry-grid components.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// DefaultLogger returns l, or slog.Default when l is nil.
func DefaultLogger(l Logger) Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

// DiscardLogger drops every message.
type DiscardLogger struct{}

func (DiscardLogger) Debug(string, ...any) {}
func (DiscardLogger) Info(string, ...any)  {}
func (DiscardLogger) Warn(string, ...any)  {}
func (DiscardLogger) Error(string, ...any) {}
