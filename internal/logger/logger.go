// Package logger defines the structured-logging interface used across the
// node, decoupling the rest of the code from the concrete backend (see the
// zap subpackage for the production adapter).
package logger

import "chorddht/internal/ring"

// Field is a single structured log field.
type Field struct {
	Key string
	Val any
}

// F builds a Field.
func F(key string, val any) Field {
	return Field{Key: key, Val: val}
}

// FNode builds a Field carrying a ring.Node's id and address.
func FNode(key string, n ring.Node) Field {
	return Field{Key: key, Val: map[string]string{"id": n.ID.Hex(), "addr": n.Addr}}
}

// Logger is the structured logging interface every component depends on.
type Logger interface {
	Named(name string) Logger
	With(fields ...Field) Logger
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// NopLogger discards everything. It is the default when logging is
// disabled in configuration.
type NopLogger struct{}

func (NopLogger) Named(string) Logger          { return NopLogger{} }
func (NopLogger) With(...Field) Logger         { return NopLogger{} }
func (NopLogger) Debug(string, ...Field)       {}
func (NopLogger) Info(string, ...Field)        {}
func (NopLogger) Warn(string, ...Field)        {}
func (NopLogger) Error(string, ...Field)       {}
