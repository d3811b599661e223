package zap

import (
	"go.uber.org/zap"

	"chorddht/internal/logger"
)

// Adapter implements logger.Logger on top of a *zap.Logger.
type Adapter struct {
	L *zap.Logger
}

// NewAdapter wraps an existing *zap.Logger.
func NewAdapter(l *zap.Logger) *Adapter {
	return &Adapter{L: l}
}

func toZapFields(fields []logger.Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		out[i] = zap.Any(f.Key, f.Val)
	}
	return out
}

func (a *Adapter) Named(name string) logger.Logger {
	return &Adapter{L: a.L.Named(name)}
}

func (a *Adapter) With(fields ...logger.Field) logger.Logger {
	return &Adapter{L: a.L.With(toZapFields(fields)...)}
}

func (a *Adapter) Debug(msg string, fields ...logger.Field) {
	a.L.Debug(msg, toZapFields(fields)...)
}

func (a *Adapter) Info(msg string, fields ...logger.Field) {
	a.L.Info(msg, toZapFields(fields)...)
}

func (a *Adapter) Warn(msg string, fields ...logger.Field) {
	a.L.Warn(msg, toZapFields(fields)...)
}

func (a *Adapter) Error(msg string, fields ...logger.Field) {
	a.L.Error(msg, toZapFields(fields)...)
}
