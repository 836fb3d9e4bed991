// Package logger provides a zap-based application logger.
package logger

import (
	"context"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level aliases the zap level type for callers.
type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// TraceIDFn extracts a trace id from the context for log correlation.
type TraceIDFn func(ctx context.Context) string

// Logger writes structured JSON records enriched with the service name and,
// when available, the current trace id.
type Logger struct {
	sugar     *zap.SugaredLogger
	traceIDFn TraceIDFn
}

// New constructs a Logger writing to w at the given minimum level.
func New(w io.Writer, minLevel Level, service string, traceIDFn TraceIDFn) *Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(w),
		minLevel,
	)
	sugar := zap.New(core).Sugar().With("service", service)
	return &Logger{sugar: sugar, traceIDFn: traceIDFn}
}

// Debug logs at debug level.
func (l *Logger) Debug(ctx context.Context, msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, l.enrich(ctx, keysAndValues)...)
}

// Info logs at info level.
func (l *Logger) Info(ctx context.Context, msg string, keysAndValues ...any) {
	l.sugar.Infow(msg, l.enrich(ctx, keysAndValues)...)
}

// Warn logs at warn level.
func (l *Logger) Warn(ctx context.Context, msg string, keysAndValues ...any) {
	l.sugar.Warnw(msg, l.enrich(ctx, keysAndValues)...)
}

// Error logs at error level.
func (l *Logger) Error(ctx context.Context, msg string, keysAndValues ...any) {
	l.sugar.Errorw(msg, l.enrich(ctx, keysAndValues)...)
}

// Sync flushes any buffered records.
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}

func (l *Logger) enrich(ctx context.Context, keysAndValues []any) []any {
	if l.traceIDFn == nil {
		return keysAndValues
	}
	if id := l.traceIDFn(ctx); id != "" {
		return append(keysAndValues, "trace_id", id)
	}
	return keysAndValues
}
