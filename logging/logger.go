// Package logging provides structured logging for the runner and the shared
// console lock that serializes interleaved human-facing output.
package logging

import (
	"io"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a sugared logger writing human-readable output to w. Debug
// controls whether diagnostic-level entries are emitted.
func New(w io.Writer, debug bool) *zap.SugaredLogger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		MessageKey:     "msg",
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		level,
	)
	return zap.New(core).Sugar()
}

// Nop returns a logger that discards everything. Used in tests and as the
// default when no logger is supplied.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// ConsoleLock serializes console output across concurrently executing
// module pipelines. Observers hold the lock for the duration of one message
// render so interleaved lines stay whole.
type ConsoleLock struct {
	mu sync.Mutex
}

// With runs fn while holding the lock.
func (l *ConsoleLock) With(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn()
}
