package cefgo

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the package logger. It is a no-op logger by default; the
// refcount bridge emits allocation and teardown events through it at debug
// level, and panics contained at callback entry points at error level.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the package logger.
// Call before any objects are wrapped.
func SetLogger(l *zap.Logger) {
	logger = l
}
