// Package logging adapts zap to the runtime.Logger interface so code outside
// the Nakama server logs through the same API as the match handler.
package logging

import (
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger implements runtime.Logger on top of a zap.Logger.
type Logger struct {
	zl     *zap.Logger
	fields map[string]interface{}
}

// New wraps zl. A nil zl yields a no-op logger.
func New(zl *zap.Logger) *Logger {
	if zl == nil {
		zl = zap.NewNop()
	}
	return &Logger{zl: zl, fields: map[string]interface{}{}}
}

// NewDevelopment returns a console logger at the given level ("debug", "info", ...).
func NewDevelopment(level string) (*Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	zl, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return New(zl), nil
}

func (l *Logger) Debug(format string, v ...interface{}) { l.zl.Debug(fmt.Sprintf(format, v...)) }
func (l *Logger) Info(format string, v ...interface{})  { l.zl.Info(fmt.Sprintf(format, v...)) }
func (l *Logger) Warn(format string, v ...interface{})  { l.zl.Warn(fmt.Sprintf(format, v...)) }
func (l *Logger) Error(format string, v ...interface{}) { l.zl.Error(fmt.Sprintf(format, v...)) }

func (l *Logger) WithField(key string, v interface{}) runtime.Logger {
	return l.WithFields(map[string]interface{}{key: v})
}

func (l *Logger) WithFields(fields map[string]interface{}) runtime.Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	zf := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		merged[k] = v
		zf = append(zf, zap.Any(k, v))
	}
	return &Logger{zl: l.zl.With(zf...), fields: merged}
}

func (l *Logger) Fields() map[string]interface{} {
	return l.fields
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zl.Sync()
}

var _ runtime.Logger = (*Logger)(nil)
