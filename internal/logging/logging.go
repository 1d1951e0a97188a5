package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap's sugared logger so callers use keyed logging
// (Infow, Warnw, ...) without importing zap directly.
type Logger struct {
	*zap.SugaredLogger
}

// creates a logger writing to stderr; verbose enables debug level
func NewLogger(verbose bool) *Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = !verbose

	base, err := cfg.Build()
	if err != nil {
		// zap's production config only fails on bad output paths
		base = zap.NewNop()
	}

	return &Logger{base.Sugar()}
}

// logger that discards everything, for tests and optional collaborators
func NewNop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

// child logger with fields attached to every entry
func (l *Logger) With(args ...interface{}) *Logger {
	return &Logger{l.SugaredLogger.With(args...)}
}
