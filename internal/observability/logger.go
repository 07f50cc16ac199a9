package observability

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a JSON production logger writing to stderr. verbose lowers the level to debug.
func NewLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// MustLogger is NewLogger that falls back to a no-op logger when construction fails.
func MustLogger(verbose bool) *zap.Logger {
	logger, err := NewLogger(verbose)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
