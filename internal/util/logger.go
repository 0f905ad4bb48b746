// Package util holds the process-wide logger, tracer and metrics shared by
// the API server and the post-confirmation Lambda.
package util

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const appName = "glamgo"

var logger *zap.Logger

// InitLogger builds the global logger. "production" writes JSON lines with
// ISO8601 timestamps, which CloudWatch indexes; any other env gets the
// colored console encoder. Every entry carries the app and env.
func InitLogger(env string) error {
	base, err := newLogger(env)
	if err != nil {
		return err
	}

	logger = base.With(zap.String("app", appName), zap.String("env", env))
	zap.ReplaceGlobals(logger)
	return nil
}

func newLogger(env string) (*zap.Logger, error) {
	if env != "production" {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg.Build()
	}

	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	// Role assignment lines repeat per sign-up and must not be sampled away.
	cfg.Sampling = nil
	return cfg.Build()
}

// GetLogger returns the logger set by InitLogger. Before that it returns
// zap's global logger, a no-op unless something replaced it.
func GetLogger() *zap.Logger {
	if logger == nil {
		return zap.L()
	}
	return logger
}

// SyncLogger flushes buffered entries. Call it before the process exits.
func SyncLogger() {
	if logger != nil {
		_ = logger.Sync()
	}
}
