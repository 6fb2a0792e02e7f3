package obs

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	loggerOnce sync.Once
	logger     *zap.Logger
)

// LogConfig controls how the shared logger is built.
type LogConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string
	// Development switches to console encoding with caller info.
	Development bool
}

// InitLogger builds the shared logger. Safe to call once at startup;
// later calls are no-ops.
func InitLogger(cfg LogConfig) {
	loggerOnce.Do(func() {
		logger = buildLogger(cfg)
	})
}

// Logger returns the shared structured logger used across the service.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		logger = buildLogger(LogConfig{Level: "info"})
	})
	return logger
}

func buildLogger(cfg LogConfig) *zap.Logger {
	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.DisableCaller = true
		zc.DisableStacktrace = true
	}
	if lvl, err := zapcore.ParseLevel(cfg.Level); err == nil {
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	l, err := zc.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
