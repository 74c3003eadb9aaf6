// Package log provides the structured logger shared by fish packages.
//
// Loggers are logr.Logger values. New builds one on top of zap; Log returns
// the process-wide logger, which discards everything until SetLogger is
// called. Verbosity follows logr: V(0) is info, V(1) is debug.
package log

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	// Level is one of "debug", "info", "warn", "error". Empty means info.
	Level string
	// Format is "console" or "json". Empty means console.
	Format string
	// Development enables zap's development mode (stack traces on warnings).
	Development bool
}

var (
	global   = logr.Discard()
	globalMu sync.RWMutex
)

// SetLogger replaces the process-wide logger.
func SetLogger(l logr.Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = l
}

// Log returns the process-wide logger.
func Log() logr.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// New builds a zap-backed logger.
func New(opts Options) (logr.Logger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return logr.Discard(), err
	}

	cfg := zap.NewProductionConfig()
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = !opts.Development

	switch strings.ToLower(opts.Format) {
	case "", "console":
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	case "json":
		cfg.Encoding = "json"
	default:
		return logr.Discard(), fmt.Errorf("unknown log format %q (use console or json)", opts.Format)
	}

	zl, err := cfg.Build()
	if err != nil {
		return logr.Discard(), fmt.Errorf("failed to build logger: %w", err)
	}
	return zapr.NewLogger(zl), nil
}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}
