// Package diag builds the structured logger every pipeline stage writes
// through (SPEC_FULL.md §4.15): stage entry at debug, pass-level
// summaries at info, recoverable front-end diagnostics at warn, fatal
// contract violations at error. Fields are stable names (stage, function,
// pass, count) rather than interpolated free text, so records stay
// greppable.
package diag

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap.Logger at the given level ("debug", "info", "warn",
// "error"; anything else falls back to "info"). Output is human-readable
// console encoding, matching what a CLI user watches scroll by.
func NewLogger(level string) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.EncoderConfig.TimeKey = ""

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Stage logs a pipeline stage's entry at debug level, per §4.15.
func Stage(logger *zap.Logger, stage string) {
	logger.Debug("stage", zap.String("stage", stage))
}

// PassSummary logs a pass-level summary at info level: how many
// instructions or blocks a pass touched on a given function.
func PassSummary(logger *zap.Logger, pass, function string, count int) {
	logger.Info("pass summary",
		zap.String("pass", pass),
		zap.String("function", function),
		zap.Int("count", count),
	)
}
