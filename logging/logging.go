// Package logging builds the process-wide zap logger.
//
// Verbosity is the only environment-driven behavior of the binary: the
// TALLY_LOG variable selects the level (debug, info, warn, error),
// defaulting to warn so a normal run stays quiet on stderr.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvVar names the environment variable that selects the log level.
const EnvVar = "TALLY_LOG"

// New creates a console logger writing to stderr at the level selected
// by the environment.
func New() *zap.Logger {
	return NewAtLevel(ParseLevel(os.Getenv(EnvVar)))
}

// NewAtLevel creates a console logger writing to stderr at the given
// level.
func NewAtLevel(level zapcore.Level) *zap.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		level,
	)

	return zap.New(core)
}

// ParseLevel maps an environment value to a zap level. Unrecognized or
// empty values fall back to warn.
func ParseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}
