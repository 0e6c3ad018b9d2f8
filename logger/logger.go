// Package logger provides the global structured logger for sparq.
//
// The logger is a zap.SugaredLogger initialized once at process start.
// Package-level wrappers are nil-safe so that library code can log before
// Initialize is called (a no-op logger is installed at package load).
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger instance.
	Logger *zap.SugaredLogger
	// JSONOutput tracks whether JSON output is enabled.
	JSONOutput bool
)

func init() {
	// Safe no-op logger at package load time so callers never hit a nil
	// pointer before Initialize runs.
	Logger = zap.NewNop().Sugar()
}

// Initialize sets up the global logger. With jsonOutput the logger emits
// machine-readable production JSON; otherwise a human-readable console
// encoder is used. debug lowers the level to Debug, which is what the
// engine's debug mode rides on.
func Initialize(jsonOutput, debug bool) error {
	JSONOutput = jsonOutput

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	var zapLogger *zap.Logger
	if jsonOutput {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		built, err := config.Build()
		if err != nil {
			return err
		}
		zapLogger = built
	} else {
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapLogger = zap.New(
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(encoderConfig),
				zapcore.AddSync(os.Stderr),
				level,
			),
		)
	}

	Logger = zapLogger.Sugar()
	return nil
}

// Cleanup flushes any buffered log entries.
func Cleanup() {
	if Logger != nil {
		Logger.Sync()
	}
}

// Info logs an info message
func Info(args ...interface{}) {
	if Logger != nil {
		Logger.Info(args...)
	}
}

// Infof logs a formatted info message
func Infof(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Infof(format, args...)
	}
}

// Infow logs an info message with structured fields
func Infow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Infow(msg, keysAndValues...)
	}
}

// Error logs an error message
func Error(args ...interface{}) {
	if Logger != nil {
		Logger.Error(args...)
	}
}

// Errorw logs an error message with structured fields
func Errorw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Errorw(msg, keysAndValues...)
	}
}

// Warnw logs a warning message with structured fields
func Warnw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Warnw(msg, keysAndValues...)
	}
}

// Debugw logs a debug message with structured fields
func Debugw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Debugw(msg, keysAndValues...)
	}
}
