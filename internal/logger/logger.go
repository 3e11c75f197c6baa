// Package logger provides package-level leveled logging backed by zap, with
// an optional rotating file sink. Rotation by size and age replaces the old
// pipeline's hand-rolled log cleaning.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var sugar = zap.NewNop().Sugar()

// Init configures the package logger. An empty file disables the file sink;
// console output always goes to stderr.
func Init(level, file string, maxSizeMB, maxAgeDays int) {
	var lvl zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = zapcore.DebugLevel
	case "warn":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	default:
		lvl = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stderr),
			lvl,
		),
	}

	if file != "" {
		rotating := &lumberjack.Logger{
			Filename: file,
			MaxSize:  maxSizeMB,
			MaxAge:   maxAgeDays,
			Compress: false,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encCfg),
			zapcore.AddSync(rotating),
			lvl,
		))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	sugar = logger.Sugar()
}

// Sync flushes any buffered log entries
func Sync() {
	_ = sugar.Sync()
}

// Debug logs a formatted message at debug level
func Debug(format string, args ...interface{}) {
	sugar.Debugf(format, args...)
}

// Info logs a formatted message at info level
func Info(format string, args ...interface{}) {
	sugar.Infof(format, args...)
}

// Warn logs a formatted message at warn level
func Warn(format string, args ...interface{}) {
	sugar.Warnf(format, args...)
}

// Error logs a formatted message at error level
func Error(format string, args ...interface{}) {
	sugar.Errorf(format, args...)
}

// Fatal logs a formatted message and exits
func Fatal(format string, args ...interface{}) {
	sugar.Fatalf(format, args...)
}
