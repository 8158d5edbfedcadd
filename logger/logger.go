package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var defaultLogger *zap.Logger

func init() {
	defaultLogger = build(os.Getenv("LOG_LEVEL"))
}

func build(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	switch strings.ToLower(level) {
	case "debug":
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	return l
}

func Debug(format string, args ...interface{}) { defaultLogger.Debug(fmt.Sprintf(format, args...)) }
func Info(format string, args ...interface{})  { defaultLogger.Info(fmt.Sprintf(format, args...)) }
func Warn(format string, args ...interface{})  { defaultLogger.Warn(fmt.Sprintf(format, args...)) }
func Error(format string, args ...interface{}) { defaultLogger.Error(fmt.Sprintf(format, args...)) }

func Fatal(format string, args ...interface{}) {
	defaultLogger.Fatal(fmt.Sprintf(format, args...))
}

// Sync flushes buffered entries. Called on shutdown.
func Sync() {
	_ = defaultLogger.Sync()
}
