package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// LogLevel holds the runtime-adjustable level
	LogLevel = zap.NewAtomicLevel()
	// Logger is the process-wide logger
	Logger *zap.Logger
)

func init() {
	config := zap.NewProductionConfig()
	config.Level = LogLevel
	config.OutputPaths = []string{"stdout"}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	Logger, err = config.Build()
	if err != nil {
		panic(err)
	}

	zap.ReplaceGlobals(Logger)
}

// SetLevel adjusts the minimum level from its string form. Unknown values
// fall back to INFO.
func SetLevel(level string) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		LogLevel.SetLevel(zapcore.DebugLevel)
	case "WARN", "WARNING":
		LogLevel.SetLevel(zapcore.WarnLevel)
	case "ERROR":
		LogLevel.SetLevel(zapcore.ErrorLevel)
	default:
		LogLevel.SetLevel(zapcore.InfoLevel)
	}
}
