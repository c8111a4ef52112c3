package config

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log adalah logger global. Default no-op supaya package lain aman dipakai
// di test tanpa InitLogger.
var Log = zap.NewNop()

// InitLogger membangun logger produksi (JSON ke stdout).
// level: "debug", "info", "warn", "error" (default: "info")
func InitLogger(level string) error {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = logger.With(zap.String("service_name", "sitras-api"))
	return nil
}
