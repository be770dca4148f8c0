package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

var (
	current Level = LevelInfo
	sugar         = newLogger(LevelInfo, "console").Sugar()
)

// ParseLevel maps debug|info|error to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// InitFromEnv sets the log level based on LOG_LEVEL (debug|info|error) and the
// encoding based on LOG_FORMAT (console|json).
func InitFromEnv() {
	Init(ParseLevel(os.Getenv("LOG_LEVEL")), os.Getenv("LOG_FORMAT"))
}

// Init replaces the package logger.
func Init(level Level, format string) {
	current = level
	sugar = newLogger(level, format).Sugar()
}

// Current reports the active level.
func Current() Level {
	return current
}

func newLogger(level Level, format string) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if strings.ToLower(format) == "json" {
		encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stdout), zap.NewAtomicLevelAt(level.zap()))
	return zap.New(core, zap.ErrorOutput(zapcore.Lock(os.Stderr)))
}

func (l Level) zap() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func Debugf(format string, args ...interface{}) {
	sugar.Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	sugar.Infof(format, args...)
}

func Errorf(format string, args ...interface{}) {
	sugar.Errorf(format, args...)
}

// Fatalf logs and exits with status 1.
func Fatalf(format string, args ...interface{}) {
	sugar.Fatalf(format, args...)
}

// Sync flushes buffered entries.
func Sync() {
	_ = sugar.Sync()
}
