// Package log provides the structured logger used by every Room and
// subsystem. It wraps zap behind a small interface so call sites never
// depend on zap directly, mirroring the logger parameter threaded through
// wsnet2's Room/Client types.
package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the interface every component logs through.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	With(fields ...zap.Field) Logger
}

type zapLogger struct {
	s *zap.SugaredLogger
}

// Config controls where and how logs are written.
type Config struct {
	Level      string // debug, info, warn, error
	File       string // empty means stderr only
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func parseLevel(s string) zapcore.Level {
	switch s {
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

// New builds a Logger from Config. When File is set, logs are rotated
// through lumberjack in addition to being written to stderr.
func New(c Config) Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	level := parseLevel(c.Level)
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(zapcore.AddSync(os.Stderr)), level),
	}
	if c.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    orDefault(c.MaxSizeMB, 100),
			MaxBackups: orDefault(c.MaxBackups, 5),
			MaxAge:     orDefault(c.MaxAgeDays, 14),
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(rotator), level))
	}
	core := zapcore.NewTee(cores...)
	l := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	return &zapLogger{s: l.Sugar()}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func (l *zapLogger) Debugf(format string, args ...interface{}) { l.s.Debugf(format, args...) }
func (l *zapLogger) Infof(format string, args ...interface{})  { l.s.Infof(format, args...) }
func (l *zapLogger) Warnf(format string, args ...interface{})  { l.s.Warnf(format, args...) }
func (l *zapLogger) Errorf(format string, args ...interface{}) { l.s.Errorf(format, args...) }
func (l *zapLogger) Debug(msg string)                          { l.s.Debug(msg) }
func (l *zapLogger) Info(msg string)                           { l.s.Info(msg) }
func (l *zapLogger) Warn(msg string)                           { l.s.Warn(msg) }
func (l *zapLogger) Error(msg string)                           { l.s.Error(msg) }

func (l *zapLogger) With(fields ...zap.Field) Logger {
	return &zapLogger{s: l.s.Desugar().With(fields...).Sugar()}
}

// Nop returns a Logger that discards everything, useful for tests.
func Nop() Logger {
	return &zapLogger{s: zap.NewNop().Sugar()}
}
