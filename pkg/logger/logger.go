package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"
)

// Level 日志级别
type Level int8

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	PanicLevel
	FatalLevel
)

func (l Level) String() string {
	return toZapLevel(l).String()
}

// toZapLevel 映射到 zap 级别（跳过 DPanic）
func toZapLevel(l Level) zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case PanicLevel:
		return zapcore.PanicLevel
	case FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// ParseLevel 解析级别名称（debug/info/warn/error/panic/fatal），空字符串为 info
func ParseLevel(text string) (Level, error) {
	if strings.TrimSpace(text) == "" {
		return InfoLevel, nil
	}
	zl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(text)))
	if err != nil {
		return InfoLevel, fmt.Errorf("parse log level %q: %w", text, err)
	}
	switch zl {
	case zapcore.DebugLevel:
		return DebugLevel, nil
	case zapcore.InfoLevel:
		return InfoLevel, nil
	case zapcore.WarnLevel:
		return WarnLevel, nil
	case zapcore.ErrorLevel:
		return ErrorLevel, nil
	case zapcore.DPanicLevel, zapcore.PanicLevel:
		return PanicLevel, nil
	default:
		return FatalLevel, nil
	}
}

// Logger 日志接口，可通过 ReplaceDefault 替换为自定义实现
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Panic(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
	Panicf(format string, v ...interface{})
	Fatalf(format string, v ...interface{})

	SetLevel(level Level)
	Sync() error
}

var (
	stdMu sync.RWMutex
	std   Logger = New(os.Stderr, InfoLevel, AddCaller())
	// pkg 供包级函数使用，多跳过一层包级函数自身
	pkg = wrapperOf(std)
)

func wrapperOf(l Logger) Logger {
	if zl, ok := l.(*ZapLogger); ok {
		return zl.WithOptions(AddCallerSkip(1))
	}
	return l
}

func Default() Logger {
	stdMu.RLock()
	defer stdMu.RUnlock()
	return std
}

func ReplaceDefault(l Logger) {
	stdMu.Lock()
	defer stdMu.Unlock()
	std = l
	pkg = wrapperOf(l)
}

func pkgLogger() Logger {
	stdMu.RLock()
	defer stdMu.RUnlock()
	return pkg
}

func SetLevel(level Level) { Default().SetLevel(level) }

func Debug(msg string, fields ...Field) { pkgLogger().Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { pkgLogger().Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { pkgLogger().Warn(msg, fields...) }
func Error(msg string, fields ...Field) { pkgLogger().Error(msg, fields...) }
func Panic(msg string, fields ...Field) { pkgLogger().Panic(msg, fields...) }
func Fatal(msg string, fields ...Field) { pkgLogger().Fatal(msg, fields...) }

func Debugf(format string, v ...interface{}) { pkgLogger().Debugf(format, v...) }
func Infof(format string, v ...interface{})  { pkgLogger().Infof(format, v...) }
func Warnf(format string, v ...interface{})  { pkgLogger().Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { pkgLogger().Errorf(format, v...) }
func Panicf(format string, v ...interface{}) { pkgLogger().Panicf(format, v...) }
func Fatalf(format string, v ...interface{}) { pkgLogger().Fatalf(format, v...) }

func Sync() error { return Default().Sync() }
