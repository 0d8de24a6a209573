package logger

import (
	"time"

	"go.uber.org/zap"
)

type Field = zap.Field

type Option = zap.Option

func String(key, val string) Field                 { return zap.String(key, val) }
func Int(key string, val int) Field                { return zap.Int(key, val) }
func Bool(key string, val bool) Field              { return zap.Bool(key, val) }
func Duration(key string, val time.Duration) Field { return zap.Duration(key, val) }
func Any(key string, val interface{}) Field        { return zap.Any(key, val) }

// Err 以 "error" 为键记录错误
func Err(e error) Field { return zap.Error(e) }

func AddCaller() Option             { return zap.AddCaller() }
func AddCallerSkip(skip int) Option { return zap.AddCallerSkip(skip) }
