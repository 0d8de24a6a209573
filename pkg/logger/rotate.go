package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"gopkg.in/natefinch/lumberjack.v2"
)

// RotateConfig 日志轮转配置
type RotateConfig struct {
	Filename     string        // 日志文件路径
	MaxSize      int           // 按大小轮转：单个文件上限（MB）
	MaxBackups   int           // 按大小轮转：保留的旧文件数量
	MaxAge       int           // 保留天数
	Compress     bool          // 按大小轮转：是否压缩旧文件
	LocalTime    bool          // 使用本地时间命名备份文件
	RotationTime time.Duration // 按时间轮转：轮转周期
}

// NewRotateBySize 按文件大小轮转
func NewRotateBySize(cfg *RotateConfig) io.Writer {
	return &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
		LocalTime:  cfg.LocalTime,
	}
}

// NewProductionRotateBySize 使用默认参数按大小轮转：100MB，保留 30 天、10 个备份，压缩
func NewProductionRotateBySize(filename string) io.Writer {
	return NewRotateBySize(&RotateConfig{
		Filename:   filename,
		MaxSize:    100,
		MaxBackups: 10,
		MaxAge:     30,
		Compress:   true,
		LocalTime:  true,
	})
}

// NewRotateByTime 按时间轮转，文件名追加 .YYYYmmddHH 后缀，Filename 为指向最新文件的链接
//
// 创建失败时退回到标准错误输出。
func NewRotateByTime(cfg *RotateConfig) io.Writer {
	rotation := cfg.RotationTime
	if rotation <= 0 {
		rotation = 24 * time.Hour
	}
	maxAge := time.Duration(cfg.MaxAge) * 24 * time.Hour
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}

	clock := rotatelogs.UTC
	if cfg.LocalTime {
		clock = rotatelogs.Local
	}

	w, err := rotatelogs.New(
		cfg.Filename+".%Y%m%d%H",
		rotatelogs.WithLinkName(cfg.Filename),
		rotatelogs.WithMaxAge(maxAge),
		rotatelogs.WithRotationTime(rotation),
		rotatelogs.WithClock(clock),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[LOGGER] create time rotate writer failed: %v\n", err)
		return os.Stderr
	}
	return w
}
