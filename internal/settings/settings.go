// Package settings 加载 fsmerge 的运行时配置（日志与状态机选项）
package settings

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/junbin-yang/go-fsmerge/pkg/config"
	"github.com/junbin-yang/go-fsmerge/pkg/lifecycle"
	"github.com/junbin-yang/go-fsmerge/pkg/logger"
	"github.com/junbin-yang/go-fsmerge/pkg/statemachine"
)

// AppName 默认配置文件名（fsmerge.yml / fsmerge.json / fsmerge.ini）
const AppName = "fsmerge"

// Settings 运行时配置
type Settings struct {
	Logger  LoggerSettings  `yaml:"logger" json:"logger" ini:"logger"`
	Machine MachineSettings `yaml:"machine" json:"machine" ini:"machine"`
}

// LoggerSettings 日志配置
type LoggerSettings struct {
	Level        string        `yaml:"level" json:"level" ini:"level" env:"FSMERGE_LOG_LEVEL"`
	Output       string        `yaml:"output" json:"output" ini:"output" env:"FSMERGE_LOG_OUTPUT"` // stderr、stdout 或文件路径
	Rotate       string        `yaml:"rotate" json:"rotate" ini:"rotate"`                          // 文件输出时的轮转方式：size、time，空为不轮转
	MaxSizeMB    int           `yaml:"max_size_mb" json:"max_size_mb" ini:"max_size_mb"`
	MaxBackups   int           `yaml:"max_backups" json:"max_backups" ini:"max_backups"`
	MaxAgeDays   int           `yaml:"max_age_days" json:"max_age_days" ini:"max_age_days"`
	Compress     bool          `yaml:"compress" json:"compress" ini:"compress"`
	RotationTime time.Duration `yaml:"rotation_time" json:"rotation_time" ini:"rotation_time"`
}

// MachineSettings 状态机选项
type MachineSettings struct {
	Validate        bool          `yaml:"validate" json:"validate" ini:"validate" env:"FSMERGE_VALIDATE"`
	QueueSize       int           `yaml:"queue_size" json:"queue_size" ini:"queue_size" env:"FSMERGE_QUEUE_SIZE"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout" ini:"shutdown_timeout"` // 异步状态机退出等待时间
}

// Default 返回默认配置
func Default() *Settings {
	return &Settings{
		Logger: LoggerSettings{
			Level:  "info",
			Output: "stderr",
		},
		Machine: MachineSettings{
			QueueSize:       64,
			ShutdownTimeout: 5 * time.Second,
		},
	}
}

// NewManager 创建配置管理器，path 为空时按默认路径查找 fsmerge.*
func NewManager(opts ...config.Option) *config.Manager[Settings] {
	opts = append([]config.Option{config.WithAppName(AppName)}, opts...)
	return config.New(Default(), opts...)
}

// Load 加载配置文件
func Load(path string, opts ...config.Option) (*Settings, error) {
	cm := NewManager(opts...)
	if err := cm.Load(path); err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return cm.Get()
}

// NewLogger 按配置创建日志实例
func (s *Settings) NewLogger() (*logger.ZapLogger, error) {
	level, err := logger.ParseLevel(s.Logger.Level)
	if err != nil {
		return nil, err
	}
	out, err := s.Logger.writer()
	if err != nil {
		return nil, err
	}
	return logger.New(out, level, logger.AddCaller()), nil
}

func (l LoggerSettings) writer() (io.Writer, error) {
	switch l.Output {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	}

	cfg := &logger.RotateConfig{
		Filename:     l.Output,
		MaxSize:      l.MaxSizeMB,
		MaxBackups:   l.MaxBackups,
		MaxAge:       l.MaxAgeDays,
		Compress:     l.Compress,
		LocalTime:    true,
		RotationTime: l.RotationTime,
	}
	switch l.Rotate {
	case "size":
		return logger.NewRotateBySize(cfg), nil
	case "time":
		return logger.NewRotateByTime(cfg), nil
	case "":
		return os.OpenFile(l.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	default:
		return nil, fmt.Errorf("unknown log rotate mode %q", l.Rotate)
	}
}

// MachineOptions 转换为 Builder / Merge 选项
func (s *Settings) MachineOptions(l logger.Logger) []statemachine.Option {
	opts := []statemachine.Option{statemachine.WithLogger(l)}
	if s.Machine.Validate {
		opts = append(opts, statemachine.WithValidation())
	}
	return opts
}

// LifecycleOptions 转换为生命周期管理器选项
func (s *Settings) LifecycleOptions(l logger.Logger) []lifecycle.Option {
	opts := []lifecycle.Option{lifecycle.WithLogger(l)}
	if s.Machine.ShutdownTimeout > 0 {
		opts = append(opts, lifecycle.WithShutdownTimeout(s.Machine.ShutdownTimeout))
	}
	return opts
}

// Watch 配置文件变化时同步日志级别
func Watch(cm *config.Manager[Settings], l logger.Logger) error {
	cm.OnChange(func(old, new *Settings) {
		if old.Logger.Level == new.Logger.Level {
			return
		}
		level, err := logger.ParseLevel(new.Logger.Level)
		if err != nil {
			l.Warn("ignore invalid log level", logger.String("level", new.Logger.Level), logger.Err(err))
			return
		}
		l.SetLevel(level)
		l.Info("log level changed", logger.String("from", old.Logger.Level), logger.String("to", new.Logger.Level))
	})
	return cm.EnableWatch(true)
}
