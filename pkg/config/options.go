package config

import (
	"time"

	"github.com/junbin-yang/go-fsmerge/pkg/logger"
)

const defaultWatchInterval = 500 * time.Millisecond

// Option 配置管理器选项
type Option func(*settings)

type settings struct {
	appName       string
	serializer    Serializer
	forceFormat   Serializer
	defaultPaths  []string
	formats       []Serializer
	watchSet      bool
	watch         bool
	watchInterval time.Duration
	log           logger.Logger
}

// WithAppName 设置应用名称（用于默认配置文件名）
func WithAppName(name string) Option {
	return func(s *settings) {
		s.appName = name
	}
}

// WithSerializer 设置默认序列化器
func WithSerializer(ser Serializer) Option {
	return func(s *settings) {
		s.serializer = ser
	}
}

// WithForceFormat 强制指定配置格式（无视文件后缀）
func WithForceFormat(ser Serializer) Option {
	return func(s *settings) {
		s.forceFormat = ser
	}
}

// WithDefaultPaths 设置默认配置文件查找路径
func WithDefaultPaths(paths ...string) Option {
	return func(s *settings) {
		s.defaultPaths = paths
	}
}

// WithConfigFormats 设置支持的配置格式列表
func WithConfigFormats(formats ...Serializer) Option {
	return func(s *settings) {
		s.formats = formats
	}
}

// WithConfigWatch 启用配置文件监听（文件变化自动重载）
func WithConfigWatch(enable bool, interval time.Duration) Option {
	return func(s *settings) {
		s.watchSet = true
		s.watch = enable
		s.watchInterval = interval
		if interval == 0 {
			s.watchInterval = defaultWatchInterval
		}
	}
}

// WithLogger 设置重载、监听诊断信息的日志输出
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		s.log = l
	}
}
