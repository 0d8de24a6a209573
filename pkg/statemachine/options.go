package statemachine

import "github.com/junbin-yang/go-fsmerge/pkg/logger"

// Option 状态机构建选项
type Option func(*options)

type options struct {
	log       logger.Logger
	observers []TransitionFunc
	validate  bool
}

func newOptions(opts ...Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Default()
	}
	return o
}

// WithLogger 设置日志实现，默认使用 logger.Default()
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithObserver 注册转换完成后的回调，可多次调用
func WithObserver(fn TransitionFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.observers = append(o.observers, fn)
		}
	}
}

// WithValidation 构建时执行 Validate，不通过则返回 ValidationError
func WithValidation() Option {
	return func(o *options) {
		o.validate = true
	}
}
