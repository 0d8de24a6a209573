package lifecycle

import "context"

// RunFunc 协程运行函数，ctx 取消后应尽快返回
type RunFunc func(ctx context.Context) error

// StopFunc 协程停止函数
type StopFunc func(ctx context.Context) error

// Worker 协程抽象
type Worker struct {
	name     string
	runFunc  RunFunc
	stopFunc StopFunc
}

// WorkerOption 协程配置选项
type WorkerOption func(*Worker)

// WithStopFunc 设置停止函数，退出时按添加顺序的逆序调用
func WithStopFunc(stopFunc StopFunc) WorkerOption {
	return func(w *Worker) {
		w.stopFunc = stopFunc
	}
}

// Name 返回协程名称
func (w *Worker) Name() string {
	return w.name
}

func (w *Worker) stop(ctx context.Context) error {
	if w.stopFunc != nil {
		return w.stopFunc(ctx)
	}
	return nil
}
