package lifecycle

import "context"

// HookFunc 钩子函数
type HookFunc func(ctx context.Context) error

// WorkerHookFunc 协程退出钩子，err 为协程返回的错误
type WorkerHookFunc func(name string, err error)

type hooks struct {
	onStartup    []HookFunc
	onWorkerExit []WorkerHookFunc
	onShutdown   []HookFunc
}

func callAll(ctx context.Context, fns []HookFunc) error {
	for _, fn := range fns {
		if err := fn(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (h *hooks) callWorkerExit(name string, err error) {
	for _, fn := range h.onWorkerExit {
		fn(name, err)
	}
}
