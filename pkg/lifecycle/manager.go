package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/junbin-yang/go-fsmerge/pkg/logger"
)

// Manager 生命周期管理器
//
// Run 启动全部协程并阻塞，直到收到信号、调用 Shutdown、父 ctx 取消、
// 任一协程返回错误或全部协程自行退出，随后执行优雅退出。
type Manager struct {
	mu              sync.Mutex
	workers         []*Worker
	names           map[string]struct{}
	hooks           hooks
	signals         []os.Signal
	shutdownTimeout time.Duration
	log             logger.Logger

	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	result  error
}

// NewManager 创建生命周期管理器
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		names:           make(map[string]struct{}),
		signals:         []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		shutdownTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logger.Default()
	}
	return m
}

// AddWorker 添加协程，必须在 Run 之前调用
func (m *Manager) AddWorker(name string, runFunc RunFunc, opts ...WorkerOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return ErrAlreadyRunning
	}
	if _, exists := m.names[name]; exists {
		return ErrWorkerExists
	}

	w := &Worker{name: name, runFunc: runFunc}
	for _, opt := range opts {
		opt(w)
	}
	m.names[name] = struct{}{}
	m.workers = append(m.workers, w)
	return nil
}

// OnStartup 注册启动钩子，返回错误时 Run 直接失败
func (m *Manager) OnStartup(fn HookFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks.onStartup = append(m.hooks.onStartup, fn)
}

// OnWorkerExit 注册协程退出钩子
func (m *Manager) OnWorkerExit(fn WorkerHookFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks.onWorkerExit = append(m.hooks.onWorkerExit, fn)
}

// OnShutdown 注册退出钩子
func (m *Manager) OnShutdown(fn HookFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks.onShutdown = append(m.hooks.onShutdown, fn)
}

// Run 启动管理器并等待退出
func (m *Manager) Run(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	m.running = true
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	workers := append([]*Worker(nil), m.workers...)
	h := m.hooks
	m.mu.Unlock()

	defer m.cancel()
	err := m.run(ctx, workers, h)

	m.mu.Lock()
	m.result = err
	close(m.done)
	m.mu.Unlock()
	return err
}

// Shutdown 手动触发退出并等待 Run 返回
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return ErrNotRunning
	}
	cancel, done := m.cancel, m.done
	m.mu.Unlock()

	cancel()
	<-done

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result
}

func (m *Manager) run(ctx context.Context, workers []*Worker, h hooks) error {
	if len(m.signals) > 0 {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, m.signals...)
		defer stop()
	}

	if err := callAll(ctx, h.onStartup); err != nil {
		return fmt.Errorf("startup hook: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range workers {
		w := w
		g.Go(func() error {
			m.log.Debug("worker started", logger.String("worker", w.name))
			err := w.runFunc(gctx)
			if errors.Is(err, context.Canceled) {
				err = nil
			}
			h.callWorkerExit(w.name, err)
			if err != nil {
				m.log.Error("worker failed", logger.String("worker", w.name), logger.Err(err))
				return fmt.Errorf("worker %s: %w", w.name, err)
			}
			m.log.Debug("worker exited", logger.String("worker", w.name))
			return nil
		})
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- g.Wait()
	}()

	select {
	case <-gctx.Done():
		m.log.Info("shutting down", logger.Int("workers", len(workers)))
	case err := <-waitErr:
		// 全部协程已退出
		if err != nil {
			return err
		}
		return callAll(context.Background(), h.onShutdown)
	}

	return m.shutdown(workers, h, waitErr)
}

// shutdown 按添加顺序的逆序调用停止函数，并等待协程退出
func (m *Manager) shutdown(workers []*Worker, h hooks, waitErr <-chan error) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), m.shutdownTimeout)
	defer cancel()

	for i := len(workers) - 1; i >= 0; i-- {
		if err := workers[i].stop(shutdownCtx); err != nil {
			m.log.Warn("worker stop failed", logger.String("worker", workers[i].name), logger.Err(err))
		}
	}

	select {
	case err := <-waitErr:
		if err != nil {
			return err
		}
	case <-shutdownCtx.Done():
		m.log.Error("shutdown timeout", logger.Duration("timeout", m.shutdownTimeout))
		return ErrShutdownTimeout
	}

	return callAll(shutdownCtx, h.onShutdown)
}
