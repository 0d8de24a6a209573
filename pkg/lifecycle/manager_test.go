package lifecycle

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/junbin-yang/go-fsmerge/pkg/logger"
	"github.com/junbin-yang/go-fsmerge/pkg/statemachine"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestManager(opts ...Option) *Manager {
	opts = append([]Option{
		WithSignals(),
		WithShutdownTimeout(time.Second),
		WithLogger(logger.New(&bytes.Buffer{}, logger.DebugLevel)),
	}, opts...)
	return NewManager(opts...)
}

// runAsync 在后台运行管理器，启动钩子执行后返回
func runAsync(t *testing.T, m *Manager) <-chan error {
	t.Helper()
	started := make(chan struct{})
	m.OnStartup(func(ctx context.Context) error {
		close(started)
		return nil
	})

	done := make(chan error, 1)
	go func() {
		done <- m.Run(context.Background())
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("管理器未启动")
	}
	return done
}

func TestManager_AddWorker(t *testing.T) {
	m := newTestManager()

	if err := m.AddWorker("test", func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("添加协程失败: %v", err)
	}
	if err := m.AddWorker("test", func(ctx context.Context) error { return nil }); err != ErrWorkerExists {
		t.Errorf("期望 ErrWorkerExists, got %v", err)
	}
}

func TestManager_Shutdown(t *testing.T) {
	m := newTestManager()

	var mu sync.Mutex
	var order []string
	record := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, s)
	}

	for _, name := range []string{"first", "second"} {
		name := name
		_ = m.AddWorker(name,
			func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
			WithStopFunc(func(ctx context.Context) error {
				record("stop " + name)
				return nil
			}),
		)
	}
	m.OnShutdown(func(ctx context.Context) error {
		record("shutdown")
		return nil
	})

	done := runAsync(t, m)
	if err := m.Shutdown(); err != nil {
		t.Errorf("Shutdown 返回错误: %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Run 返回错误: %v", err)
	}

	// 停止函数按添加顺序的逆序调用
	want := []string{"stop second", "stop first", "shutdown"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("退出顺序不符 (-want +got):\n%s", diff)
	}
}

func TestManager_WorkerError(t *testing.T) {
	m := newTestManager()
	boom := errors.New("boom")

	var exited []string
	var mu sync.Mutex
	m.OnWorkerExit(func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		exited = append(exited, name)
	})

	_ = m.AddWorker("failing", func(ctx context.Context) error { return boom })
	_ = m.AddWorker("waiting", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})

	err := m.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("期望协程错误, got %v", err)
	}
	if len(exited) != 2 {
		t.Errorf("全部协程都应退出: %v", exited)
	}
}

func TestManager_AllWorkersDone(t *testing.T) {
	m := newTestManager()
	_ = m.AddWorker("once", func(ctx context.Context) error { return nil })

	shutdownCalled := false
	m.OnShutdown(func(ctx context.Context) error {
		shutdownCalled = true
		return nil
	})

	if err := m.Run(context.Background()); err != nil {
		t.Errorf("Run 返回错误: %v", err)
	}
	if !shutdownCalled {
		t.Error("OnShutdown 未被调用")
	}
}

func TestManager_ContextCancel(t *testing.T) {
	m := newTestManager()
	_ = m.AddWorker("waiting", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := m.Run(ctx); err != nil {
		t.Errorf("Run 返回错误: %v", err)
	}
}

func TestManager_ShutdownTimeout(t *testing.T) {
	m := newTestManager(WithShutdownTimeout(50 * time.Millisecond))

	release := make(chan struct{})
	_ = m.AddWorker("stuck", func(ctx context.Context) error {
		<-release
		return nil
	})

	done := runAsync(t, m)
	if err := m.Shutdown(); err != ErrShutdownTimeout {
		t.Errorf("期望 ErrShutdownTimeout, got %v", err)
	}
	<-done
	close(release)
	// 等待卡住的协程退出，避免泄漏检测失败
	time.Sleep(50 * time.Millisecond)
}

func TestManager_StartupHookError(t *testing.T) {
	m := newTestManager()
	m.OnStartup(func(ctx context.Context) error { return errors.New("not ready") })

	if err := m.Run(context.Background()); err == nil {
		t.Error("启动钩子失败时 Run 应返回错误")
	}
}

func TestManager_States(t *testing.T) {
	m := newTestManager()

	if err := m.Shutdown(); err != ErrNotRunning {
		t.Errorf("期望 ErrNotRunning, got %v", err)
	}

	_ = m.AddWorker("waiting", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	done := runAsync(t, m)

	if err := m.Run(context.Background()); err != ErrAlreadyRunning {
		t.Errorf("期望 ErrAlreadyRunning, got %v", err)
	}
	if err := m.AddWorker("late", func(ctx context.Context) error { return nil }); err != ErrAlreadyRunning {
		t.Errorf("运行中添加协程应失败, got %v", err)
	}

	_ = m.Shutdown()
	<-done
}

func TestManager_AsyncMachineWorker(t *testing.T) {
	m1, err := statemachine.NewBuilder().
		AddState("On").
		AddState("Off").
		AddTransition("On", "Click", statemachine.Const("Off")).
		AddTransition("Off", "Click", statemachine.Const("On")).
		Build(1, statemachine.Const("Off"))
	if err != nil {
		t.Fatalf("构建状态机失败: %v", err)
	}
	a := statemachine.NewAsyncMachine(m1, 4)

	m := newTestManager()
	_ = m.AddWorker("switch", a.Run)
	done := runAsync(t, m)

	if err := a.Post(context.Background(), "Click"); err != nil {
		t.Fatalf("投递事件失败: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for a.Current() != "On" {
		if time.Now().After(deadline) {
			t.Fatal("事件未被处理")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := m.Shutdown(); err != nil {
		t.Errorf("Shutdown 返回错误: %v", err)
	}
	<-done
	if err := a.Post(context.Background(), "Click"); err != statemachine.ErrQueueClosed {
		t.Errorf("退出后应拒绝新事件, got %v", err)
	}
}
