package statemachine

import (
	"context"
	"sync"
)

// AsyncMachine 通过事件队列在后台协程中驱动状态机
type AsyncMachine struct {
	*SyncMachine
	eventQueue chan Event
	stopCh     chan struct{}
	startOnce  sync.Once
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// NewAsyncMachine 创建异步状态机，queueSize 为队列容量
func NewAsyncMachine(m *Machine, queueSize int) *AsyncMachine {
	if queueSize < 0 {
		queueSize = 0
	}
	return &AsyncMachine{
		SyncMachine: Synchronized(m),
		eventQueue:  make(chan Event, queueSize),
		stopCh:      make(chan struct{}),
	}
}

// Start 启动异步事件处理，重复调用只会启动一个处理协程
func (a *AsyncMachine) Start() {
	a.startOnce.Do(func() {
		a.wg.Add(1)
		go a.processEvents()
	})
}

// Stop 停止异步事件处理，队列中未处理的事件被丢弃
func (a *AsyncMachine) Stop() {
	a.stopOnce.Do(func() {
		close(a.stopCh)
	})
	a.wg.Wait()
}

// Post 将事件放入队列
func (a *AsyncMachine) Post(ctx context.Context, event Event) error {
	select {
	case <-a.stopCh:
		return ErrQueueClosed
	default:
	}

	select {
	case a.eventQueue <- event:
		return nil
	case <-a.stopCh:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// processEvents 处理事件队列
func (a *AsyncMachine) processEvents() {
	defer a.wg.Done()

	for {
		select {
		case <-a.stopCh:
			return
		case event := <-a.eventQueue:
			a.Fire(event)
		}
	}
}

// QueueLength 返回队列长度
func (a *AsyncMachine) QueueLength() int {
	return len(a.eventQueue)
}

// Run 启动事件处理并阻塞到 ctx 取消后停止，签名与 lifecycle.RunFunc 一致
func (a *AsyncMachine) Run(ctx context.Context) error {
	a.Start()
	<-ctx.Done()
	a.Stop()
	return nil
}
