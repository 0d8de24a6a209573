package statemachine

import (
	"sync"
)

// SyncMachine 为 Machine 加锁，可在多个协程间共享
type SyncMachine struct {
	mu sync.Mutex
	m  *Machine
}

// Synchronized 包装状态机，之后应只通过返回值访问 m
func Synchronized(m *Machine) *SyncMachine {
	return &SyncMachine{m: m}
}

// Current 返回当前状态
func (s *SyncMachine) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Current()
}

// Version 返回版本号
func (s *SyncMachine) Version() int {
	return s.m.Version()
}

// On 触发事件并返回自身
func (s *SyncMachine) On(event Event) *SyncMachine {
	s.Fire(event)
	return s
}

// Fire 触发事件，返回是否发生了状态转换
func (s *SyncMachine) Fire(event Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Fire(event)
}

// Can 检查当前状态下事件是否有对应的转换
func (s *SyncMachine) Can(event Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Can(event)
}

// Reset 重新调用初始状态函数
func (s *SyncMachine) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.Reset()
}

// Snapshot 创建当前状态快照
func (s *SyncMachine) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Snapshot()
}

// Restore 从快照恢复当前状态
func (s *SyncMachine) Restore(snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Restore(snapshot)
}

// Group 按名称管理多个状态机
type Group struct {
	mu       sync.RWMutex
	machines map[string]StateMachine
}

// NewGroup 创建状态机分组
func NewGroup() *Group {
	return &Group{
		machines: make(map[string]StateMachine),
	}
}

// Add 添加状态机，同名时覆盖
func (g *Group) Add(name string, machine StateMachine) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.machines[name] = machine
}

// Remove 移除状态机
func (g *Group) Remove(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.machines, name)
}

// Get 获取状态机
func (g *Group) Get(name string) (StateMachine, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	machine, exists := g.machines[name]
	return machine, exists
}

// Fire 触发指定状态机的事件
func (g *Group) Fire(name string, event Event) (bool, error) {
	g.mu.RLock()
	machine, exists := g.machines[name]
	g.mu.RUnlock()

	if !exists {
		return false, ErrMachineNotFound
	}
	return machine.Fire(event), nil
}

// FireAll 并发触发所有状态机的相同事件，返回各自是否发生了转换
//
// 分组内的状态机需自行保证并发安全（例如 SyncMachine）。
func (g *Group) FireAll(event Event) map[string]bool {
	machines := g.snapshot()

	results := make(map[string]bool, len(machines))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, machine := range machines {
		wg.Add(1)
		go func(n string, m StateMachine) {
			defer wg.Done()
			fired := m.Fire(event)
			mu.Lock()
			results[n] = fired
			mu.Unlock()
		}(name, machine)
	}

	wg.Wait()
	return results
}

// States 获取所有状态机的当前状态
func (g *Group) States() map[string]State {
	g.mu.RLock()
	defer g.mu.RUnlock()

	states := make(map[string]State, len(g.machines))
	for name, machine := range g.machines {
		states[name] = machine.Current()
	}
	return states
}

// ResetAll 重置所有状态机
func (g *Group) ResetAll() {
	for _, machine := range g.snapshot() {
		machine.Reset()
	}
}

// Len 返回状态机数量
func (g *Group) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.machines)
}

func (g *Group) snapshot() map[string]StateMachine {
	g.mu.RLock()
	defer g.mu.RUnlock()
	machines := make(map[string]StateMachine, len(g.machines))
	for name, machine := range g.machines {
		machines[name] = machine
	}
	return machines
}
