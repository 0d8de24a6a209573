package statemachine

import (
	"sync"
	"time"
)

// Snapshot 当前状态快照，不包含状态机定义
type Snapshot struct {
	Version   int       `json:"version"`
	State     State     `json:"state"`
	Timestamp time.Time `json:"timestamp"`
}

// History 状态转换记录
type History struct {
	Version   int       `json:"version"`
	From      State     `json:"from"`
	To        State     `json:"to"`
	Event     Event     `json:"event"`
	Timestamp time.Time `json:"timestamp"`
}

// Snapshot 创建当前状态快照
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		Version:   m.version,
		State:     m.current,
		Timestamp: time.Now(),
	}
}

// Restore 从快照恢复当前状态，快照版本必须与状态机一致
func (m *Machine) Restore(snapshot Snapshot) error {
	if snapshot.Version != m.version {
		return &DomainError{Left: m.version, Right: snapshot.Version, Err: ErrVersionMismatch}
	}
	m.current = snapshot.State
	return nil
}

// Recorder 记录状态转换历史，通过 WithObserver(r.Observe) 挂载
type Recorder struct {
	mu      sync.RWMutex
	history []History
}

// NewRecorder 创建历史记录器
func NewRecorder() *Recorder {
	return &Recorder{history: make([]History, 0)}
}

// Observe 实现 TransitionFunc
func (r *Recorder) Observe(version int, from, to State, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, History{
		Version:   version,
		From:      from,
		To:        to,
		Event:     event,
		Timestamp: time.Now(),
	})
}

// Entries 获取状态历史
func (r *Recorder) Entries() []History {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]History{}, r.history...)
}

// Clear 清空历史记录
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = make([]History, 0)
}
