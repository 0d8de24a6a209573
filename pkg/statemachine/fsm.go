package statemachine

import (
	"github.com/junbin-yang/go-fsmerge/pkg/logger"
)

// Machine 有限状态机
//
// Machine 由 Builder.Build 或 Merge 创建，构建后状态集合与转换表不再变化，
// 只有当前状态会随 On/Fire 改变。Machine 不是并发安全的，
// 多协程共享时使用 Synchronized 包装。
type Machine struct {
	version     int
	states      StateSet
	transitions *TransitionTable
	initial     StateFunc
	current     State
	log         logger.Logger
	observers   []TransitionFunc
}

// Version 返回版本号
func (m *Machine) Version() int {
	return m.version
}

// Current 返回当前状态
func (m *Machine) Current() State {
	return m.current
}

// States 返回按名称排序的状态列表
func (m *Machine) States() []State {
	return m.states.Sorted()
}

// HasState 检查状态是否在声明的状态集合中
func (m *Machine) HasState(s State) bool {
	return m.states.Contains(s)
}

// Transitions 返回按源状态、事件排序的转换列表
func (m *Machine) Transitions() []Transition {
	return m.transitions.Transitions()
}

// Can 检查当前状态下事件是否有对应的转换
func (m *Machine) Can(event Event) bool {
	_, ok := m.transitions.Get(m.current, event)
	return ok
}

// On 触发事件并返回状态机本身，便于链式调用
//
// 没有匹配的转换时当前状态保持不变，不返回错误。
func (m *Machine) On(event Event) *Machine {
	m.Fire(event)
	return m
}

// Fire 触发事件，返回是否发生了状态转换
func (m *Machine) Fire(event Event) bool {
	next, ok := m.transitions.Get(m.current, event)
	if !ok {
		m.log.Debug("event ignored",
			logger.Int("version", m.version),
			logger.String("state", m.current.Name()),
			logger.String("event", event.Name()),
		)
		return false
	}

	from := m.current
	m.current = next()

	m.log.Debug("transition fired",
		logger.Int("version", m.version),
		logger.String("from", from.Name()),
		logger.String("to", m.current.Name()),
		logger.String("event", event.Name()),
	)

	for _, fn := range m.observers {
		fn(m.version, from, m.current, event)
	}
	return true
}

// Reset 重新调用初始状态函数
func (m *Machine) Reset() {
	m.current = m.initial()
}
