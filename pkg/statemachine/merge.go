package statemachine

import (
	"github.com/junbin-yang/go-fsmerge/pkg/logger"
)

// Merge 合并两个共享状态空间的状态机
//
// 两者的转换分别以各自版本号作为事件前缀（见 VersionedEvent）重新注册，
// 因此原始的未加前缀事件在合并结果上不会触发任何转换。
// 新版本号为 max(m1.Version(), m2.Version()) + 1。
func Merge(initial StateFunc, m1, m2 *Machine, opts ...Option) (*Machine, error) {
	if m1 == nil || m2 == nil {
		return nil, &DomainError{Err: ErrNilMachine}
	}
	if m1.states.Intersect(m2.states).Len() == 0 {
		return nil, &DomainError{Left: m1.version, Right: m2.version, Err: ErrDisjointStates}
	}

	b := NewBuilder(opts...)
	for _, m := range []*Machine{m1, m2} {
		for state := range m.states {
			b.AddState(state)
		}
		for _, t := range m.transitions.Transitions() {
			b.AddTransition(t.From, VersionedEvent(m.version, t.Event), t.Next)
		}
	}

	version := max(m1.version, m2.version) + 1
	b.opts.log.Debug("merging machines",
		logger.Int("left", m1.version),
		logger.Int("right", m2.version),
		logger.Int("version", version),
	)
	return b.Build(version, initial)
}
