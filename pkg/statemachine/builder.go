package statemachine

import (
	"github.com/junbin-yang/go-fsmerge/pkg/logger"
)

// Builder 逐步收集状态与转换规则，校验后生成 Machine
//
// Build 会复制已收集的状态集合与转换表，同一个 Builder 可以多次 Build，
// 之后对 Builder 的修改不会影响已生成的状态机。
type Builder struct {
	states      StateSet
	transitions *TransitionTable
	opts        options
}

// NewBuilder 创建构建器
func NewBuilder(opts ...Option) *Builder {
	return &Builder{
		states:      NewStateSet(),
		transitions: NewTransitionTable(),
		opts:        newOptions(opts...),
	}
}

// AddState 添加状态，重复添加无影响
func (b *Builder) AddState(state State) *Builder {
	b.states.Add(state)
	return b
}

// AddTransition 添加转换规则，源状态会被自动加入状态集合
//
// 同一 (源状态, 事件) 重复注册时后者覆盖前者。
func (b *Builder) AddTransition(previous State, event Event, next StateFunc) *Builder {
	if next == nil {
		panic("statemachine: next state func cannot be nil")
	}

	b.AddState(previous)
	if replaced := b.transitions.Set(previous, event, next); replaced {
		b.opts.log.Debug("transition overwritten",
			logger.String("from", previous.Name()),
			logger.String("event", event.Name()),
		)
	}
	return b
}

// Build 生成指定版本的状态机，当前状态由 initial() 初始化
func (b *Builder) Build(version int, initial StateFunc) (*Machine, error) {
	if b.states.Len() == 0 {
		return nil, &StructuralError{Err: ErrEmptyStates}
	}
	if initial == nil {
		return nil, &StructuralError{Err: ErrNilInitial}
	}

	m := &Machine{
		version:     version,
		states:      b.states.Clone(),
		transitions: b.transitions.Clone(),
		initial:     initial,
		log:         b.opts.log,
		observers:   append([]TransitionFunc(nil), b.opts.observers...),
	}
	m.current = initial()

	if b.opts.validate {
		if err := Validate(m); err != nil {
			b.opts.log.Warn("machine validation failed",
				logger.Int("version", version),
				logger.Err(err),
			)
			return nil, err
		}
	}
	return m, nil
}
