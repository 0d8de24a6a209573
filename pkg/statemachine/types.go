package statemachine

// State 表示状态机中的状态，以名称作为唯一标识
type State string

// Name 返回状态名称
func (s State) Name() string { return string(s) }

func (s State) String() string { return string(s) }

// Event 表示触发状态转换的事件，以名称作为唯一标识
type Event string

// Name 返回事件名称
func (e Event) Name() string { return string(e) }

func (e Event) String() string { return string(e) }

// StateFunc 生成转换的目标状态，每次触发都会重新调用
type StateFunc func() State

// Const 返回始终生成同名状态的 StateFunc
func Const(s State) StateFunc {
	return func() State { return s }
}

// TransitionFunc 在状态转换完成后调用
type TransitionFunc func(version int, from, to State, event Event)

// StateMachine 定义可被 Group 管理的状态机接口
type StateMachine interface {
	// Current 返回当前状态
	Current() State

	// Fire 触发事件，返回是否发生了状态转换
	Fire(event Event) bool

	// Can 检查当前状态下事件是否有对应的转换
	Can(event Event) bool

	// Reset 重新调用初始状态函数
	Reset()
}
