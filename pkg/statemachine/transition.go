package statemachine

import (
	"sort"
	"strconv"
	"strings"
)

// Transition 定义状态转换规则
type Transition struct {
	From  State     // 源状态
	Event Event     // 触发事件
	Next  StateFunc // 目标状态函数
}

// transitionKey 唯一标识一个转换
type transitionKey struct {
	from  State
	event Event
}

// TransitionTable 以 (源状态, 事件) 为键的转换表
type TransitionTable struct {
	entries map[transitionKey]StateFunc
}

// NewTransitionTable 创建空转换表
func NewTransitionTable() *TransitionTable {
	return &TransitionTable{entries: make(map[transitionKey]StateFunc)}
}

// Set 注册转换规则，已存在时覆盖并返回 true
func (t *TransitionTable) Set(from State, event Event, next StateFunc) bool {
	key := transitionKey{from: from, event: event}
	_, exists := t.entries[key]
	t.entries[key] = next
	return exists
}

// Get 查找转换规则
func (t *TransitionTable) Get(from State, event Event) (StateFunc, bool) {
	next, ok := t.entries[transitionKey{from: from, event: event}]
	return next, ok
}

// Len 返回转换规则数量
func (t *TransitionTable) Len() int {
	return len(t.entries)
}

// Transitions 返回按源状态、事件排序的转换列表
func (t *TransitionTable) Transitions() []Transition {
	list := make([]Transition, 0, len(t.entries))
	for key, next := range t.entries {
		list = append(list, Transition{From: key.from, Event: key.event, Next: next})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].From != list[j].From {
			return list[i].From < list[j].From
		}
		return list[i].Event < list[j].Event
	})
	return list
}

// Clone 复制转换表，StateFunc 本身共享
func (t *TransitionTable) Clone() *TransitionTable {
	c := &TransitionTable{entries: make(map[transitionKey]StateFunc, len(t.entries))}
	for key, next := range t.entries {
		c.entries[key] = next
	}
	return c
}

// StateSet 按名称去重的状态集合
type StateSet map[State]struct{}

// NewStateSet 创建状态集合
func NewStateSet(states ...State) StateSet {
	s := make(StateSet, len(states))
	for _, state := range states {
		s[state] = struct{}{}
	}
	return s
}

// Add 添加状态，重复添加无影响
func (s StateSet) Add(state State) {
	s[state] = struct{}{}
}

// Contains 检查状态是否存在
func (s StateSet) Contains(state State) bool {
	_, ok := s[state]
	return ok
}

// Len 返回状态数量
func (s StateSet) Len() int {
	return len(s)
}

// Sorted 返回按名称排序的状态列表
func (s StateSet) Sorted() []State {
	list := make([]State, 0, len(s))
	for state := range s {
		list = append(list, state)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}

// Intersect 返回两个集合的交集
func (s StateSet) Intersect(other StateSet) StateSet {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	out := make(StateSet)
	for state := range small {
		if large.Contains(state) {
			out.Add(state)
		}
	}
	return out
}

// Clone 复制集合
func (s StateSet) Clone() StateSet {
	c := make(StateSet, len(s))
	for state := range s {
		c[state] = struct{}{}
	}
	return c
}

// VersionedEvent 为事件加上版本前缀，例如 v2.Click
func VersionedEvent(version int, event Event) Event {
	return Event("v" + strconv.Itoa(version) + "." + string(event))
}

// SplitVersionedEvent 去掉一层版本前缀
func SplitVersionedEvent(event Event) (int, Event, bool) {
	name := string(event)
	if !strings.HasPrefix(name, "v") {
		return 0, event, false
	}
	dot := strings.IndexByte(name, '.')
	if dot < 2 {
		return 0, event, false
	}
	digits := name[1:dot]
	// 只接受 VersionedEvent 生成的形式，拒绝符号与多余的前导零
	if digits[0] == '+' || digits[0] == '-' || (len(digits) > 1 && digits[0] == '0') {
		return 0, event, false
	}
	version, err := strconv.Atoi(digits)
	if err != nil {
		return 0, event, false
	}
	return version, Event(name[dot+1:]), true
}
