package statemachine

import "fmt"

// Validate 检查当前状态与所有转换目标是否属于声明的状态集合
//
// 每个转换的 StateFunc 会被调用一次以得到目标状态。
func Validate(m *Machine) error {
	var problems []string

	if !m.states.Contains(m.current) {
		problems = append(problems, fmt.Sprintf("current state %q is not declared", m.current))
	}
	for _, t := range m.transitions.Transitions() {
		if to := t.Next(); !m.states.Contains(to) {
			problems = append(problems, fmt.Sprintf("transition %s --%s--> %s targets undeclared state", t.From, t.Event, to))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Version: m.version, Problems: problems}
	}
	return nil
}
