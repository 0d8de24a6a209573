package statemachine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyStates 构建时状态集合为空
	ErrEmptyStates = fmt.Errorf("states cannot be empty")

	// ErrNilInitial 构建时未提供初始状态函数
	ErrNilInitial = fmt.Errorf("initial state func cannot be nil")

	// ErrDisjointStates 合并的两个状态机没有共同状态
	ErrDisjointStates = fmt.Errorf("machines share no states")

	// ErrNilMachine 合并时传入了 nil 状态机
	ErrNilMachine = fmt.Errorf("machine cannot be nil")

	// ErrVersionMismatch 快照版本与状态机版本不一致
	ErrVersionMismatch = fmt.Errorf("snapshot version mismatch")

	// ErrInvalidMachine 校验失败
	ErrInvalidMachine = fmt.Errorf("machine failed validation")

	// ErrMachineNotFound 分组中不存在指定名称的状态机
	ErrMachineNotFound = fmt.Errorf("machine not found")

	// ErrQueueClosed 异步状态机已停止
	ErrQueueClosed = fmt.Errorf("event queue closed")
)

// StructuralError 状态机结构不完整，无法构建
type StructuralError struct {
	Err error
}

func (e *StructuralError) Error() string {
	return "statemachine: structural error: " + e.Err.Error()
}

func (e *StructuralError) Unwrap() error { return e.Err }

// DomainError 两个状态机不属于同一领域模型
type DomainError struct {
	Left  int // 左侧状态机版本
	Right int // 右侧状态机版本
	Err   error
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("statemachine: domain error (v%d, v%d): %v", e.Left, e.Right, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// ValidationError 汇总校验发现的所有问题
type ValidationError struct {
	Version  int
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("statemachine: v%d: %v: %s", e.Version, ErrInvalidMachine, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidMachine }

// IsStructuralError 判断是否为结构错误
func IsStructuralError(err error) bool {
	var e *StructuralError
	return errors.As(err, &e)
}

// IsDomainError 判断是否为领域错误
func IsDomainError(err error) bool {
	var e *DomainError
	return errors.As(err, &e)
}
