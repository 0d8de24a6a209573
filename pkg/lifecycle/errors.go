package lifecycle

import "fmt"

var (
	// ErrWorkerExists 当协程已存在时返回
	ErrWorkerExists = fmt.Errorf("worker already exists")

	// ErrShutdownTimeout 当退出超时时返回
	ErrShutdownTimeout = fmt.Errorf("shutdown timeout")

	// ErrAlreadyRunning 当管理器已在运行时返回
	ErrAlreadyRunning = fmt.Errorf("manager already running")

	// ErrNotRunning 当管理器未运行时返回
	ErrNotRunning = fmt.Errorf("manager not running")
)
