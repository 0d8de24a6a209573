package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/junbin-yang/go-fsmerge/pkg/logger"
)

// Manager 通用配置管理器，T 为配置结构体类型
type Manager[T any] struct {
	instance         *T           // 配置实例
	defaults         T            // 重载时的初始值
	configPath       string       // 配置文件路径
	appName          string       // 应用名称
	serializer       Serializer   // 当前使用的序列化器
	forceFormat      Serializer   // 强制指定的格式（优先级最高）
	supportedFormats []Serializer // 支持的配置格式列表
	defaultPaths     []string     // 默认配置路径模板
	once             sync.Once    // 确保配置只加载一次
	mu               sync.RWMutex // 读写锁
	loadErr          error        // 加载错误
	log              logger.Logger

	// 配置监听相关
	enableWatch           bool              // 是否启用配置监听
	watchDebounceInterval time.Duration     // 防抖间隔
	watcher               *fsnotify.Watcher // 文件监听器
	watchQuit             chan struct{}     // 监听退出信号
	closeOnce             sync.Once

	// 配置变更回调
	callbacks []func(old, new *T)
}

// New 创建配置管理器
// cfg: 初始配置（作为默认值），为 nil 时使用零值
func New[T any](cfg *T, options ...Option) *Manager[T] {
	if cfg == nil {
		cfg = new(T)
	}

	cm := &Manager[T]{
		instance:         cfg,
		defaults:         *cfg,
		appName:          "app",
		serializer:       &YAMLSerializer{},
		supportedFormats: []Serializer{&YAMLSerializer{}, &JSONSerializer{}, &INISerializer{}},
		defaultPaths: []string{
			"./{{.AppName}}",
			"{{.ExecDir}}/{{.AppName}}",
			"/etc/{{.AppName}}",
		},
		watchQuit: make(chan struct{}),
	}

	s := &settings{}
	for _, opt := range options {
		opt(s)
	}
	cm.applySettings(s)

	if cm.log == nil {
		cm.log = logger.Default()
	}
	return cm
}

func (cm *Manager[T]) applySettings(s *settings) {
	if s.appName != "" {
		cm.appName = s.appName
	}
	if s.serializer != nil {
		cm.serializer = s.serializer
	}
	if s.forceFormat != nil {
		cm.forceFormat = s.forceFormat
	}
	if s.defaultPaths != nil {
		cm.defaultPaths = s.defaultPaths
	}
	if s.formats != nil {
		cm.supportedFormats = s.formats
	}
	if s.watchSet {
		cm.enableWatch = s.watch
		cm.watchDebounceInterval = s.watchInterval
	}
	if s.log != nil {
		cm.log = s.log
	}
}

// Load 加载配置文件
// customPath: 自定义配置路径，空字符串使用默认路径
func (cm *Manager[T]) Load(customPath string) error {
	cm.once.Do(func() {
		cm.mu.Lock()
		defer cm.mu.Unlock()

		var err error

		// 1. 处理自定义路径
		if customPath != "" {
			if err = validateConfigPath(customPath); err != nil {
				cm.loadErr = fmt.Errorf("invalid custom config path: %w", err)
				return
			}
			cm.configPath = customPath
			cm.chooseSerializer(customPath)
		} else {
			// 2. 查找默认路径
			if cm.configPath, err = cm.findDefaultConfigPath(); err != nil {
				cm.loadErr = fmt.Errorf("default config not found: %w", err)
				return
			}
		}

		// 3. 解析配置文件
		if err = cm.parseConfigFile(cm.instance); err != nil {
			cm.loadErr = fmt.Errorf("parse config failed: %w", err)
			return
		}

		// 4. 应用环境变量覆盖
		if err = applyEnvOverrides(cm.instance); err != nil {
			cm.loadErr = fmt.Errorf("apply env overrides failed: %w", err)
			return
		}

		// 5. 启动配置监听（如果启用）
		if cm.enableWatch {
			if err = cm.startWatch(); err != nil {
				cm.log.Warn("config watch not started", logger.String("path", cm.configPath), logger.Err(err))
			}
		}
	})

	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.loadErr
}

// Get 获取配置实例
func (cm *Manager[T]) Get() (*T, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.loadErr != nil {
		return nil, cm.loadErr
	}
	if cm.configPath == "" {
		return nil, errors.New("config not loaded, call Load first")
	}
	return cm.instance, nil
}

// Path 返回实际加载的配置文件路径
func (cm *Manager[T]) Path() string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.configPath
}

// Save 保存配置到文件
func (cm *Manager[T]) Save() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.configPath == "" {
		return errors.New("config not loaded")
	}

	data, err := cm.serializer.Marshal(cm.instance)
	if err != nil {
		return fmt.Errorf("marshal config failed: %w", err)
	}

	// 先写入临时文件（避免文件损坏）
	tmpPath := cm.configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write temp config failed: %w", err)
	}
	if err := os.Rename(tmpPath, cm.configPath); err != nil {
		return fmt.Errorf("rename temp config failed: %w", err)
	}
	return nil
}

// Reload 手动重新加载配置
func (cm *Manager[T]) Reload() error {
	cm.mu.Lock()

	currentPath := cm.configPath
	if currentPath == "" {
		cm.mu.Unlock()
		return errors.New("config path not initialized")
	}
	if err := validateConfigPath(currentPath); err != nil {
		cm.mu.Unlock()
		return fmt.Errorf("invalid config path: %w", err)
	}

	// 创建新实例避免覆盖原数据，未出现在文件中的字段保持默认值
	newInstance := new(T)
	*newInstance = cm.defaults
	if err := cm.parseConfigFile(newInstance); err != nil {
		cm.mu.Unlock()
		return err
	}
	if err := applyEnvOverrides(newInstance); err != nil {
		cm.mu.Unlock()
		return fmt.Errorf("apply env overrides failed: %w", err)
	}

	oldInstance := cm.instance
	cm.instance = newInstance
	cm.loadErr = nil

	// 复制回调列表（避免死锁）
	callbacks := make([]func(old, new *T), len(cm.callbacks))
	copy(callbacks, cm.callbacks)
	cm.mu.Unlock()

	// 触发配置变更回调（在锁外执行）
	for _, callback := range callbacks {
		callback(oldInstance, newInstance)
	}
	return nil
}

// EnableWatch 动态启用/禁用配置监听
func (cm *Manager[T]) EnableWatch(enable bool) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.enableWatch = enable
	if enable && cm.configPath != "" {
		return cm.startWatch()
	}
	cm.stopWatch()
	return nil
}

// Watching 返回是否正在监听配置文件
func (cm *Manager[T]) Watching() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.watcher != nil
}

// Close 关闭配置管理器（停止监听）
func (cm *Manager[T]) Close() {
	cm.closeOnce.Do(func() {
		cm.mu.Lock()
		cm.stopWatch()
		cm.mu.Unlock()
		close(cm.watchQuit)
	})
}

// OnChange 注册配置变更回调
func (cm *Manager[T]) OnChange(callback func(old, new *T)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, callback)
}

/* ------------------------------ 内部方法 ------------------------------ */

// chooseSerializer 选择序列化器：强制格式 > 后缀识别 > 默认
func (cm *Manager[T]) chooseSerializer(path string) {
	if cm.forceFormat != nil {
		cm.serializer = cm.forceFormat
		return
	}

	ext := filepath.Ext(path)
	for _, format := range cm.supportedFormats {
		for _, candidate := range format.FileExts() {
			if candidate == ext {
				cm.serializer = format
				return
			}
		}
	}
}

// findDefaultConfigPath 查找默认配置路径
func (cm *Manager[T]) findDefaultConfigPath() (string, error) {
	execPath, _ := os.Executable()
	execDir := filepath.Dir(execPath)

	for _, pathTpl := range cm.defaultPaths {
		basePath := replacePathVars(pathTpl, map[string]string{
			"AppName": cm.appName,
			"ExecDir": execDir,
		})

		// 先尝试无后缀文件
		if err := validateConfigPath(basePath); err == nil {
			cm.chooseSerializer(basePath)
			return basePath, nil
		}

		// 尝试带后缀的文件
		for _, format := range cm.supportedFormats {
			for _, ext := range format.FileExts() {
				fullPath := basePath + ext
				if err := validateConfigPath(fullPath); err == nil {
					cm.serializer = format
					if cm.forceFormat != nil {
						cm.serializer = cm.forceFormat
					}
					return fullPath, nil
				}
			}
		}
	}

	return "", errors.New("no valid config file found (tried default paths and formats)")
}

// startWatch 启动配置文件监听，调用方持有写锁
func (cm *Manager[T]) startWatch() error {
	if cm.watcher != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher failed: %w", err)
	}
	// 监听所在目录，编辑器以重命名方式保存时文件本身的监听会失效
	if err := watcher.Add(filepath.Dir(cm.configPath)); err != nil {
		watcher.Close()
		return fmt.Errorf("add watch path failed: %w", err)
	}

	cm.watcher = watcher
	go cm.watchLoop(watcher, cm.configPath)
	return nil
}

// stopWatch 停止配置文件监听，调用方持有写锁
func (cm *Manager[T]) stopWatch() {
	if cm.watcher != nil {
		cm.watcher.Close()
		cm.watcher = nil
	}
}

// watchLoop 监听文件变化循环
func (cm *Manager[T]) watchLoop(watcher *fsnotify.Watcher, path string) {
	debounceTimer := time.NewTimer(0)
	if !debounceTimer.Stop() {
		<-debounceTimer.C
	}
	defer debounceTimer.Stop()

	interval := cm.watchDebounceInterval
	if interval <= 0 {
		interval = defaultWatchInterval
	}
	target := filepath.Clean(path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			// 处理文件修改/创建/重命名事件
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounceTimer.Reset(interval)
			}

		case <-debounceTimer.C:
			if err := cm.Reload(); err != nil {
				cm.log.Warn("config auto reload failed", logger.String("path", path), logger.Err(err))
			} else {
				cm.log.Info("config auto reloaded", logger.String("path", path))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			cm.log.Warn("config watch error", logger.String("path", path), logger.Err(err))

		case <-cm.watchQuit:
			return
		}
	}
}

// parseConfigFile 解析配置文件到 dst，调用方持有锁
func (cm *Manager[T]) parseConfigFile(dst *T) error {
	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		return fmt.Errorf("read file failed: %w", err)
	}
	if err := cm.serializer.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshal failed (%s): %w", cm.serializer.Name(), err)
	}
	return nil
}
