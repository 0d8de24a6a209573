package logger

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func Test_LOG(t *testing.T) {
	defer func() { _ = Sync() }()
	Info("Info msg")
	Warn("Warn msg")
	Error("Error msg")
	Debug("Debug msg", Int("age", 3))
}

// CustomLogger 自定义日志实现示例
type CustomLogger struct {
	infos int
}

func (c *CustomLogger) Debug(msg string, fields ...Field)      {}
func (c *CustomLogger) Info(msg string, fields ...Field)       { c.infos++ }
func (c *CustomLogger) Warn(msg string, fields ...Field)       {}
func (c *CustomLogger) Error(msg string, fields ...Field)      {}
func (c *CustomLogger) Panic(msg string, fields ...Field)      {}
func (c *CustomLogger) Fatal(msg string, fields ...Field)      {}
func (c *CustomLogger) Debugf(format string, v ...interface{}) {}
func (c *CustomLogger) Infof(format string, v ...interface{})  { c.infos++ }
func (c *CustomLogger) Warnf(format string, v ...interface{})  {}
func (c *CustomLogger) Errorf(format string, v ...interface{}) {}
func (c *CustomLogger) Panicf(format string, v ...interface{}) {}
func (c *CustomLogger) Fatalf(format string, v ...interface{}) {}
func (c *CustomLogger) SetLevel(level Level)                   {}
func (c *CustomLogger) Sync() error                            { return nil }

func Test_CustomLogger(t *testing.T) {
	prev := Default()
	defer ReplaceDefault(prev)

	// 替换为自定义日志实现
	custom := &CustomLogger{}
	ReplaceDefault(custom)

	Info("test custom logger")
	Infof("test %s", "custom logger")

	if custom.infos != 2 {
		t.Errorf("自定义日志调用次数错误: got %d, want 2", custom.infos)
	}
}

func Test_LevelMapping(t *testing.T) {
	// 验证级别映射正确
	if toZapLevel(DebugLevel) != -1 {
		t.Errorf("DebugLevel mapping failed: got %d, want -1", toZapLevel(DebugLevel))
	}
	if toZapLevel(InfoLevel) != 0 {
		t.Errorf("InfoLevel mapping failed: got %d, want 0", toZapLevel(InfoLevel))
	}
	if toZapLevel(WarnLevel) != 1 {
		t.Errorf("WarnLevel mapping failed: got %d, want 1", toZapLevel(WarnLevel))
	}
	if toZapLevel(ErrorLevel) != 2 {
		t.Errorf("ErrorLevel mapping failed: got %d, want 2", toZapLevel(ErrorLevel))
	}
	if toZapLevel(PanicLevel) != 4 {
		t.Errorf("PanicLevel mapping failed: got %d, want 4 (skip DPanic=3)", toZapLevel(PanicLevel))
	}
	if toZapLevel(FatalLevel) != 5 {
		t.Errorf("FatalLevel mapping failed: got %d, want 5", toZapLevel(FatalLevel))
	}
}

func Test_ParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":       InfoLevel,
		"debug":  DebugLevel,
		"INFO":   InfoLevel,
		" warn ": WarnLevel,
		"error":  ErrorLevel,
		"dpanic": PanicLevel,
		"panic":  PanicLevel,
		"fatal":  FatalLevel,
	}
	for text, want := range cases {
		got, err := ParseLevel(text)
		if err != nil {
			t.Errorf("ParseLevel(%q) 返回错误: %v", text, err)
			continue
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", text, got, want)
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("未知级别应返回错误")
	}
}

func Test_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, InfoLevel)

	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("Info 级别不应输出 Debug 日志: %q", buf.String())
	}

	l.SetLevel(DebugLevel)
	l.Debug("visible", String("state", "Off"))
	out := buf.String()
	if !strings.Contains(out, "[DEBUG]") || !strings.Contains(out, "visible") {
		t.Errorf("调整级别后输出错误: %q", out)
	}
	if !strings.Contains(out, "Off") {
		t.Errorf("字段未输出: %q", out)
	}
}

func Test_WithSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	parent := New(&buf, ErrorLevel)
	child := parent.With(Int("version", 3)).Named("fsm")

	child.Info("hidden")
	parent.SetLevel(InfoLevel)
	child.Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("子日志应遵循父日志级别: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "fsm") {
		t.Errorf("子日志输出错误: %q", out)
	}
}

func Test_RotateBySize(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "size.log")
	out := NewRotateBySize(&RotateConfig{Filename: filename, MaxSize: 1})
	l := New(out, InfoLevel)
	l.Info("rotate by size")
	_ = l.Sync()

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	if !strings.Contains(string(data), "rotate by size") {
		t.Errorf("日志文件内容错误: %q", data)
	}
}

func Test_RotateByTime(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "time.log")
	out := NewRotateByTime(&RotateConfig{
		Filename:     filename,
		MaxAge:       1,
		RotationTime: time.Hour,
		LocalTime:    true,
	})
	if out == os.Stderr {
		t.Fatal("按时间轮转创建失败")
	}

	l := New(out, InfoLevel)
	l.Info("rotate by time")

	matches, err := filepath.Glob(filename + ".*")
	if err != nil {
		t.Fatalf("查找日志文件失败: %v", err)
	}
	if len(matches) == 0 {
		t.Error("未生成按时间命名的日志文件")
	}
}

// callerTag 返回下一行代码对应的调用位置标记
func callerTag(t *testing.T) string {
	t.Helper()
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		t.Fatal("获取调用位置失败")
	}
	return fmt.Sprintf("[logger/%s:%d]", filepath.Base(file), line+1)
}

func Test_CallerDirect(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, InfoLevel, AddCaller())

	want := callerTag(t)
	l.Info("direct")
	if !strings.Contains(buf.String(), want) {
		t.Errorf("方法调用的行号错误, want %s: %q", want, buf.String())
	}

	buf.Reset()
	want = callerTag(t)
	l.With(Int("version", 1)).Infof("direct %d", 1)
	if !strings.Contains(buf.String(), want) {
		t.Errorf("子日志的行号错误, want %s: %q", want, buf.String())
	}
}

func Test_CallerDefault(t *testing.T) {
	prev := Default()
	defer ReplaceDefault(prev)

	var buf bytes.Buffer
	ReplaceDefault(New(&buf, InfoLevel, AddCaller()))

	want := callerTag(t)
	Info("package level")
	if !strings.Contains(buf.String(), want) {
		t.Errorf("包级函数的行号错误, want %s: %q", want, buf.String())
	}

	buf.Reset()
	want = callerTag(t)
	Default().Info("injected")
	if !strings.Contains(buf.String(), want) {
		t.Errorf("Default() 方法调用的行号错误, want %s: %q", want, buf.String())
	}
}
