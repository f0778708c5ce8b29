package progress

import (
	"fmt"
	"io"
	"sync"
)

// Action 单个文件（或台账记录）的最终处理结果
type Action string

const (
	ActionMoved            Action = "moved"
	ActionWouldMove        Action = "would-move"
	ActionDuplicate        Action = "duplicate"
	ActionAlreadyOrganized Action = "already-organized"
	ActionSkipped          Action = "skipped"
	ActionRestored         Action = "restored"
	ActionWouldRestore     Action = "would-restore"
	ActionRestoreFailed    Action = "restore-failed"
)

// Event 引擎每处理完一个条目发出一次
type Event struct {
	Action   Action
	Path     string
	Dest     string
	Category string
	Size     int64
	DryRun   bool
	Err      error
}

// Reporter 接收引擎事件，引擎在同一个 goroutine 中顺序调用
type Reporter interface {
	Start(total int)
	Record(ev Event)
}

type Nop struct{}

func (Nop) Start(int)    {}
func (Nop) Record(Event) {}

// Console 以逐行文本输出事件
type Console struct {
	w  io.Writer
	mu sync.Mutex
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Start(int) {}

func (c *Console) Record(ev Event) {
	line := Format(ev)
	if line == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, line)
}

// Format 返回事件的单行描述，无需展示的事件返回空字符串
func Format(ev Event) string {
	switch ev.Action {
	case ActionMoved:
		return fmt.Sprintf("📁 %s → %s", ev.Path, ev.Dest)
	case ActionWouldMove:
		return fmt.Sprintf("📁 %s → %s (dry run)", ev.Path, ev.Category)
	case ActionDuplicate:
		if ev.DryRun {
			return fmt.Sprintf("🗑 duplicate → %s (dry run)", ev.Path)
		}
		return fmt.Sprintf("🗑 duplicate → %s", ev.Path)
	case ActionSkipped:
		return fmt.Sprintf("⚠ Skipped %s: %v", ev.Path, ev.Err)
	case ActionRestored:
		return fmt.Sprintf("↩ restored → %s", ev.Dest)
	case ActionWouldRestore:
		return fmt.Sprintf("↩ %s → %s (dry run)", ev.Path, ev.Dest)
	case ActionRestoreFailed:
		if ev.Path == "" {
			return fmt.Sprintf("⚠ Skipping invalid log entry: %v", ev.Err)
		}
		return fmt.Sprintf("⚠ Could not restore %s: %v", ev.Path, ev.Err)
	default:
		return ""
	}
}

// Multi 把事件依次转发给多个 Reporter
type Multi []Reporter

func (m Multi) Start(total int) {
	for _, r := range m {
		r.Start(total)
	}
}

func (m Multi) Record(ev Event) {
	for _, r := range m {
		r.Record(ev)
	}
}
