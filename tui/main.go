package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abhishek-geeks/organize-cli/pkg/logger"
	"github.com/abhishek-geeks/organize-cli/pkg/progress"
)

// Job 在 TUI 中执行的一次整理或恢复
type Job struct {
	Title   string
	Restore bool
	// Cancel 用户按 Ctrl+C 时调用
	Cancel context.CancelFunc
	Run    func(reporter progress.Reporter) (fmt.Stringer, error)
}

// reporter 把引擎事件累计到 Tracker 并转发给界面
type reporter struct {
	send    func(tea.Msg)
	tracker *progress.Tracker
}

func newReporter(send func(tea.Msg)) *reporter {
	return &reporter{send: send, tracker: progress.NewTracker()}
}

func (r *reporter) Start(total int) {
	r.tracker.Start(total)
	r.send(startMsg{total: total})
}

func (r *reporter) Record(ev progress.Event) {
	r.tracker.Record(ev)
	r.send(progressMsg{snapshot: r.tracker.Snapshot(), line: progress.Format(ev)})
}

// Run 启动界面并在后台执行任务，返回任务本身的错误
func Run(job Job) error {
	logger.Get().Info().Msg("启动 TUI 界面")

	m := newModel(job.Title, job.Restore, job.Cancel)
	p := tea.NewProgram(m, tea.WithAltScreen())

	var jobErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		summary, err := job.Run(newReporter(p.Send))
		jobErr = err

		msg := doneMsg{err: err}
		if summary != nil {
			msg.summary = summary.String()
		}
		p.Send(msg)
	}()

	if _, err := p.Run(); err != nil {
		logger.Get().Error().Err(err).Msg("TUI 运行错误")
		if job.Cancel != nil {
			job.Cancel()
		}
		<-done
		return err
	}

	<-done
	logger.Get().Info().Msg("TUI 正常退出")
	return jobErr
}
