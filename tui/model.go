package tui

import (
	"context"
	"time"

	bar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abhishek-geeks/organize-cli/pkg/logger"
	"github.com/abhishek-geeks/organize-cli/pkg/progress"
)

type State int

const (
	StateScanning State = iota
	StateProcessing
	StateComplete
)

// 进度界面保留的最近事件条数
const recentEvents = 5

type startMsg struct {
	total int
}

type progressMsg struct {
	snapshot progress.Snapshot
	line     string
}

type doneMsg struct {
	summary string
	err     error
}

type model struct {
	state       State
	title       string
	restore     bool
	snapshot    progress.Snapshot
	recent      []string
	summary     string
	err         error
	cancel      context.CancelFunc
	canceling   bool
	progressBar bar.Model
	spinner     spinner.Model
}

func newModel(title string, restore bool, cancel context.CancelFunc) *model {
	progressBar := bar.New(bar.WithDefaultGradient())
	progressBar.PercentageStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Width(4)

	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		FPS:    time.Second / 10,
	}
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	if cancel == nil {
		cancel = func() {}
	}

	return &model{
		state:       StateScanning,
		title:       title,
		restore:     restore,
		cancel:      cancel,
		progressBar: progressBar,
		spinner:     s,
	}
}

func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.progressBar.Width = max(msg.Width-10, 10)

	case startMsg:
		m.state = StateProcessing
		m.snapshot.Total = msg.total
		return m, nil

	case progressMsg:
		if m.state == StateScanning {
			m.state = StateProcessing
		}
		m.snapshot = msg.snapshot
		if msg.line != "" {
			m.recent = append(m.recent, msg.line)
			if len(m.recent) > recentEvents {
				m.recent = m.recent[len(m.recent)-recentEvents:]
			}
		}
		return m, m.progressBar.SetPercent(m.snapshot.Percent())

	case doneMsg:
		m.state = StateComplete
		m.summary = msg.summary
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		if m.state != StateComplete {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case bar.FrameMsg:
		pm, cmd := m.progressBar.Update(msg)
		m.progressBar = pm.(bar.Model)
		return m, cmd
	}

	return m, nil
}

// handleKey 运行中 Ctrl+C 只取消任务，等任务收尾后再退出
func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if m.state == StateComplete {
			return m, tea.Quit
		}
		if !m.canceling {
			m.canceling = true
			logger.Get().Info().Msg("收到取消请求，等待当前文件处理完成")
			m.cancel()
		}
	case "q", "enter", "esc":
		if m.state == StateComplete {
			return m, tea.Quit
		}
	}
	return m, nil
}
