package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/abhishek-geeks/organize-cli/pkg/progress"
)

func (m *model) View() string {
	switch m.state {
	case StateScanning:
		return m.scanningView()
	case StateProcessing:
		return m.processingView()
	case StateComplete:
		return m.completeView()
	default:
		return "未知状态"
	}
}

func (m *model) scanningView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title) + "\n\n")
	b.WriteString(m.spinner.View() + " 正在扫描目录...\n\n")
	b.WriteString(m.cancelHint())

	return lipgloss.NewStyle().
		Padding(2).
		Render(b.String())
}

func (m *model) processingView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title) + "\n\n")

	b.WriteString(labelStyle.Render("处理进度：") + "\n")
	b.WriteString(m.progressBar.View() + "\n\n")

	b.WriteString(statsBoxStyle.Render(
		m.renderStats(),
	) + "\n\n")

	b.WriteString(labelStyle.Render("当前文件：") + "\n")
	b.WriteString(filePathStyle.Render(m.snapshot.CurrentFile) + "\n\n")

	if len(m.recent) > 0 {
		b.WriteString(labelStyle.Render("最近操作：") + "\n")
		for _, line := range m.recent {
			b.WriteString(eventStyle.Render(line) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.cancelHint())

	return lipgloss.NewStyle().
		Padding(2).
		Render(b.String())
}

func (m *model) completeView() string {
	var b strings.Builder

	if m.err != nil {
		b.WriteString(errorTitleStyle.Render("❌ 运行中断") + "\n\n")
		b.WriteString(fmt.Sprintf("  %v\n\n", m.err))
	} else {
		b.WriteString(successTitleStyle.Render("✅ 处理完成！") + "\n\n")
	}

	b.WriteString(statsBoxStyle.Render(
		m.renderFinalStats(),
	) + "\n\n")

	b.WriteString(separatorStyle.Render(strings.Repeat("─", 60)) + "\n")
	b.WriteString(hintStyle.Render("按 Enter 或 q 退出") + "\n")

	return lipgloss.NewStyle().
		Padding(2).
		Render(b.String())
}

func (m *model) cancelHint() string {
	if m.canceling {
		return hintStyle.Render("正在取消，等待当前文件处理完成...") + "\n"
	}
	return hintStyle.Render("Ctrl+C 取消") + "\n"
}

func (m *model) renderStats() string {
	s := m.snapshot
	var b strings.Builder
	b.WriteString("📊 实时统计：\n\n")
	b.WriteString(fmt.Sprintf("  已处理：      %d / %d\n", s.Processed, s.Total))
	if m.restore {
		b.WriteString(fmt.Sprintf("  已恢复：      %d\n", s.Counts[progress.ActionRestored]+s.Counts[progress.ActionWouldRestore]))
		b.WriteString(fmt.Sprintf("  恢复失败：    %d\n", s.Counts[progress.ActionRestoreFailed]))
		return b.String()
	}
	b.WriteString(fmt.Sprintf("  已移动：      %d 个文件\n", s.Counts[progress.ActionMoved]+s.Counts[progress.ActionWouldMove]))
	b.WriteString(fmt.Sprintf("  重复文件：    %d 个文件\n", s.Counts[progress.ActionDuplicate]))
	b.WriteString(fmt.Sprintf("  已在分类中：  %d 个文件\n", s.Counts[progress.ActionAlreadyOrganized]))
	b.WriteString(fmt.Sprintf("  已跳过：      %d 个文件\n", s.Counts[progress.ActionSkipped]))
	b.WriteString(fmt.Sprintf("  释放空间：    %s\n", humanize.IBytes(uint64(s.FreedBytes))))
	return b.String()
}

func (m *model) renderFinalStats() string {
	var b strings.Builder
	b.WriteString(m.renderStats())
	if m.summary != "" {
		b.WriteString("\n  " + m.summary + "\n")
	}
	return b.String()
}
