package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/abhishek-geeks/organize-cli/internal"
	"github.com/abhishek-geeks/organize-cli/internal/app"
	"github.com/abhishek-geeks/organize-cli/pkg/database"
)

var historyCmd = &cobra.Command{
	Use:   "history [folder]",
	Short: "查看整理与恢复的运行历史",
	Long: `列出历史数据库中记录的整理和恢复运行，按开始时间倒序排列。
指定目录时只列出该目录的运行。历史只用于查看，恢复始终以目录下的台账为准。`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "查看一次运行的移动记录",
	Long:  `按运行 ID 或其唯一前缀（history 列表中的前 8 位）显示该次运行的统计和全部移动记录。`,
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "最多显示的记录数，0 表示全部")

	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := app.Setup(cfgFile, verbose)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 0 {
		return fmt.Errorf("%w: --limit 不能为负数: %d", errUsage, limit)
	}

	var folder string
	if len(args) > 0 {
		folder = args[0]
	}

	runs, err := app.ListHistory(cfg, folder, limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "暂无运行记录")
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderRuns(runs, time.Now()))
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	cfg, err := app.Setup(cfgFile, verbose)
	if err != nil {
		return err
	}

	run, err := app.ShowRun(cfg, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderRun(run))
	return nil
}

// renderRun 输出单次运行的概要和按顺序排列的移动记录
func renderRun(run *database.Run) string {
	var b strings.Builder

	kind := run.Kind
	if run.DryRun {
		kind += " (dry run)"
	}
	fmt.Fprintf(&b, "ID:   %s\n", run.ID)
	fmt.Fprintf(&b, "类型: %s\n", kind)
	fmt.Fprintf(&b, "目录: %s\n", run.Folder)
	fmt.Fprintf(&b, "时间: %s (%s)\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"),
		run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	if run.Error != "" {
		fmt.Fprintf(&b, "错误: %s\n", run.Error)
	}
	b.WriteString("\n")

	if len(run.Moves) == 0 {
		b.WriteString("没有移动记录")
		return b.String()
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "原位置", "新位置"})
	for _, move := range run.Moves {
		tw.AppendRow(table.Row{move.Seq, move.From, move.To})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
	})

	b.WriteString(tw.Render())
	return b.String()
}

// renderRuns 以表格形式输出运行记录
func renderRuns(runs []database.Run, now time.Time) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "时间", "类型", "目录", "移动/恢复", "重复", "跳过/失败", "释放空间", "耗时"})

	for _, run := range runs {
		kind := run.Kind
		if run.DryRun {
			kind += " (dry run)"
		}

		changed, failed := run.Moved, run.Skipped
		if run.Kind == string(internal.KindRestore) {
			changed, failed = run.Restored, run.Failed
		}

		tw.AppendRow(table.Row{
			shortID(run.ID),
			humanize.RelTime(run.StartedAt, now, "前", "后"),
			kind,
			run.Folder,
			strconv.Itoa(changed),
			strconv.Itoa(run.Duplicates),
			strconv.Itoa(failed),
			formatBytes(run.FreedBytes),
			run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String(),
		})

		if run.Error != "" {
			tw.AppendRow(table.Row{"", "", "", text.FgRed.Sprint("错误: " + run.Error)})
		}
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
	})

	return tw.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatBytes(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}
