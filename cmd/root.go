package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhishek-geeks/organize-cli/config"
	"github.com/abhishek-geeks/organize-cli/internal/app"
	"github.com/abhishek-geeks/organize-cli/pkg/logger"
	"github.com/abhishek-geeks/organize-cli/pkg/organizer"
	"github.com/abhishek-geeks/organize-cli/pkg/progress"
	"github.com/abhishek-geeks/organize-cli/pkg/restorer"
	"github.com/abhishek-geeks/organize-cli/tui"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "organize [folder]",
	Short: "按扩展名整理目录并删除重复文件",
	Long: `扫描目标目录（默认当前目录）中的所有文件，按扩展名归入分类子目录，
内容完全相同的文件只保留第一个。每次整理的移动记录写入目录下的台账文件，
可以使用 --restore 按台账把文件移回原位置。`,
	Version:       "1.0.0",
	Args:          usageArgs(cobra.MaximumNArgs(1)),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute 执行根命令并按错误类型退出
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	_ = logger.Close()
	os.Exit(ExitCode(err))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径（默认 $HOME/.organize-cli/config.yaml）")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "显示详细日志")

	rootCmd.Flags().Bool("dry-run", false, "预览模式，不实际修改文件")
	rootCmd.Flags().Bool("restore", false, "按台账恢复上一次整理")
	rootCmd.Flags().Bool("tui", false, "使用交互式进度界面")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})
}

func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		return nil
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	restore, _ := cmd.Flags().GetBool("restore")
	useTUI, _ := cmd.Flags().GetBool("tui")

	cfg, err := app.Setup(cfgFile, verbose)
	if err != nil {
		return err
	}

	var folder string
	if len(args) > 0 {
		folder = args[0]
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := &app.Options{
		Folder: folder,
		DryRun: dryRun,
	}

	if useTUI {
		return runWithTUI(ctx, cfg, opts, restore)
	}

	opts.Reporter = progress.Multi{
		progress.NewConsole(cmd.OutOrStdout()),
		progress.NewLogReporter(progress.DefaultLogInterval),
	}
	if restore {
		result, err := app.RunRestore(ctx, cfg, opts)
		if result != nil {
			printRestoreStats(result)
		}
		return err
	}

	result, err := app.RunOrganize(ctx, cfg, opts)
	if result != nil {
		printFinalStats(result)
	}
	return err
}

func runWithTUI(ctx context.Context, cfg *config.Config, opts *app.Options, restore bool) error {
	// 界面占用终端，控制台日志只写文件
	if err := logger.InitWriter(io.Discard, logLevel(cfg), cfg.Logging.File); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		organizeResult *organizer.Result
		restoreResult  *restorer.Result
	)

	job := tui.Job{
		Title:   "🗂 正在整理目录",
		Restore: restore,
		Cancel:  cancel,
		Run: func(reporter progress.Reporter) (fmt.Stringer, error) {
			opts.Reporter = reporter
			var err error
			if restore {
				restoreResult, err = app.RunRestore(ctx, cfg, opts)
				if restoreResult == nil {
					return nil, err
				}
				return restoreResult, err
			}
			organizeResult, err = app.RunOrganize(ctx, cfg, opts)
			if organizeResult == nil {
				return nil, err
			}
			return organizeResult, err
		},
	}
	if restore {
		job.Title = "↩ 正在恢复目录"
	}

	err := tui.Run(job)

	if initErr := logger.Init(logLevel(cfg), cfg.Logging.File); initErr != nil {
		return initErr
	}
	if organizeResult != nil {
		printFinalStats(organizeResult)
	}
	if restoreResult != nil {
		printRestoreStats(restoreResult)
	}
	return err
}

func logLevel(cfg *config.Config) string {
	if verbose {
		return "debug"
	}
	return cfg.Logging.Level
}

func printFinalStats(result *organizer.Result) {
	log := logger.Get()

	title := "========== 整理完成 =========="
	if result.DryRun {
		title = "========== 预览完成 =========="
	}

	log.Info().Msg(title)
	log.Info().Msgf("目标目录: %s", result.Folder)
	log.Info().Msgf("总文件数: %d", result.Discovered)
	if result.DryRun {
		log.Info().Msgf("将移动: %d 个文件", result.Moved)
	} else {
		log.Info().Msgf("已移动: %d 个文件", result.Moved)
	}
	log.Info().Msgf("重复文件: %d 个文件", result.Duplicates)
	log.Info().Msgf("已在分类中: %d 个文件", result.AlreadyOrganized)
	log.Info().Msgf("跳过: %d 个文件", result.Skipped)
	log.Info().Msgf("释放空间: %s", formatBytes(result.FreedBytes))
	if result.LedgerPath != "" {
		log.Info().Msgf("台账文件: %s", result.LedgerPath)
	}
	log.Info().Msgf("总耗时: %v", result.Duration())
	log.Info().Msg("============================")

	if result.LedgerErr != nil {
		log.Warn().Err(result.LedgerErr).Msg("台账写入失败，本次整理无法恢复")
	}
}

func printRestoreStats(result *restorer.Result) {
	log := logger.Get()

	if !result.LedgerFound {
		log.Info().Msgf("%s: 没有找到台账，无需恢复", result.Folder)
		return
	}

	log.Info().Msg("========== 恢复完成 ==========")
	log.Info().Msgf("目标目录: %s", result.Folder)
	log.Info().Msgf("台账记录: %d 条", result.Total)
	if result.DryRun {
		log.Info().Msgf("将恢复: %d 个文件", result.Restored)
	} else {
		log.Info().Msgf("已恢复: %d 个文件", result.Restored)
	}
	log.Info().Msgf("恢复失败: %d 个文件", result.Failed)
	log.Info().Msgf("总耗时: %v", result.EndTime.Sub(result.StartTime))
	log.Info().Msg("============================")
}
