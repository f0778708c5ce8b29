package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/abhishek-geeks/organize-cli/config"
	"github.com/abhishek-geeks/organize-cli/internal"
	"github.com/abhishek-geeks/organize-cli/pkg/database"
	"github.com/abhishek-geeks/organize-cli/pkg/logger"
	"github.com/abhishek-geeks/organize-cli/pkg/organizer"
	"github.com/abhishek-geeks/organize-cli/pkg/progress"
	"github.com/abhishek-geeks/organize-cli/pkg/restorer"
)

type Options struct {
	Folder   string
	DryRun   bool
	Reporter progress.Reporter
	// Fs 为空时使用本地文件系统
	Fs afero.Fs
}

func (o *Options) fs() afero.Fs {
	if o.Fs == nil {
		return afero.NewOsFs()
	}
	return o.Fs
}

// RunOrganize 按配置整理目录，并在启用时记录运行历史
func RunOrganize(ctx context.Context, cfg *config.Config, opts *Options) (*organizer.Result, error) {
	folder, err := ResolveFolder(opts.Folder)
	if err != nil {
		return nil, err
	}

	cls, err := cfg.BuildClassifier()
	if err != nil {
		return nil, err
	}

	logger.Get().Debug().Msgf("分类: %s, 兜底分类: %s", strings.Join(cls.Categories(), ", "), cls.Fallback())

	o := organizer.New(opts.fs(), cls, organizer.Options{
		DryRun:       opts.DryRun,
		Workers:      cfg.Organize.Workers,
		Algorithm:    cfg.Algorithm(),
		BlockSize:    cfg.Fingerprint.BlockSize,
		SniffUnknown: cfg.Organize.SniffUnknown,
		Reporter:     opts.Reporter,
		ExcludePaths: stateFiles(cfg),
	})

	result, err := o.Run(ctx, folder)
	if result != nil {
		recordOrganize(cfg, result, err)
	}
	return result, err
}

// stateFiles 返回程序自身使用的文件，整理时不能移动
func stateFiles(cfg *config.Config) []string {
	var paths []string
	add := func(path string) {
		if path == "" {
			return
		}
		if abs, err := filepath.Abs(path); err == nil {
			paths = append(paths, abs)
		}
	}

	if history, err := database.ExpandPath(cfg.History.Path); err == nil && history != "" {
		add(history)
		add(history + "-wal")
		add(history + "-shm")
		add(history + "-journal")
	}
	add(cfg.Logging.File)
	add(cfg.File)

	return paths
}

// RunRestore 按台账恢复目录，并在启用时记录运行历史
func RunRestore(ctx context.Context, cfg *config.Config, opts *Options) (*restorer.Result, error) {
	folder, err := ResolveFolder(opts.Folder)
	if err != nil {
		return nil, err
	}

	r := restorer.New(opts.fs(), restorer.Options{
		DryRun:   opts.DryRun,
		Reporter: opts.Reporter,
	})

	result, err := r.Run(ctx, folder)
	if result != nil && result.LedgerFound {
		recordRestore(cfg, result, err)
	}
	return result, err
}

func recordOrganize(cfg *config.Config, result *organizer.Result, runErr error) {
	run := &database.Run{
		Folder:           result.Folder,
		Kind:             string(internal.KindOrganize),
		DryRun:           result.DryRun,
		StartedAt:        result.StartTime,
		FinishedAt:       result.EndTime,
		Discovered:       result.Discovered,
		Moved:            result.Moved,
		Duplicates:       result.Duplicates,
		AlreadyOrganized: result.AlreadyOrganized,
		Skipped:          result.Skipped,
		FreedBytes:       result.FreedBytes,
	}
	for _, rec := range result.Moves {
		run.Moves = append(run.Moves, database.MoveEntry{From: rec.From, To: rec.To})
	}
	if runErr != nil {
		run.Error = runErr.Error()
	} else if result.LedgerErr != nil {
		run.Error = result.LedgerErr.Error()
	}

	recordHistory(cfg, run)
}

func recordRestore(cfg *config.Config, result *restorer.Result, runErr error) {
	run := &database.Run{
		Folder:     result.Folder,
		Kind:       string(internal.KindRestore),
		DryRun:     result.DryRun,
		StartedAt:  result.StartTime,
		FinishedAt: result.EndTime,
		Restored:   result.Restored,
		Failed:     result.Failed,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}

	recordHistory(cfg, run)
}

// recordHistory 历史记录失败只记警告，不影响运行结果
func recordHistory(cfg *config.Config, run *database.Run) {
	if !cfg.History.Enabled {
		return
	}

	db, err := database.NewDatabase(cfg.History.Path)
	if err != nil {
		logger.Get().Warn().Err(err).Msg("打开历史数据库失败，跳过记录")
		return
	}
	defer db.Close()

	if err := db.RecordRun(run); err != nil {
		logger.Get().Warn().Err(err).Msg("记录运行历史失败")
	}
}

// ListHistory 列出运行历史，folder 非空时只列出该目录
func ListHistory(cfg *config.Config, folder string, limit int) ([]database.Run, error) {
	if folder != "" {
		abs, err := ResolveFolder(folder)
		if err != nil {
			return nil, err
		}
		folder = abs
	}

	db, err := database.NewDatabase(cfg.History.Path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return db.ListRuns(folder, limit)
}

// ShowRun 按 ID 或唯一前缀读取一次运行及其移动记录
func ShowRun(cfg *config.Config, id string) (*database.Run, error) {
	db, err := database.NewDatabase(cfg.History.Path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return db.FindRun(id)
}
