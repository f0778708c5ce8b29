package restorer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/abhishek-geeks/organize-cli/pkg/ledger"
	"github.com/abhishek-geeks/organize-cli/pkg/logger"
	"github.com/abhishek-geeks/organize-cli/pkg/progress"
	"github.com/abhishek-geeks/organize-cli/pkg/relocator"
	"github.com/abhishek-geeks/organize-cli/pkg/scanner"
)

var (
	ErrInvalidEntry   = errors.New("invalid ledger entry")
	ErrMissingFile    = errors.New("file no longer at recorded location")
	ErrOriginOccupied = errors.New("original path is occupied")
)

type Options struct {
	DryRun   bool
	Reporter progress.Reporter
}

// Result 一次恢复运行的统计
type Result struct {
	Folder      string
	DryRun      bool
	LedgerFound bool
	Total       int
	Restored    int
	Failed      int
	StartTime   time.Time
	EndTime     time.Time
}

func (r *Result) String() string {
	if !r.LedgerFound {
		return "nothing to restore"
	}
	verb := "restored"
	if r.DryRun {
		verb = "would restore"
	}
	return fmt.Sprintf("%s %d of %d, failed %d", verb, r.Restored, r.Total, r.Failed)
}

// Restorer 按台账把文件移回原位置
type Restorer struct {
	fs        afero.Fs
	relocator *relocator.Relocator
	opts      Options
	reporter  progress.Reporter
}

func New(fsys afero.Fs, opts Options) *Restorer {
	if opts.DryRun {
		fsys = afero.NewReadOnlyFs(fsys)
	}

	reporter := opts.Reporter
	if reporter == nil {
		reporter = progress.Nop{}
	}

	return &Restorer{
		fs:        fsys,
		relocator: relocator.New(fsys),
		opts:      opts,
		reporter:  reporter,
	}
}

// Run 从最后一条记录开始逐条恢复
// 台账不存在时直接成功；台账损坏时返回 *ledger.CorruptError 且不做任何恢复
// 台账本身不会被删除或改写
func (r *Restorer) Run(ctx context.Context, folder string) (*Result, error) {
	folder = filepath.Clean(folder)

	if err := scanner.CheckRoot(r.fs, folder); err != nil {
		return nil, err
	}

	result := &Result{
		Folder:    folder,
		DryRun:    r.opts.DryRun,
		StartTime: time.Now(),
	}

	l, err := ledger.Load(r.fs, folder)
	if errors.Is(err, ledger.ErrNotFound) {
		logger.Get().Info().Msgf("未找到台账，无需恢复: %s", folder)
		result.EndTime = time.Now()
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	result.LedgerFound = true
	result.Total = l.Len()
	logger.Get().Info().Msgf("读取台账完成，共 %d 条记录 (创建于 %s)", l.Len(), l.Timestamp)
	r.reporter.Start(l.Len())

	var runErr error
	for i := len(l.Moves) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			logger.Get().Warn().Msgf("收到取消信号，剩余 %d 条记录未恢复", i+1)
			runErr = err
			break
		}
		r.restore(result, l.Moves[i])
	}

	result.EndTime = time.Now()
	logger.Get().Info().Msgf("恢复完成: 成功 %d, 失败 %d", result.Restored, result.Failed)
	return result, runErr
}

func (r *Restorer) restore(result *Result, rec ledger.MoveRecord) {
	if !rec.Valid() {
		r.fail(result, rec, fmt.Errorf("%w: from=%q to=%q", ErrInvalidEntry, rec.From, rec.To))
		return
	}

	exists, err := afero.Exists(r.fs, rec.To)
	if err != nil {
		r.fail(result, rec, err)
		return
	}
	if !exists {
		r.fail(result, rec, ErrMissingFile)
		return
	}

	occupied, err := afero.Exists(r.fs, rec.From)
	if err != nil {
		r.fail(result, rec, err)
		return
	}
	if occupied {
		r.fail(result, rec, ErrOriginOccupied)
		return
	}

	if r.opts.DryRun {
		result.Restored++
		r.reporter.Record(progress.Event{Action: progress.ActionWouldRestore, Path: rec.To, Dest: rec.From, DryRun: true})
		return
	}

	if err := r.fs.MkdirAll(filepath.Dir(rec.From), 0755); err != nil {
		r.fail(result, rec, err)
		return
	}
	if err := r.relocator.Move(rec.To, rec.From); err != nil {
		r.fail(result, rec, err)
		return
	}

	result.Restored++
	logger.Get().Debug().Msgf("已恢复: %s -> %s", rec.To, rec.From)
	r.reporter.Record(progress.Event{Action: progress.ActionRestored, Path: rec.To, Dest: rec.From})
}

func (r *Restorer) fail(result *Result, rec ledger.MoveRecord, err error) {
	result.Failed++
	logger.Get().Warn().Err(err).Msgf("恢复失败: %s", rec.To)
	r.reporter.Record(progress.Event{
		Action: progress.ActionRestoreFailed,
		Path:   rec.To,
		Dest:   rec.From,
		DryRun: r.opts.DryRun,
		Err:    err,
	})
}
