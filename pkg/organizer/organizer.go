package organizer

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/abhishek-geeks/organize-cli/pkg/classifier"
	"github.com/abhishek-geeks/organize-cli/pkg/hasher"
	"github.com/abhishek-geeks/organize-cli/pkg/ledger"
	"github.com/abhishek-geeks/organize-cli/pkg/logger"
	"github.com/abhishek-geeks/organize-cli/pkg/progress"
	"github.com/abhishek-geeks/organize-cli/pkg/relocator"
	"github.com/abhishek-geeks/organize-cli/pkg/scanner"
)

type Options struct {
	// DryRun 只报告将要执行的操作，文件系统以只读方式打开
	DryRun bool
	// Workers 大于 1 时并发预计算指纹，决策仍按遍历顺序串行执行
	Workers      int
	Algorithm    hasher.Algorithm
	BlockSize    int
	SniffUnknown bool
	Reporter     progress.Reporter
	// ExcludePaths 不参与整理的文件，例如历史数据库、配置文件和日志文件
	ExcludePaths []string
}

// Organizer 按分类整理目录并删除内容重复的文件
type Organizer struct {
	fs         afero.Fs
	classifier *classifier.Classifier
	hasher     *hasher.Hasher
	relocator  *relocator.Relocator
	opts       Options
	reporter   progress.Reporter
	exclude    map[string]struct{}
}

func New(fsys afero.Fs, cls *classifier.Classifier, opts Options) *Organizer {
	if opts.DryRun {
		fsys = afero.NewReadOnlyFs(fsys)
	}
	if cls == nil {
		cls = classifier.Default()
	}

	reporter := opts.Reporter
	if reporter == nil {
		reporter = progress.Nop{}
	}

	exclude := make(map[string]struct{}, len(opts.ExcludePaths))
	for _, path := range opts.ExcludePaths {
		if path != "" {
			exclude[filepath.Clean(path)] = struct{}{}
		}
	}

	return &Organizer{
		fs:         fsys,
		classifier: cls,
		hasher:     hasher.New(fsys, opts.Algorithm, opts.BlockSize),
		relocator:  relocator.New(fsys),
		opts:       opts,
		reporter:   reporter,
		exclude:    exclude,
	}
}

// run 一次 Run 的状态
type run struct {
	folder string
	index  *fingerprintIndex
	ledger *ledger.Ledger
	result *Result
}

// Run 整理 folder
// 先完整遍历收集文件，再逐个处理，被移动到分类目录的文件不会被再次访问
// ctx 在文件之间检查，取消时保存已完成移动的台账并返回 ctx.Err()
func (o *Organizer) Run(ctx context.Context, folder string) (*Result, error) {
	folder = filepath.Clean(folder)

	if err := scanner.CheckRoot(o.fs, folder); err != nil {
		return nil, err
	}

	start := time.Now()
	r := &run{
		folder: folder,
		index:  newFingerprintIndex(),
		ledger: ledger.New(start),
		result: &Result{
			Folder:    folder,
			DryRun:    o.opts.DryRun,
			StartTime: start,
		},
	}

	logger.Get().Info().Msgf("开始整理目录: %s", folder)
	logger.Get().Info().Msgf("指纹算法: %s, 并发数: %d", o.hasher.Algorithm(), max(o.opts.Workers, 1))
	if o.opts.DryRun {
		logger.Get().Info().Msg("=== 预览模式，不会实际修改文件 ===")
	}

	walker := scanner.NewFileWalker(o.fs)
	walker.Exclude = ledger.IsLedgerFile
	entries, walkErrs, err := walker.Collect(folder)
	if err != nil {
		return nil, err
	}
	entries = o.filterExcluded(entries)

	r.result.Discovered = len(entries)
	logger.Get().Info().Msgf("文件统计完成，共找到 %d 个文件", len(entries))
	o.reporter.Start(len(entries) + len(walkErrs))

	for _, we := range walkErrs {
		r.result.Skipped++
		o.reporter.Record(progress.Event{Action: progress.ActionSkipped, Path: we.Path, Err: we.Err, DryRun: o.opts.DryRun})
	}

	digests := o.precompute(ctx, entries)

	var runErr error
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			logger.Get().Warn().Msgf("收到取消信号，已处理: %d/%d 个文件", i, len(entries))
			runErr = err
			break
		}

		var pre *hasher.HashResult
		if digests != nil {
			pre = &digests[i]
		}
		o.process(r, entry, pre)
	}

	o.persist(r)

	r.result.Moves = r.ledger.Moves
	r.result.EndTime = time.Now()
	logger.Get().Info().Msgf("整理完成，总耗时: %v", r.result.Duration())
	logger.Get().Debug().Msgf("本次运行登记指纹 %d 个", r.index.size())

	return r.result, runErr
}

func (o *Organizer) filterExcluded(entries []scanner.Entry) []scanner.Entry {
	if len(o.exclude) == 0 {
		return entries
	}

	kept := entries[:0]
	for _, entry := range entries {
		if _, ok := o.exclude[filepath.Clean(entry.Path)]; ok {
			logger.Get().Debug().Msgf("跳过程序自身文件: %s", entry.Path)
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}

// precompute 在 Workers > 1 时用协程池并发计算所有指纹
func (o *Organizer) precompute(ctx context.Context, entries []scanner.Entry) []hasher.HashResult {
	if o.opts.Workers <= 1 || len(entries) == 0 {
		return nil
	}

	pool, err := hasher.NewHashPool(o.hasher, o.opts.Workers)
	if err != nil {
		logger.Get().Warn().Err(err).Msg("创建指纹计算池失败，改为逐个计算")
		return nil
	}
	defer pool.Close()

	paths := make([]string, len(entries))
	for i, entry := range entries {
		paths[i] = entry.Path
	}
	return pool.HashAll(ctx, paths)
}

func (o *Organizer) process(r *run, entry scanner.Entry, pre *hasher.HashResult) {
	category := o.categorize(entry)

	var (
		digest string
		err    error
	)
	if pre != nil {
		digest, err = pre.Hash, pre.Error
	} else {
		digest, err = o.hasher.Fingerprint(entry.Path)
	}
	if err != nil {
		o.skip(r, entry, err)
		return
	}

	if canonical, ok := r.index.lookup(digest); ok {
		o.duplicate(r, entry, canonical)
		return
	}
	r.index.register(digest, entry.Path)

	destDir := filepath.Join(r.folder, category)
	if filepath.Dir(entry.Path) == destDir {
		r.result.AlreadyOrganized++
		logger.Get().Debug().Msgf("已在分类目录中: %s", entry.Path)
		o.reporter.Record(progress.Event{
			Action:   progress.ActionAlreadyOrganized,
			Path:     entry.Path,
			Category: category,
			Size:     entry.Size,
			DryRun:   o.opts.DryRun,
		})
		return
	}

	if o.opts.DryRun {
		r.result.Moved++
		logger.Get().Debug().Msgf("[预览] 移动: %s -> %s", entry.Path, destDir)
		o.reporter.Record(progress.Event{
			Action:   progress.ActionWouldMove,
			Path:     entry.Path,
			Dest:     destDir,
			Category: category,
			Size:     entry.Size,
			DryRun:   true,
		})
		return
	}

	final, err := o.relocator.MoveInto(entry.Path, destDir)
	if err != nil {
		o.skip(r, entry, err)
		return
	}

	r.ledger.Append(entry.Path, final)
	r.result.Moved++
	logger.Get().Debug().Msgf("[%s] %s -> %s", category, entry.Path, final)
	o.reporter.Record(progress.Event{
		Action:   progress.ActionMoved,
		Path:     entry.Path,
		Dest:     final,
		Category: category,
		Size:     entry.Size,
	})
}

// categorize 按扩展名分类，开启 SniffUnknown 时对未知扩展名读取文件头判断
func (o *Organizer) categorize(entry scanner.Entry) string {
	if !o.opts.SniffUnknown || o.classifier.Known(entry.Ext) {
		return o.classifier.Classify(entry.Ext)
	}

	ext, err := classifier.Sniff(o.fs, entry.Path)
	if err != nil {
		logger.Get().Debug().Err(err).Msgf("检测文件类型失败: %s", entry.Path)
		return o.classifier.Classify(entry.Ext)
	}
	if ext != "" && o.classifier.Known(ext) {
		logger.Get().Debug().Msgf("根据文件头识别为 %s: %s", ext, entry.Path)
		return o.classifier.Classify(ext)
	}
	return o.classifier.Classify(entry.Ext)
}

func (o *Organizer) duplicate(r *run, entry scanner.Entry, canonical string) {
	if !o.opts.DryRun {
		if err := o.fs.Remove(entry.Path); err != nil {
			logger.Get().Error().Err(err).Msgf("删除重复文件失败: %s", entry.Path)
			o.skip(r, entry, err)
			return
		}
		r.result.FreedBytes += entry.Size
	}

	r.result.Duplicates++
	logger.Get().Debug().Msgf("发现重复: %s (与 %s 相同)", entry.Path, canonical)
	o.reporter.Record(progress.Event{
		Action: progress.ActionDuplicate,
		Path:   entry.Path,
		Dest:   canonical,
		Size:   entry.Size,
		DryRun: o.opts.DryRun,
	})
}

func (o *Organizer) skip(r *run, entry scanner.Entry, err error) {
	r.result.Skipped++
	logger.Get().Warn().Err(err).Msgf("跳过文件: %s", entry.Path)
	o.reporter.Record(progress.Event{
		Action: progress.ActionSkipped,
		Path:   entry.Path,
		Size:   entry.Size,
		DryRun: o.opts.DryRun,
		Err:    err,
	})
}

// persist 实际运行且有移动记录时写入台账，失败只记录在结果中
func (o *Organizer) persist(r *run) {
	if o.opts.DryRun || r.ledger.Len() == 0 {
		return
	}

	path, err := ledger.Save(o.fs, r.folder, r.ledger)
	if err != nil {
		logger.Get().Warn().Err(err).Msg("写入台账失败，已完成的移动不会回滚")
		r.result.LedgerErr = err
		return
	}
	r.result.LedgerPath = path
}
