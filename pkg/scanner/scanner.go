package scanner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/abhishek-geeks/organize-cli/pkg/logger"
)

var ErrInvalidTarget = errors.New("invalid target")

// TargetError 目标目录不可用，在任何文件操作之前返回
type TargetError struct {
	Path string
	Err  error
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("target %s: %v", e.Path, e.Err)
}

func (e *TargetError) Unwrap() error {
	return e.Err
}

// CheckRoot 检查目标目录存在、是目录且可读
func CheckRoot(fsys afero.Fs, root string) error {
	info, err := fsys.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return &TargetError{Path: root, Err: fmt.Errorf("%w: 目录不存在", ErrInvalidTarget)}
		}
		return &TargetError{Path: root, Err: err}
	}

	if !info.IsDir() {
		return &TargetError{Path: root, Err: fmt.Errorf("%w: 不是目录", ErrInvalidTarget)}
	}

	dir, err := fsys.Open(root)
	if err != nil {
		return &TargetError{Path: root, Err: err}
	}
	defer dir.Close()

	if _, err := dir.Readdirnames(1); err != nil && err != io.EOF {
		return &TargetError{Path: root, Err: err}
	}

	return nil
}

// Entry 遍历时发现的普通文件
type Entry struct {
	Path string
	Name string
	Ext  string
	Size int64
}

// WalkError 遍历过程中无法访问的路径
type WalkError struct {
	Path string
	Err  error
}

type FileWalker struct {
	Fs afero.Fs
	// Exclude 返回 true 的文件名不会交给回调
	Exclude func(name string) bool
	// OnError 处理无法访问的路径，遍历会继续
	OnError func(path string, err error)
}

func NewFileWalker(fsys afero.Fs) *FileWalker {
	return &FileWalker{Fs: fsys}
}

// Walk 按字典序递归遍历 root，只对普通文件调用 callback
func (w *FileWalker) Walk(root string, callback func(path string, info os.FileInfo) error) error {
	return afero.Walk(w.Fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			logger.Get().Warn().Err(err).Msgf("无法访问路径: %s", path)
			if w.OnError != nil {
				w.OnError(path, err)
			}
			return nil
		}

		if info.IsDir() {
			return nil
		}

		if !info.Mode().IsRegular() {
			logger.Get().Debug().Msgf("跳过非普通文件: %s", path)
			return nil
		}

		if w.Exclude != nil && w.Exclude(info.Name()) {
			return nil
		}

		return callback(path, info)
	})
}

// Collect 先完整遍历再返回所有文件，调用方随后修改目录树不会影响结果
func (w *FileWalker) Collect(root string) ([]Entry, []WalkError, error) {
	var (
		entries []Entry
		errs    []WalkError
	)

	onError := w.OnError
	w.OnError = func(path string, err error) {
		errs = append(errs, WalkError{Path: path, Err: err})
		if onError != nil {
			onError(path, err)
		}
	}
	defer func() { w.OnError = onError }()

	err := w.Walk(root, func(path string, info os.FileInfo) error {
		entries = append(entries, Entry{
			Path: path,
			Name: info.Name(),
			Ext:  Ext(info.Name()),
			Size: info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Get().Debug().Msgf("遍历完成，共找到 %d 个文件: %s", len(entries), root)
	return entries, errs, nil
}

// SplitExt 拆分文件名与扩展名，隐藏文件的前导点不算扩展名（".bashrc" 没有扩展名）
func SplitExt(name string) (base, ext string) {
	i := strings.LastIndex(name, ".")
	if i <= 0 || strings.TrimLeft(name[:i], ".") == "" {
		return name, ""
	}
	return name[:i], name[i:]
}

func Ext(name string) string {
	_, ext := SplitExt(name)
	return ext
}
