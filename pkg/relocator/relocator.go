package relocator

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"

	"github.com/abhishek-geeks/organize-cli/pkg/logger"
	"github.com/abhishek-geeks/organize-cli/pkg/scanner"
)

var (
	ErrSourceMissing     = errors.New("source file not found")
	ErrDestinationExists = errors.New("destination already exists")
)

// MoveError 单个文件移动失败
type MoveError struct {
	Op  string
	Src string
	Dst string
	Err error
}

func (e *MoveError) Error() string {
	if e.Dst == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Src, e.Err)
	}
	return fmt.Sprintf("%s %s -> %s: %v", e.Op, e.Src, e.Dst, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

type Relocator struct {
	fs afero.Fs
}

func New(fsys afero.Fs) *Relocator {
	return &Relocator{fs: fsys}
}

// MoveInto 将 src 移动到 destDir 下，保留原文件名
// 同名文件已存在时依次尝试 name(1).ext、name(2).ext ...，返回最终路径
func (r *Relocator) MoveInto(src, destDir string) (string, error) {
	if err := r.checkSource(src); err != nil {
		return "", err
	}

	if err := r.fs.MkdirAll(destDir, 0755); err != nil {
		return "", &MoveError{Op: "mkdir", Src: src, Dst: destDir, Err: err}
	}

	dst, err := r.ResolveName(destDir, filepath.Base(src))
	if err != nil {
		return "", err
	}

	if err := r.Move(src, dst); err != nil {
		return "", err
	}

	return dst, nil
}

// ResolveName 返回 destDir 中第一个未被占用的文件名
func (r *Relocator) ResolveName(destDir, name string) (string, error) {
	candidate := filepath.Join(destDir, name)
	exists, err := afero.Exists(r.fs, candidate)
	if err != nil {
		return "", &MoveError{Op: "stat", Src: candidate, Err: err}
	}
	if !exists {
		return candidate, nil
	}

	base, ext := scanner.SplitExt(name)
	for i := 1; ; i++ {
		candidate = filepath.Join(destDir, fmt.Sprintf("%s(%d)%s", base, i, ext))
		exists, err := afero.Exists(r.fs, candidate)
		if err != nil {
			return "", &MoveError{Op: "stat", Src: candidate, Err: err}
		}
		if !exists {
			if i == 1 {
				logger.Get().Debug().Msgf("目标文件已存在，自动重命名: %s", candidate)
			}
			return candidate, nil
		}
	}
}

// Move 将 src 移动到 dst，dst 已存在时失败，不会覆盖
// 跨设备时退化为复制后删除，复制完成前源文件保持不变
func (r *Relocator) Move(src, dst string) error {
	if err := r.checkSource(src); err != nil {
		return err
	}

	exists, err := afero.Exists(r.fs, dst)
	if err != nil {
		return &MoveError{Op: "stat", Src: src, Dst: dst, Err: err}
	}
	if exists {
		return &MoveError{Op: "move", Src: src, Dst: dst, Err: ErrDestinationExists}
	}

	err = r.fs.Rename(src, dst)
	if err == nil {
		logger.Get().Debug().Msgf("移动文件: %s -> %s", src, dst)
		return nil
	}

	if !isCrossDevice(err) {
		return &MoveError{Op: "move", Src: src, Dst: dst, Err: err}
	}

	logger.Get().Debug().Err(err).Msgf("直接重命名失败，尝试复制后删除: %s", src)
	if err := r.copyFile(src, dst); err != nil {
		return &MoveError{Op: "copy", Src: src, Dst: dst, Err: err}
	}
	if err := r.fs.Remove(src); err != nil {
		// 源文件删不掉时撤回副本，避免同一文件出现两份
		if rmErr := r.fs.Remove(dst); rmErr != nil {
			logger.Get().Warn().Err(rmErr).Msgf("清理目标副本失败: %s", dst)
		}
		return &MoveError{Op: "remove", Src: src, Dst: dst, Err: err}
	}

	return nil
}

func (r *Relocator) checkSource(src string) error {
	info, err := r.fs.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return &MoveError{Op: "move", Src: src, Err: fmt.Errorf("%w: %w", ErrSourceMissing, err)}
		}
		return &MoveError{Op: "stat", Src: src, Err: err}
	}
	if info.IsDir() {
		return &MoveError{Op: "move", Src: src, Err: errors.New("source is a directory")}
	}
	return nil
}

func (r *Relocator) copyFile(src, dst string) error {
	info, err := r.fs.Stat(src)
	if err != nil {
		return err
	}

	in, err := r.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := r.fs.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}

	written, err := io.Copy(out, in)
	if err == nil {
		err = out.Sync()
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err == nil && written != info.Size() {
		err = fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", info.Size(), written)
	}
	if err != nil {
		_ = r.fs.Remove(dst)
		return err
	}

	_ = r.fs.Chtimes(dst, info.ModTime(), info.ModTime())
	return nil
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return false
	}
	return errors.Is(linkErr.Err, syscall.EXDEV)
}
