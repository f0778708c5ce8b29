package cmd

import (
	"context"
	"errors"
	"io/fs"

	"github.com/abhishek-geeks/organize-cli/config"
	"github.com/abhishek-geeks/organize-cli/pkg/database"
	"github.com/abhishek-geeks/organize-cli/pkg/scanner"
)

// 进程退出码
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitUsage      = 2
	ExitPermission = 13
	ExitCanceled   = 130
)

// errUsage 标记命令行参数错误
var errUsage = errors.New("usage error")

// ExitCode 把运行错误映射为进程退出码
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitCanceled
	case errors.Is(err, errUsage),
		errors.Is(err, scanner.ErrInvalidTarget),
		errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, database.ErrRunNotFound),
		errors.Is(err, database.ErrAmbiguousRun):
		return ExitUsage
	case errors.Is(err, fs.ErrPermission):
		return ExitPermission
	default:
		return ExitFailure
	}
}
