package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abhishek-geeks/organize-cli/config"
	"github.com/abhishek-geeks/organize-cli/pkg/logger"
	"github.com/abhishek-geeks/organize-cli/pkg/scanner"
)

// Setup 加载配置并初始化日志，verbose 时日志级别提升为 debug
func Setup(configFile string, verbose bool) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	logLevel := cfg.Logging.Level
	if verbose {
		logLevel = "debug"
	}

	if err := logger.Init(logLevel, cfg.Logging.File); err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	logger.Get().Debug().Msg("加载配置完成")
	return cfg, nil
}

// ResolveFolder 返回目标目录的绝对路径，为空时使用当前工作目录
func ResolveFolder(folder string) (string, error) {
	if folder == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", &scanner.TargetError{Path: ".", Err: err}
		}
		return wd, nil
	}

	abs, err := filepath.Abs(folder)
	if err != nil {
		return "", &scanner.TargetError{Path: folder, Err: fmt.Errorf("%w: %w", scanner.ErrInvalidTarget, err)}
	}
	return abs, nil
}
