package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/abhishek-geeks/organize-cli/internal"
	"github.com/abhishek-geeks/organize-cli/pkg/classifier"
	"github.com/abhishek-geeks/organize-cli/pkg/hasher"
)

type Config struct {
	Logging struct {
		Level string
		File  string
	}
	Organize struct {
		Workers      int
		SniffUnknown bool `mapstructure:"sniff_unknown"`
	}
	Fingerprint struct {
		Algorithm string
		BlockSize int `mapstructure:"block_size"`
	}
	History struct {
		Enabled bool
		Path    string
	}
	Classifier struct {
		Fallback string
	}
	// Categories 非空时替换默认分类表
	Categories []classifier.Category
	// File 实际读取的配置文件，未找到时为空
	File string `mapstructure:"-"`
}

var ErrInvalidConfig = errors.New("invalid configuration")

// Load 读取配置，file 为空时按默认路径查找，找不到配置文件时使用默认值
func Load(file string) (*Config, error) {
	return LoadWith(viper.New(), file)
}

func LoadWith(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath("$HOME/.organize-cli")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/organize-cli")
	}

	v.SetEnvPrefix("ORGANIZE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("organize.workers", internal.DefaultWorkers)
	v.SetDefault("organize.sniff_unknown", false)
	v.SetDefault("fingerprint.algorithm", internal.DefaultAlgorithm)
	v.SetDefault("fingerprint.block_size", internal.DefaultBlockSize)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", internal.DefaultHistoryPath)
	v.SetDefault("classifier.fallback", internal.DefaultFallbackCategory)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: 读取配置文件失败: %w", ErrInvalidConfig, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("%w: 解析配置失败: %w", ErrInvalidConfig, err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	if used := v.ConfigFileUsed(); used != "" {
		if abs, err := filepath.Abs(used); err == nil {
			c.File = abs
		}
	}

	return &c, nil
}

// Validate 检查配置取值
func (c *Config) Validate() error {
	if c.Organize.Workers < 1 {
		return fmt.Errorf("%w: organize.workers 必须大于 0: %d", ErrInvalidConfig, c.Organize.Workers)
	}
	if c.Fingerprint.BlockSize < 1 {
		return fmt.Errorf("%w: fingerprint.block_size 必须大于 0: %d", ErrInvalidConfig, c.Fingerprint.BlockSize)
	}
	if _, err := hasher.ParseAlgorithm(c.Fingerprint.Algorithm); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.BuildClassifier(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// BuildClassifier 根据配置构造分类器
func (c *Config) BuildClassifier() (*classifier.Classifier, error) {
	categories := c.Categories
	if len(categories) == 0 {
		categories = classifier.DefaultCategories()
	}
	return classifier.New(categories, c.Classifier.Fallback)
}

func (c *Config) Algorithm() hasher.Algorithm {
	alg, err := hasher.ParseAlgorithm(c.Fingerprint.Algorithm)
	if err != nil {
		return hasher.SHA256
	}
	return alg
}
