package classifier

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/spf13/afero"
)

const (
	// 文件类型检测所需的文件头部大小（字节）
	HeaderSize = 261
)

var ErrInvalidTable = errors.New("invalid category table")

// Category 一个分类及其扩展名集合
type Category struct {
	Name       string   `mapstructure:"name"`
	Extensions []string `mapstructure:"extensions"`
}

// Classifier 按扩展名查找分类，构造后只读
type Classifier struct {
	lookup   map[string]string
	names    []string
	fallback string
}

// New 根据分类表创建分类器
// 同一个扩展名出现在多个分类中视为无效的分类表
func New(categories []Category, fallback string) (*Classifier, error) {
	fallback = strings.TrimSpace(fallback)
	if fallback == "" {
		return nil, fmt.Errorf("%w: 兜底分类不能为空", ErrInvalidTable)
	}
	if err := validName(fallback); err != nil {
		return nil, err
	}

	c := &Classifier{
		lookup:   make(map[string]string),
		fallback: fallback,
	}

	seenNames := make(map[string]bool)
	for _, cat := range categories {
		name := strings.TrimSpace(cat.Name)
		if err := validName(name); err != nil {
			return nil, err
		}
		if seenNames[name] {
			return nil, fmt.Errorf("%w: 分类重复: %s", ErrInvalidTable, name)
		}
		seenNames[name] = true
		c.names = append(c.names, name)

		for _, raw := range cat.Extensions {
			ext := Normalize(raw)
			if ext == "" {
				return nil, fmt.Errorf("%w: 分类 %s 包含空扩展名", ErrInvalidTable, name)
			}
			if owner, ok := c.lookup[ext]; ok {
				return nil, fmt.Errorf("%w: 扩展名 %s 同时属于 %s 和 %s", ErrInvalidTable, ext, owner, name)
			}
			c.lookup[ext] = name
		}
	}

	return c, nil
}

// Default 返回使用默认分类表的分类器
func Default() *Classifier {
	c, err := New(DefaultCategories(), "Others")
	if err != nil {
		panic(err)
	}
	return c
}

func validName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: 分类名不能为空", ErrInvalidTable)
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: 分类名不能作为目录名: %q", ErrInvalidTable, name)
	}
	return nil
}

// Normalize 统一扩展名格式：小写并带前导点
func Normalize(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Classify 返回扩展名对应的分类，大小写不敏感，未知扩展名返回兜底分类
func (c *Classifier) Classify(ext string) string {
	if name, ok := c.lookup[Normalize(ext)]; ok {
		return name
	}
	return c.fallback
}

// Known 判断扩展名是否在分类表中
func (c *Classifier) Known(ext string) bool {
	_, ok := c.lookup[Normalize(ext)]
	return ok
}

func (c *Classifier) Fallback() string {
	return c.fallback
}

// Categories 按定义顺序返回所有分类名（不含兜底分类）
func (c *Classifier) Categories() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}

// Sniff 根据文件头部魔数推断扩展名，无法识别时返回空字符串
func Sniff(fs afero.Fs, filePath string) (string, error) {
	head, err := readFileHeader(fs, filePath, HeaderSize)
	if err != nil {
		return "", err
	}
	if len(head) == 0 {
		return "", nil
	}

	kind, err := filetype.Match(head)
	if err != nil {
		return "", fmt.Errorf("检测文件类型失败: %w", err)
	}
	if kind == types.Unknown || kind.Extension == "" {
		return "", nil
	}

	return "." + kind.Extension, nil
}

func readFileHeader(fs afero.Fs, filePath string, size int) ([]byte, error) {
	file, err := fs.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	head := make([]byte, size)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}

	return head[:n], nil
}
