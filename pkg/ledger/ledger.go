package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/abhishek-geeks/organize-cli/internal"
	"github.com/abhishek-geeks/organize-cli/pkg/logger"
)

// 写入台账时使用的临时文件后缀
const tempSuffix = ".tmp"

var ErrNotFound = errors.New("ledger not found")

// CorruptError 台账无法解析或缺少 moves 字段
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("ledger %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}

// MoveRecord 一次成功的移动：原路径 -> 最终路径
type MoveRecord struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Valid 两个路径都存在时才可用于恢复
func (r MoveRecord) Valid() bool {
	return r.From != "" && r.To != ""
}

// Ledger 一次整理运行的移动记录，按发生顺序排列
type Ledger struct {
	Timestamp string       `json:"timestamp"`
	Moves     []MoveRecord `json:"moves"`
}

func New(now time.Time) *Ledger {
	return &Ledger{
		Timestamp: now.Format(time.RFC3339),
		Moves:     []MoveRecord{},
	}
}

func (l *Ledger) Append(from, to string) {
	l.Moves = append(l.Moves, MoveRecord{From: from, To: to})
}

func (l *Ledger) Len() int {
	return len(l.Moves)
}

// Path 返回目录对应的台账路径
func Path(folder string) string {
	return filepath.Join(folder, internal.LedgerFileName)
}

// IsLedgerFile 判断文件名是否为台账或其临时文件，任意层级都适用
func IsLedgerFile(name string) bool {
	return name == internal.LedgerFileName || name == internal.LedgerFileName+tempSuffix
}

// Save 以原子方式写入台账：先写临时文件再重命名，覆盖旧台账
func Save(fsys afero.Fs, folder string, l *Ledger) (string, error) {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return "", fmt.Errorf("序列化台账失败: %w", err)
	}

	target := Path(folder)
	tmp := target + tempSuffix

	if err := afero.WriteFile(fsys, tmp, data, 0644); err != nil {
		_ = fsys.Remove(tmp)
		return "", fmt.Errorf("写入台账临时文件失败: %w", err)
	}

	if err := fsys.Rename(tmp, target); err != nil {
		_ = fsys.Remove(tmp)
		return "", fmt.Errorf("替换台账失败: %w", err)
	}

	logger.Get().Debug().Msgf("台账已写入: %s (%d 条记录)", target, l.Len())
	return target, nil
}

type rawLedger struct {
	Timestamp string             `json:"timestamp"`
	Moves     *[]json.RawMessage `json:"moves"`
}

type rawRecord struct {
	From *string `json:"from"`
	To   *string `json:"to"`
}

// Load 读取目录中的台账
// 台账不存在返回 ErrNotFound，格式错误返回 *CorruptError
// 单条记录缺少 from/to 时保留为无效记录，由调用方计为失败
func Load(fsys afero.Fs, folder string) (*Ledger, error) {
	path := Path(folder)

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("读取台账失败: %w", err)
	}

	var raw rawLedger
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &CorruptError{Path: path, Err: err}
	}
	if raw.Moves == nil {
		return nil, &CorruptError{Path: path, Err: errors.New("missing moves")}
	}

	l := &Ledger{
		Timestamp: raw.Timestamp,
		Moves:     make([]MoveRecord, 0, len(*raw.Moves)),
	}
	for i, item := range *raw.Moves {
		var rec rawRecord
		if err := json.Unmarshal(item, &rec); err != nil || rec.From == nil || rec.To == nil {
			logger.Get().Warn().Msgf("台账第 %d 条记录无效: %s", i+1, string(item))
			l.Moves = append(l.Moves, MoveRecord{})
			continue
		}
		l.Moves = append(l.Moves, MoveRecord{From: *rec.From, To: *rec.To})
	}

	return l, nil
}
