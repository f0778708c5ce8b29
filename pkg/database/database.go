package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/abhishek-geeks/organize-cli/pkg/logger"
)

// Run 一次整理或恢复运行的记录
type Run struct {
	ID               string    `gorm:"primaryKey;size:36"`
	Folder           string    `gorm:"index;not null"`
	Kind             string    `gorm:"not null"`
	DryRun           bool      `gorm:"not null"`
	StartedAt        time.Time `gorm:"index;not null"`
	FinishedAt       time.Time `gorm:"not null"`
	Discovered       int
	Moved            int
	Duplicates       int
	AlreadyOrganized int
	Skipped          int
	Restored         int
	Failed           int
	FreedBytes       int64
	Error            string
	Moves            []MoveEntry `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

func (Run) TableName() string {
	return "runs"
}

// MoveEntry 运行中的单次移动
type MoveEntry struct {
	ID    int64  `gorm:"primaryKey"`
	RunID string `gorm:"index;size:36;not null"`
	Seq   int    `gorm:"not null"`
	From  string `gorm:"column:from_path;not null"`
	To    string `gorm:"column:to_path;not null"`
}

func (MoveEntry) TableName() string {
	return "run_moves"
}

var (
	ErrRunNotFound  = errors.New("run not found")
	ErrAmbiguousRun = errors.New("run id prefix is ambiguous")
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	expandedPath, err := ExpandPath(dbPath)
	if err != nil {
		logger.Get().Error().Err(err).Msg("扩展数据库路径失败")
		return nil, err
	}

	logger.Get().Debug().Msgf("初始化历史数据库，路径: %s", expandedPath)

	if err := os.MkdirAll(filepath.Dir(expandedPath), 0755); err != nil {
		logger.Get().Error().Err(err).Msgf("创建数据库目录失败: %s", filepath.Dir(expandedPath))
		return nil, err
	}

	dsn := expandedPath + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Get().Error().Err(err).Msg("打开数据库连接失败")
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Get().Error().Err(err).Msg("获取数据库连接失败")
		return nil, err
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		logger.Get().Error().Err(err).Msg("创建数据库表失败")
		return nil, err
	}

	return &Database{db: db}, nil
}

// ExpandPath 展开以 ~/ 开头的路径
func ExpandPath(path string) (string, error) {
	if len(path) >= 2 && path[0] == '~' && (path[1] == '/' || path[1] == '\\') {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

func createSchema(db *gorm.DB) error {
	return db.AutoMigrate(&Run{}, &MoveEntry{})
}

// RecordRun 保存一次运行及其移动记录，ID 为空时自动生成
func (d *Database) RecordRun(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	for i := range run.Moves {
		run.Moves[i].RunID = run.ID
		run.Moves[i].Seq = i + 1
	}

	err := d.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(run).Error
	})
	if err != nil {
		logger.Get().Error().Err(err).Msgf("保存运行记录失败: %s", run.Folder)
		return fmt.Errorf("保存运行记录失败: %w", err)
	}

	logger.Get().Debug().Msgf("保存运行记录: %s (%s, %d 条移动)", run.ID, run.Kind, len(run.Moves))
	return nil
}

// ListRuns 按开始时间倒序列出运行记录，folder 为空时列出全部
func (d *Database) ListRuns(folder string, limit int) ([]Run, error) {
	query := d.db.Model(&Run{}).Order("started_at DESC")
	if folder != "" {
		query = query.Where("folder = ?", folder)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var runs []Run
	if err := query.Find(&runs).Error; err != nil {
		logger.Get().Error().Err(err).Msg("查询运行记录失败")
		return nil, err
	}
	return runs, nil
}

// GetRun 读取单次运行及按顺序排列的移动记录
func (d *Database) GetRun(id string) (*Run, error) {
	var run Run
	err := d.db.Preload("Moves", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq ASC")
	}).First(&run, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// FindRun 按 ID 前缀查找运行，前缀需唯一
func (d *Database) FindRun(prefix string) (*Run, error) {
	if prefix == "" {
		return nil, ErrRunNotFound
	}

	var ids []string
	err := d.db.Model(&Run{}).
		Where("id LIKE ?", prefix+"%").
		Limit(2).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}

	switch len(ids) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	case 1:
		return d.GetRun(ids[0])
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRun, prefix)
	}
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		logger.Get().Error().Err(err).Msg("获取数据库连接失败")
		return err
	}
	return sqlDB.Close()
}
