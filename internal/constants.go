package internal

const (
	// 台账文件名，每个被整理的目录一份
	LedgerFileName = ".organize_log.json"

	// 历史数据库默认路径
	DefaultHistoryPath = "~/.organize-cli/history.db"

	// 指纹计算的读块大小
	DefaultBlockSize = 8192

	// 默认指纹算法
	DefaultAlgorithm = "sha256"

	// 默认兜底分类
	DefaultFallbackCategory = "Others"

	// 指纹计算并发数，1 表示同步计算
	DefaultWorkers = 1
)
