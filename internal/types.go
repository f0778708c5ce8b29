package internal

// 运行类型
type RunKind string

const (
	KindOrganize RunKind = "organize"
	KindRestore  RunKind = "restore"
)
