package organizer

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/abhishek-geeks/organize-cli/pkg/ledger"
)

// Result 一次整理运行的统计
type Result struct {
	Folder           string
	DryRun           bool
	Discovered       int
	Moved            int
	Duplicates       int
	AlreadyOrganized int
	Skipped          int
	FreedBytes       int64
	Moves            []ledger.MoveRecord
	LedgerPath       string
	// LedgerErr 台账写入失败，已完成的移动不会回滚
	LedgerErr error
	StartTime time.Time
	EndTime   time.Time
}

func (r *Result) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

func (r *Result) String() string {
	verb := "moved"
	if r.DryRun {
		verb = "would move"
	}
	return fmt.Sprintf("%d files: %s %d, duplicates %d, already organized %d, skipped %d, freed %s in %v",
		r.Discovered, verb, r.Moved, r.Duplicates, r.AlreadyOrganized, r.Skipped,
		humanize.IBytes(uint64(r.FreedBytes)), r.Duration().Round(time.Millisecond))
}
