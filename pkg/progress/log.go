package progress

import (
	"github.com/abhishek-geeks/organize-cli/pkg/logger"
)

// DefaultLogInterval 每处理多少个条目输出一次进度日志
const DefaultLogInterval = 100

// LogReporter 按固定间隔把进度写入日志，处理完最后一个条目时总会输出一次
type LogReporter struct {
	tracker  *Tracker
	interval int
	last     int
}

func NewLogReporter(interval int) *LogReporter {
	if interval < 1 {
		interval = DefaultLogInterval
	}
	return &LogReporter{tracker: NewTracker(), interval: interval}
}

func (l *LogReporter) Start(total int) {
	l.tracker.Start(total)
	l.last = 0
}

func (l *LogReporter) Record(ev Event) {
	l.tracker.Record(ev)

	s := l.tracker.Snapshot()
	if s.Processed-l.last < l.interval && s.Processed < s.Total {
		return
	}
	l.last = s.Processed

	logger.Get().Info().Msgf("处理进度: %d/%d (%.1f%%) - 移动: %d, 重复: %d, 跳过: %d",
		s.Processed, s.Total, s.Percent()*100,
		s.Counts[ActionMoved]+s.Counts[ActionWouldMove]+s.Counts[ActionRestored]+s.Counts[ActionWouldRestore],
		s.Counts[ActionDuplicate],
		s.Counts[ActionSkipped]+s.Counts[ActionRestoreFailed])
}
