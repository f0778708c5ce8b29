package progress

import (
	"sync"
)

// Snapshot 某一时刻的进度
type Snapshot struct {
	Total       int
	Processed   int
	Counts      map[Action]int
	CurrentFile string
	FreedBytes  int64
}

func (s Snapshot) Percent() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Processed) / float64(s.Total)
}

// Tracker 累计事件计数，可被其他 goroutine 并发读取
type Tracker struct {
	mu         sync.RWMutex
	total      int
	processed  int
	counts     map[Action]int
	current    string
	freedBytes int64
}

func NewTracker() *Tracker {
	return &Tracker{
		counts: make(map[Action]int),
	}
}

func (t *Tracker) Start(total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total = total
}

func (t *Tracker) Record(ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.processed++
	t.counts[ev.Action]++
	t.current = ev.Path
	if ev.Action == ActionDuplicate && !ev.DryRun {
		t.freedBytes += ev.Size
	}
}

// Snapshot 返回当前进度的副本
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	counts := make(map[Action]int, len(t.counts))
	for k, v := range t.counts {
		counts[k] = v
	}

	return Snapshot{
		Total:       t.total,
		Processed:   t.processed,
		Counts:      counts,
		CurrentFile: t.current,
		FreedBytes:  t.freedBytes,
	}
}
