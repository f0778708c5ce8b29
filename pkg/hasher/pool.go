package hasher

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/abhishek-geeks/organize-cli/pkg/logger"
)

type HashResult struct {
	Path  string
	Hash  string
	Error error
}

// HashPool 并发计算一批文件的指纹，结果顺序与输入一致
type HashPool struct {
	hasher  *Hasher
	workers int
	pool    *ants.Pool
}

func NewHashPool(h *Hasher, workers int) (*HashPool, error) {
	if workers < 1 {
		workers = 1
	}
	logger.Get().Debug().Msgf("创建指纹计算池，工作线程数: %d", workers)

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}

	return &HashPool{
		hasher:  h,
		workers: workers,
		pool:    pool,
	}, nil
}

// HashAll 阻塞直到所有文件计算完成或 ctx 被取消
// 被取消时未开始的任务返回 ctx.Err()
func (p *HashPool) HashAll(ctx context.Context, paths []string) []HashResult {
	results := make([]HashResult, len(paths))
	var wg sync.WaitGroup

	for i, path := range paths {
		i, path := i, path
		results[i].Path = path
		if err := ctx.Err(); err != nil {
			results[i].Error = err
			continue
		}

		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				results[i].Error = err
				return
			}
			results[i].Hash, results[i].Error = p.hasher.Fingerprint(path)
		})
		if err != nil {
			wg.Done()
			results[i].Error = err
		}
	}

	wg.Wait()
	return results
}

func (p *HashPool) Close() {
	logger.Get().Debug().Msg("关闭指纹计算池")
	if p.pool != nil {
		p.pool.Release()
	}
}
