package pool

import (
	"context"
	"io"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Pool bounds the number of goroutines used by Search and Parallelize.
// A nil *Pool runs everything on the calling goroutine.
type Pool struct {
	workers int
}

// NewPool returns a pool of count workers, or one per CPU when count <= 0.
func NewPool(count int) *Pool {
	if count <= 0 {
		count = runtime.NumCPU()
	}
	return &Pool{workers: count}
}

// Search calls f until it has succeeded count times, and returns the successful results.
// f reports a failed attempt with ok = false. It must be safe for concurrent use when p is not nil.
func Search[T any](p *Pool, count int, f func() (v T, ok bool)) []T {
	found := make([]T, 0, count)
	if p == nil {
		for len(found) < count {
			if v, ok := f(); ok {
				found = append(found, v)
			}
		}
		return found
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var (
		g   errgroup.Group
		mtx sync.Mutex
	)
	for i := 0; i < p.workers; i++ {
		g.Go(func() error {
			for ctx.Err() == nil {
				v, ok := f()
				if !ok {
					continue
				}
				mtx.Lock()
				if len(found) < count {
					found = append(found, v)
				}
				if len(found) == count {
					cancel()
				}
				mtx.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return found
}

// Parallelize returns [f(0), …, f(count-1)].
func Parallelize[T any](p *Pool, count int, f func(i int) T) []T {
	results := make([]T, count)
	if p == nil {
		for i := range results {
			results[i] = f(i)
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i := range results {
		i := i
		g.Go(func() error {
			results[i] = f(i)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// LockedReader serializes reads from an io.Reader shared between workers.
type LockedReader struct {
	mtx    sync.Mutex
	reader io.Reader
}

func NewLockedReader(r io.Reader) *LockedReader {
	return &LockedReader{reader: r}
}

func (r *LockedReader) Read(p []byte) (int, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.reader.Read(p)
}
