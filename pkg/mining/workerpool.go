package mining

import (
	"context"
	"sync"
)

// lineJob processes one subtitle line. Results land in a slot owned by the
// job, so jobs never contend.
type lineJob func(ctx context.Context)

// workerPool runs line jobs on a fixed number of goroutines. Cancellation
// stops the draining of queued jobs; a job already running finishes, since
// tearing down mid-extraction would leak partial media files.
type workerPool struct {
	jobs    chan lineJob
	wg      sync.WaitGroup
	workers int

	closeMu sync.Mutex
	closed  bool
}

func newWorkerPool(workers int) *workerPool {
	if workers <= 0 {
		workers = 1
	}
	return &workerPool{
		jobs:    make(chan lineJob, workers*2),
		workers: workers,
	}
}

func (p *workerPool) start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-p.jobs:
					if !ok {
						return
					}
					job(ctx)
				}
			}
		}()
	}
}

// submit enqueues a job, blocking while the queue is full. Returns false
// once ctx is cancelled or the pool is closed; the caller stops scheduling.
func (p *workerPool) submit(ctx context.Context, job lineJob) bool {
	p.closeMu.Lock()
	closed := p.closed
	p.closeMu.Unlock()
	if closed || ctx.Err() != nil {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case p.jobs <- job:
		return true
	}
}

// close stops accepting jobs and waits for workers to drain.
func (p *workerPool) close() {
	p.closeMu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.closeMu.Unlock()
	p.wg.Wait()
}
