package mining

import (
	"context"
	"sync/atomic"
	"testing"
)

func TestWorkerPoolRunsAllJobs(t *testing.T) {
	pool := newWorkerPool(3)
	pool.start(context.Background())
	var ran atomic.Int32
	for i := 0; i < 50; i++ {
		if !pool.submit(context.Background(), func(context.Context) { ran.Add(1) }) {
			t.Fatalf("submit %d refused", i)
		}
	}
	pool.close()
	if got := ran.Load(); got != 50 {
		t.Errorf("ran %d jobs, want 50", got)
	}
}

func TestWorkerPoolRefusesAfterClose(t *testing.T) {
	pool := newWorkerPool(1)
	pool.start(context.Background())
	pool.close()
	if pool.submit(context.Background(), func(context.Context) {}) {
		t.Error("submit after close must be refused")
	}
}

func TestWorkerPoolRefusesAfterCancel(t *testing.T) {
	pool := newWorkerPool(1)
	ctx, cancel := context.WithCancel(context.Background())
	pool.start(ctx)
	cancel()
	// The queue may still accept a buffered job, but a cancelled submit
	// context must refuse immediately.
	cancelled, cancelFn := context.WithCancel(context.Background())
	cancelFn()
	if pool.submit(cancelled, func(context.Context) {}) {
		t.Error("submit with cancelled context must be refused")
	}
	pool.close()
}
