package workerpool_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/inventario/pkg/workerpool"
)

func TestShutdownWaitsForQueuedTasks(t *testing.T) {
	pool := workerpool.New(4)

	var count atomic.Int64
	for i := 0; i < 100; i++ {
		require.NoError(t, pool.SubmitCtx(context.Background(), func() { count.Add(1) }))
	}
	pool.Shutdown()

	assert.Equal(t, int64(100), count.Load())
}

func TestSubmitReturnsErrPoolFull(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()

	blocker := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, pool.Submit(func() {
		close(started)
		<-blocker
	}))
	<-started

	// queue holds 2 for a single worker
	require.NoError(t, pool.Submit(func() {}))
	require.NoError(t, pool.Submit(func() {}))
	assert.ErrorIs(t, pool.Submit(func() {}), workerpool.ErrPoolFull)

	close(blocker)
}

func TestSubmitCtxHonoursCancellation(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()

	blocker := make(chan struct{})
	defer close(blocker)
	for i := 0; i < 3; i++ {
		_ = pool.Submit(func() { <-blocker })
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	// Retry until the queue is definitely full, then a blocked submit must time out.
	err := pool.SubmitCtx(ctx, func() {})
	for err == nil {
		err = pool.SubmitCtx(ctx, func() {})
	}
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSubmitAfterShutdown(t *testing.T) {
	pool := workerpool.New(2)
	pool.Shutdown()
	pool.Shutdown()

	assert.ErrorIs(t, pool.Submit(func() {}), workerpool.ErrPoolClosed)
	assert.ErrorIs(t, pool.SubmitCtx(context.Background(), func() {}), workerpool.ErrPoolClosed)
}

func TestPanickingTaskDoesNotKillWorker(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()

	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, pool.SubmitCtx(context.Background(), func() {
		defer wg.Done()
		panic("boom")
	}))
	wg.Wait()

	done := make(chan struct{})
	require.NoError(t, pool.SubmitCtx(context.Background(), func() { close(done) }))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the panic")
	}
}
