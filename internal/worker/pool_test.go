package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

type recordingProcessor struct {
	mu      sync.Mutex
	seen    []int
	block   chan struct{}
	panicOn int
}

func (p *recordingProcessor) ProcessUpdate(u tele.Update) {
	if p.block != nil {
		<-p.block
	}
	if p.panicOn != 0 && u.ID == p.panicOn {
		panic("boom")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen = append(p.seen, u.ID)
}

func (p *recordingProcessor) ids() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.seen...)
}

func TestPool_ProcessesAllUpdates(t *testing.T) {
	proc := &recordingProcessor{}
	pool := NewPool(proc, 3, 10, zap.NewNop())
	pool.Start()

	for i := 1; i <= 20; i++ {
		require.NoError(t, pool.Dispatch(context.Background(), tele.Update{ID: i}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, pool.Shutdown(ctx))

	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, proc.ids())
}

func TestPool_RecoversFromPanic(t *testing.T) {
	proc := &recordingProcessor{panicOn: 2}
	pool := NewPool(proc, 1, 10, zap.NewNop())
	pool.Start()

	for i := 1; i <= 3; i++ {
		require.NoError(t, pool.Dispatch(context.Background(), tele.Update{ID: i}))
	}

	require.NoError(t, pool.Shutdown(context.Background()))
	assert.Equal(t, []int{1, 3}, proc.ids())
}

func TestPool_QueueFull(t *testing.T) {
	proc := &recordingProcessor{block: make(chan struct{})}
	pool := NewPool(proc, 1, 1, zap.NewNop())
	pool.enqueueTimeout = 50 * time.Millisecond
	pool.Start()

	// first update occupies the worker, second fills the queue
	require.NoError(t, pool.Dispatch(context.Background(), tele.Update{ID: 1}))
	require.Eventually(t, func() bool { return len(pool.queue) == 0 }, time.Second, 5*time.Millisecond)
	require.NoError(t, pool.Dispatch(context.Background(), tele.Update{ID: 2}))

	err := pool.Dispatch(context.Background(), tele.Update{ID: 3})
	assert.ErrorIs(t, err, ErrQueueFull)

	close(proc.block)
	require.NoError(t, pool.Shutdown(context.Background()))
	assert.ElementsMatch(t, []int{1, 2}, proc.ids())
}

func TestPool_DispatchAfterShutdown(t *testing.T) {
	pool := NewPool(&recordingProcessor{}, 1, 1, zap.NewNop())
	pool.Start()
	require.NoError(t, pool.Shutdown(context.Background()))

	err := pool.Dispatch(context.Background(), tele.Update{ID: 1})
	assert.ErrorIs(t, err, ErrPoolClosed)

	// second shutdown is a no-op
	assert.NoError(t, pool.Shutdown(context.Background()))
}

func TestPool_ShutdownTimeout(t *testing.T) {
	proc := &recordingProcessor{block: make(chan struct{})}
	pool := NewPool(proc, 1, 1, zap.NewNop())
	pool.Start()

	require.NoError(t, pool.Dispatch(context.Background(), tele.Update{ID: 1}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, pool.Shutdown(ctx))

	close(proc.block)
}
