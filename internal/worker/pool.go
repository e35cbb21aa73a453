package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"starsbot/internal/metrics"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

var (
	// ErrQueueFull is returned when no worker frees a slot within the enqueue timeout
	ErrQueueFull = errors.New("update queue is full")
	// ErrPoolClosed is returned after Shutdown
	ErrPoolClosed = errors.New("worker pool is closed")
)

// Processor handles a single update synchronously
type Processor interface {
	ProcessUpdate(u tele.Update)
}

// Pool hands updates from the webhook to a bounded set of workers
type Pool struct {
	processor      Processor
	logger         *zap.Logger
	workers        int
	enqueueTimeout time.Duration

	queue  chan tele.Update
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewPool creates a pool with the given worker count and queue capacity
func NewPool(processor Processor, workers, queueSize int, logger *zap.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	return &Pool{
		processor:      processor,
		logger:         logger,
		workers:        workers,
		enqueueTimeout: 2 * time.Second,
		queue:          make(chan tele.Update, queueSize),
	}
}

// Start launches the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(i)
	}
	p.logger.Info("Worker pool started",
		zap.Int("workers", p.workers),
		zap.Int("queue_size", cap(p.queue)),
	)
}

// Dispatch enqueues an update, waiting at most the enqueue timeout for space
func (p *Pool) Dispatch(ctx context.Context, u tele.Update) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	timer := time.NewTimer(p.enqueueTimeout)
	defer timer.Stop()

	select {
	case p.queue <- u:
		metrics.SetQueueDepth(len(p.queue))
		return nil
	case <-timer.C:
		return ErrQueueFull
	case <-ctx.Done():
		return fmt.Errorf("dispatch update %d: %w", u.ID, ctx.Err())
	}
}

// Shutdown stops accepting updates and waits for queued ones to finish
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Worker pool stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain worker pool: %w", ctx.Err())
	}
}

func (p *Pool) run(id int) {
	defer p.wg.Done()

	for u := range p.queue {
		metrics.SetQueueDepth(len(p.queue))
		p.process(id, u)
	}
}

func (p *Pool) process(id int, u tele.Update) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordUpdate("panic")
			p.logger.Error("Recovered panic while processing update",
				zap.Int("worker", id),
				zap.Int("update_id", u.ID),
				zap.Any("panic", r),
			)
		}
	}()

	p.processor.ProcessUpdate(u)
	metrics.RecordUpdate("processed")
}
