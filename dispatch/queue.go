// Package dispatch provides the execution queues methods can be pinned to
// with definition.OnQueue.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

var (
	ErrNotStarted = errors.New("dispatch: queue not started")
	ErrShutdown   = errors.New("dispatch: queue shut down")
)

// Queue runs submitted tasks on a fixed pool of worker goroutines.
// A queue with a single worker runs tasks one at a time in submission order.
type Queue struct {
	label   string
	workers int
	tasks   chan func()
	logger  *slog.Logger

	wg       sync.WaitGroup
	mu       sync.RWMutex
	started  bool
	shutdown bool
}

// Option configures a Queue.
type Option func(*Queue)

// WithLogger sets the logger used to report panicking tasks.
func WithLogger(l *slog.Logger) Option {
	return func(q *Queue) { q.logger = l }
}

// WithBuffer sets how many tasks may wait before Submit blocks.
func WithBuffer(n int) Option {
	return func(q *Queue) { q.tasks = make(chan func(), n) }
}

// NewQueue creates a queue with the given number of workers.
func NewQueue(label string, workers int, opts ...Option) *Queue {
	if workers <= 0 {
		workers = 4
	}
	q := &Queue{
		label:   label,
		workers: workers,
		tasks:   make(chan func(), 100),
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(q)
	}
	return q
}

// NewSerialQueue creates a queue with a single worker.
func NewSerialQueue(label string, opts ...Option) *Queue {
	return NewQueue(label, 1, opts...)
}

// Label identifies the queue in logs and metrics.
func (q *Queue) Label() string { return q.label }

// Workers returns the size of the worker pool.
func (q *Queue) Workers() int { return q.workers }

// Start launches the workers. Calling Start more than once has no effect.
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.started {
		return
	}
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
	q.started = true
}

func (q *Queue) worker(id int) {
	defer q.wg.Done()

	for task := range q.tasks {
		q.run(id, task)
	}
}

func (q *Queue) run(id int, task func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("dispatch task panicked", "queue", q.label, "worker", id, "panic", r)
		}
	}()
	task()
}

// Submit hands task to the queue. It blocks while the buffer is full and
// gives up when ctx is done.
func (q *Queue) Submit(ctx context.Context, task func()) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if !q.started {
		return ErrNotStarted
	}
	if q.shutdown {
		return ErrShutdown
	}

	select {
	case q.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting tasks, lets the workers finish what is already
// queued and waits for them to exit.
func (q *Queue) Shutdown() {
	q.mu.Lock()
	if !q.started || q.shutdown {
		q.mu.Unlock()
		return
	}
	q.shutdown = true
	close(q.tasks)
	q.mu.Unlock()

	q.wg.Wait()
}
