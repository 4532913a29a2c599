// Package workerpool runs CPU-bound callables on a fixed set of worker
// goroutines so that image rasterization never blocks request dispatch.
//
// The pool size is independent of the batch runner's logical concurrency
// bound: the runner caps how many items are in flight, the pool caps how many
// of those may burn a CPU at once. Tasks queue when all workers are busy;
// backpressure is implicit queuing, there is no admission rejection.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("workerpool: pool is closed")

// DefaultSize is the worker count used when none is configured.
const DefaultSize = 10

type task struct {
	fn   func() (any, error)
	done chan result
}

type result struct {
	value any
	err   error
}

// Pool is a fixed-size worker pool. Safe for concurrent use.
type Pool struct {
	tasks chan task
	quit  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once
}

// New starts a pool with the given number of workers.
// A size <= 0 falls back to DefaultSize.
func New(size int) *Pool {
	if size <= 0 {
		size = DefaultSize
	}
	p := &Pool{
		tasks: make(chan task),
		quit:  make(chan struct{}),
	}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.quit:
			return
		case t := <-p.tasks:
			value, err := runTask(t.fn)
			t.done <- result{value: value, err: err}
		}
	}
}

// runTask executes fn, converting a panic into an error so a misbehaving
// task cannot kill its worker.
func runTask(fn func() (any, error)) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("workerpool: task panicked: %v", r)
		}
	}()
	return fn()
}

// Submit queues fn and waits for its result. The wait honors ctx: if the
// context is cancelled before a worker picks the task up, Submit returns the
// context error and the task is dropped; once started, a task runs to
// completion even if the submitter has gone away.
func (p *Pool) Submit(ctx context.Context, fn func() (any, error)) (any, error) {
	t := task{fn: fn, done: make(chan result, 1)}
	select {
	case p.tasks <- t:
	case <-p.quit:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-t.done:
		return res.value, res.err
	case <-ctx.Done():
		// The task is already running; its buffered done channel lets
		// the worker finish without a receiver.
		return nil, ctx.Err()
	}
}

// Close stops the workers and waits for the in-flight tasks to finish.
// Idempotent.
func (p *Pool) Close() {
	p.once.Do(func() { close(p.quit) })
	p.wg.Wait()
}
