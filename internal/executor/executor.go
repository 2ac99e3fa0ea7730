// Package executor confines blocking storage calls to a fixed-size worker
// pool so that request handling goroutines never talk to the backend
// directly. Pool exhaustion queues excess callers; backpressure is implicit.
package executor

import (
	"fmt"

	"github.com/panjf2000/ants/v2"
)

// Pool is a bounded-concurrency executor backed by an ants goroutine pool.
type Pool struct {
	pool *ants.Pool
}

// New creates a pool with the given number of workers. Submitting to a full
// pool blocks until a worker frees up.
func New(size int) (*Pool, error) {
	if size <= 0 {
		size = 10
	}
	p, err := ants.NewPool(size)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &Pool{pool: p}, nil
}

// Do runs fn on a pool worker and waits for it to finish. Once submitted a
// task always runs to completion; there is no cancellation.
func (p *Pool) Do(fn func() error) error {
	errCh := make(chan error, 1)
	if err := p.pool.Submit(func() { errCh <- fn() }); err != nil {
		return fmt.Errorf("submit task: %w", err)
	}
	return <-errCh
}

// Size returns the pool capacity.
func (p *Pool) Size() int {
	return p.pool.Cap()
}

// Release drains the pool. Called once on shutdown.
func (p *Pool) Release() {
	p.pool.Release()
}
