// Package task runs independent units of work on a bounded worker pool.
// It is the local stand-in for the distributed task runtime the VRE can
// schedule agents on: callers submit tasks, Wait blocks until all of them
// finish and reports the first failure.
package task

import (
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
)

// Pool executes submitted tasks with bounded parallelism.
type Pool struct {
	pool *ants.Pool
	wg   sync.WaitGroup

	mu       sync.Mutex
	firstErr error
}

// NewPool creates a pool running at most size tasks concurrently.
func NewPool(size int) (*Pool, error) {
	p, err := ants.NewPool(size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create worker pool")
	}
	return &Pool{pool: p}, nil
}

// Submit schedules fn to run on the pool. The error returned by fn is
// recorded; the first one observed is reported by Wait.
func (p *Pool) Submit(fn func() error) error {
	p.wg.Add(1)
	err := p.pool.Submit(func() {
		defer p.wg.Done()
		if err := fn(); err != nil {
			p.record(err)
		}
	})
	if err != nil {
		p.wg.Done()
		return errors.Wrap(err, "failed to submit task")
	}
	return nil
}

// Wait blocks until every submitted task has finished and returns the
// first recorded failure, if any.
func (p *Pool) Wait() error {
	p.wg.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.firstErr
}

// Release stops the pool. Pending tasks are not waited for; call Wait
// first.
func (p *Pool) Release() {
	p.pool.Release()
}

func (p *Pool) record(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.firstErr == nil {
		p.firstErr = err
	}
}
