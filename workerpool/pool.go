package workerpool

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

const DefaultSize = 40

// ErrClosed is returned by Run once Close has been called.
var ErrClosed = errors.New("worker pool is closed")

// PanicError carries a panic recovered from a job.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("job panicked: %v", e.Value)
}

// Pool bounds how many blocking jobs run at once. Callers wait for a slot;
// once a job starts it runs to completion even if the caller goes away.
type Pool struct {
	sem    *semaphore.Weighted
	size   int
	wg     sync.WaitGroup
	active atomic.Int64
	logger *logrus.Logger

	// mu orders wg.Add in Run against Close, so Wait never misses a job.
	mu     sync.Mutex
	closed bool
}

func New(size int, logger *logrus.Logger) *Pool {
	if size <= 0 {
		size = DefaultSize
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Pool{
		sem:    semaphore.NewWeighted(int64(size)),
		size:   size,
		logger: logger,
	}
}

func (p *Pool) Size() int {
	return p.size
}

// Active returns the number of jobs currently holding a slot.
func (p *Pool) Active() int {
	return int(p.active.Load())
}

// Run waits for a free slot, then runs fn on its own goroutine and returns
// its result. Cancelling ctx while waiting for a slot returns ctx.Err().
// Cancelling ctx after fn has started stops the wait for the result but not
// fn itself: fn receives a context detached from ctx's cancellation.
func Run[T any](ctx context.Context, p *Pool, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if p.isClosed() {
		return zero, ErrClosed
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return zero, errors.Wrap(err, "acquire worker slot")
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.sem.Release(1)
		return zero, ErrClosed
	}
	p.wg.Add(1)
	p.active.Add(1)
	p.mu.Unlock()

	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)

	go func() {
		defer p.wg.Done()

		start := time.Now()
		val, err := call(context.WithoutCancel(ctx), fn)
		p.active.Add(-1)
		p.sem.Release(1)

		entry := p.logger.WithField("duration", time.Since(start))
		if err != nil {
			entry.WithError(err).Debug("Job failed")
		} else {
			entry.Debug("Job finished")
		}
		done <- result{val: val, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		p.logger.Warn("Caller left before job finished; job continues in background")
		return zero, ctx.Err()
	}
}

func call[T any](ctx context.Context, fn func(context.Context) (T, error)) (val T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn(ctx)
}

func (p *Pool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Close stops the pool from accepting new jobs. Running jobs are unaffected.
// Callers still waiting for a slot get ErrClosed once they acquire one.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

// Wait closes the pool, then blocks until every started job has finished or
// ctx is done.
func (p *Pool) Wait(ctx context.Context) error {
	p.Close()

	finished := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), "%d jobs still running", p.Active())
	}
}
