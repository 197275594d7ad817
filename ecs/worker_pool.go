package ecs

import (
	"context"
	"fmt"

	"github.com/getsentry/sentry-go"
	"golang.org/x/sync/errgroup"
)

// WorkerPool is the scheduler's bounded thread pool: a
// group_task(size, body(index)) primitive that blocks the caller until
// every invocation completes. Built on errgroup.Group with SetLimit.
type WorkerPool struct {
	limit int
	// reportPanics forwards a recovered task panic to Sentry before it is
	// returned to the caller, mirroring newbpydev-bubblyui's
	// SentryReporter.ReportPanic. False (the NewWorkerPool default) means
	// no DSN was configured; panics are still recovered and returned, just
	// not forwarded anywhere.
	reportPanics bool
}

// NewWorkerPool returns a pool that runs at most limit bodies concurrently.
// A limit of zero or less means unbounded (errgroup's convention).
func NewWorkerPool(limit int) *WorkerPool {
	return &WorkerPool{limit: limit}
}

// WithSentryDSN initializes the Sentry SDK with dsn and makes this pool
// forward every recovered task panic to it as a captured exception, tagged
// with the batch task index. An empty dsn disables Sentry (and reporting)
// the same way newbpydev-bubblyui's NewSentryReporter treats an empty DSN
// as a test no-op. Returns p for chaining.
func (p *WorkerPool) WithSentryDSN(dsn string) (*WorkerPool, error) {
	if dsn == "" {
		p.reportPanics = false
		return p, nil
	}
	if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
		return p, fmt.Errorf("ecs: sentry init: %w", err)
	}
	p.reportPanics = true
	return p, nil
}

// GroupTask runs body(0), body(1), ..., body(size-1) across the pool and
// blocks until all have returned. A body's panic is recovered and
// propagated to the caller only after every other body in the group has
// joined, so one panicking task never starves its siblings.
func (p *WorkerPool) GroupTask(size int, body func(index int)) error {
	if size <= 0 {
		return nil
	}

	g, _ := errgroup.WithContext(context.Background())
	if p.limit > 0 {
		g.SetLimit(p.limit)
	}

	for i := 0; i < size; i++ {
		i := i
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &taskPanicError{index: i, value: r}
					if p.reportPanics {
						sentry.WithScope(func(scope *sentry.Scope) {
							scope.SetTag("component", "worker_pool")
							scope.SetExtra("task_index", i)
							sentry.CaptureException(err)
						})
					}
				}
			}()
			body(i)
			return nil
		})
	}

	return g.Wait()
}

type taskPanicError struct {
	index int
	value any
}

func (e *taskPanicError) Error() string {
	return fmt.Sprintf("ecs: worker task %d panicked: %v", e.index, e.value)
}
