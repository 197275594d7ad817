package ecs_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessera-engine/tessera/ecs"
)

func TestWorkerPoolGroupTaskRunsEveryIndex(t *testing.T) {
	pool := ecs.NewWorkerPool(4)
	var mu sync.Mutex
	seen := make(map[int]bool)

	err := pool.GroupTask(10, func(i int) {
		mu.Lock()
		seen[i] = true
		mu.Unlock()
	})

	require.NoError(t, err)
	assert.Len(t, seen, 10)
}

func TestWorkerPoolGroupTaskZeroSizeIsNoop(t *testing.T) {
	pool := ecs.NewWorkerPool(4)
	called := false
	err := pool.GroupTask(0, func(int) { called = true })
	require.NoError(t, err)
	assert.False(t, called)
}

func TestWorkerPoolRecoversTaskPanicAndReturnsError(t *testing.T) {
	pool := ecs.NewWorkerPool(2)
	var ran int32

	err := pool.GroupTask(5, func(i int) {
		atomic.AddInt32(&ran, 1)
		if i == 2 {
			panic("boom")
		}
	})

	assert.Error(t, err)
	assert.Equal(t, int32(5), atomic.LoadInt32(&ran), "every task should still have run despite one panicking")
}

func TestWorkerPoolWithSentryDSNEmptyDisablesReporting(t *testing.T) {
	pool := ecs.NewWorkerPool(1)
	same, err := pool.WithSentryDSN("")
	require.NoError(t, err)
	assert.Same(t, pool, same)
}
