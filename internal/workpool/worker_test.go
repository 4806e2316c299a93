// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package workpool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestPoolRunsAllTasks asserts that every submitted task runs exactly once,
// even when many more tasks are submitted than there are workers.
func TestPoolRunsAllTasks(t *testing.T) {
	t.Parallel()

	const numTasks = 500

	p := New(&Config{
		NumWorkers:    4,
		WorkerTimeout: DefaultWorkerTimeout,
	})
	require.NoError(t, p.Start())
	defer p.Stop()

	var (
		wg    sync.WaitGroup
		count atomic.Int64
		seen  [numTasks]atomic.Int32
	)
	wg.Add(numTasks)
	for i := 0; i < numTasks; i++ {
		i := i
		err := p.Submit(func() {
			defer wg.Done()
			seen[i].Add(1)
			count.Add(1)
		})
		require.NoError(t, err)
	}

	wg.Wait()
	require.EqualValues(t, numTasks, count.Load())
	for i := range seen {
		require.EqualValues(t, 1, seen[i].Load(), "task %d", i)
	}
}

// TestPoolBoundsWorkers asserts that no more than NumWorkers tasks execute
// concurrently.
func TestPoolBoundsWorkers(t *testing.T) {
	t.Parallel()

	const (
		numWorkers = 3
		numTasks   = 30
	)

	p := New(&Config{
		NumWorkers:    numWorkers,
		WorkerTimeout: DefaultWorkerTimeout,
	})
	require.NoError(t, p.Start())
	defer p.Stop()

	var (
		wg        sync.WaitGroup
		active    atomic.Int32
		maxActive atomic.Int32
	)
	wg.Add(numTasks)
	for i := 0; i < numTasks; i++ {
		err := p.Submit(func() {
			defer wg.Done()

			n := active.Add(1)
			for {
				cur := maxActive.Load()
				if n <= cur || maxActive.CompareAndSwap(cur, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			active.Add(-1)
		})
		require.NoError(t, err)
	}

	wg.Wait()
	require.LessOrEqual(t, maxActive.Load(), int32(numWorkers))
}

// TestPoolSubmitDoesNotWait asserts that Submit returns while all workers are
// busy.
func TestPoolSubmitDoesNotWait(t *testing.T) {
	t.Parallel()

	p := New(&Config{
		NumWorkers:    1,
		WorkerTimeout: DefaultWorkerTimeout,
	})
	require.NoError(t, p.Start())

	release := make(chan struct{})
	done := make(chan struct{}, 3)
	for i := 0; i < 3; i++ {
		err := p.Submit(func() {
			<-release
			done <- struct{}{}
		})
		require.NoError(t, err)
	}

	close(release)
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatalf("task %d never ran", i)
		}
	}

	require.NoError(t, p.Stop())
}

// TestPoolWorkerTimeout asserts that idle workers retire and that the pool
// spawns fresh ones for later tasks.
func TestPoolWorkerTimeout(t *testing.T) {
	t.Parallel()

	p := New(&Config{
		NumWorkers:    2,
		WorkerTimeout: 10 * time.Millisecond,
	})
	require.NoError(t, p.Start())
	defer p.Stop()

	run := func() {
		done := make(chan struct{})
		require.NoError(t, p.Submit(func() { close(done) }))
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatalf("task never ran")
		}
	}

	run()
	require.Eventually(t, func() bool {
		return len(p.workerSem) == 0
	}, 5*time.Second, 5*time.Millisecond)
	run()
}

// TestPoolSubmitAfterStop asserts that a stopped pool refuses new tasks.
func TestPoolSubmitAfterStop(t *testing.T) {
	t.Parallel()

	p := New(&Config{
		NumWorkers:    1,
		WorkerTimeout: DefaultWorkerTimeout,
	})
	require.NoError(t, p.Start())
	require.NoError(t, p.Stop())

	// Stop is idempotent.
	require.NoError(t, p.Stop())

	err := p.Submit(func() {})
	require.ErrorIs(t, err, ErrPoolExiting)
}
