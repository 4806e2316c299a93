// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package workpool

import (
	"errors"
	"sync"
	"time"
)

// ErrPoolExiting signals that a shutdown of the Pool has been requested.
var ErrPoolExiting = errors.New("work pool exiting")

// DefaultWorkerTimeout is the default duration after which a worker goroutine
// will exit to free up resources after having received no newly submitted
// tasks.
const DefaultWorkerTimeout = 5 * time.Second

type (
	// Config parameterizes the behavior of a Pool.
	Config struct {
		// NumWorkers is the maximum number of workers the Pool will
		// permit to be allocated. Once the maximum number is reached,
		// submitted tasks queue up until an existing worker is free.
		NumWorkers int

		// WorkerTimeout is the duration after which a worker goroutine
		// will exit after having received no newly submitted tasks.
		WorkerTimeout time.Duration
	}

	// Pool runs submitted closures on a bounded set of goroutines that
	// are spawned on demand and retire when idle.
	Pool struct {
		started sync.Once
		stopped sync.Once

		cfg *Config

		// requests is a channel where new tasks are submitted. The
		// request handler always receives from it, so submission never
		// waits for a worker to become free.
		requests chan func()

		// work is a channel that hands queued tasks to active worker
		// goroutines.
		work chan func()

		// workerSem is a channel-based semaphore that is used to limit
		// the total number of worker goroutines to the number
		// prescribed by the Config.
		workerSem chan struct{}

		wg   sync.WaitGroup
		quit chan struct{}
	}
)

// New initializes a new Pool using the provided Config.
func New(cfg *Config) *Pool {
	numWorkers := cfg.NumWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}

	return &Pool{
		cfg:       cfg,
		requests:  make(chan func()),
		work:      make(chan func()),
		workerSem: make(chan struct{}, numWorkers),
		quit:      make(chan struct{}),
	}
}

// Start safely spins up the Pool.
func (p *Pool) Start() error {
	p.started.Do(func() {
		p.wg.Add(1)
		go p.requestHandler()
	})
	return nil
}

// Stop safely shuts down the Pool. Tasks that were queued but not yet picked
// up by a worker are dropped.
func (p *Pool) Stop() error {
	p.stopped.Do(func() {
		close(p.quit)
		p.wg.Wait()
	})
	return nil
}

// Submit queues a task for execution and returns without waiting for it to
// run. ErrPoolExiting is returned if a shutdown has been requested.
func (p *Pool) Submit(task func()) error {
	select {
	case <-p.quit:
		return ErrPoolExiting
	default:
	}

	select {
	case p.requests <- task:
		return nil

	case <-p.quit:
		return ErrPoolExiting
	}
}

// requestHandler queues incoming tasks and feeds them, oldest first, either
// to a newly allocated worker goroutine or to an already running one.
func (p *Pool) requestHandler() {
	defer p.wg.Done()

	var pending []func()
	for {
		// The send cases stay disabled through nil channels while
		// nothing is queued.
		var (
			next      func()
			work      chan func()
			workerSem chan struct{}
		)
		if len(pending) > 0 {
			next = pending[0]
			work = p.work
			workerSem = p.workerSem
		}

		select {
		case task := <-p.requests:
			pending = append(pending, task)

		// Hand the oldest task to an idle worker.
		case work <- next:
			pending[0] = nil
			pending = pending[1:]

		// If we have not reached our maximum number of workers,
		// spawn one to process the oldest task.
		case workerSem <- struct{}{}:
			pending[0] = nil
			pending = pending[1:]

			p.wg.Add(1)
			go p.spawnWorker(next)

		case <-p.quit:
			return
		}
	}
}

// spawnWorker runs the task it was spawned for, then continues to process
// tasks from the work channel until the pool is shut down or no new task is
// received before the worker's timeout elapses.
//
// NOTE: This method MUST be run as a goroutine.
func (p *Pool) spawnWorker(task func()) {
	defer p.wg.Done()
	defer func() { <-p.workerSem }()

	task()

	// We'll use a timer to implement the worker timeouts, as this reduces
	// the number of total allocations that would otherwise be necessary
	// with time.After.
	var t *time.Timer
	for {
		select {

		// Process any new tasks that get submitted. We use a
		// non-blocking case first so that under high load we can spare
		// allocating a timeout.
		case task := <-p.work:
			task()
			continue

		case <-p.quit:
			return

		default:
		}

		if t != nil {
			t.Reset(p.cfg.WorkerTimeout)
		} else {
			t = time.NewTimer(p.cfg.WorkerTimeout)
		}

		select {
		case task := <-p.work:
			task()

			// Stop the timer, draining the timer's channel if a
			// notification was already delivered.
			if !t.Stop() {
				<-t.C
			}

		// The timeout has elapsed, meaning the worker did not receive
		// any new tasks. Exit to allow the worker to return and free
		// its resources.
		case <-t.C:
			return

		case <-p.quit:
			return
		}
	}
}
