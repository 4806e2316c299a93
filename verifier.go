// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitcoinkey

import (
	"runtime"
	"sync"
	"time"

	"github.com/ModChain/bitcoinkey/internal/workpool"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// VerifyCallback receives the outcome of an asynchronous verification.  err
// is non-nil only when the verification primitive itself failed, in which
// case valid is false.
type VerifyCallback func(err error, valid bool)

// AsyncVerifierConfig parameterizes an AsyncVerifier.
type AsyncVerifierConfig struct {
	// NumWorkers is the maximum number of goroutines verifying signatures
	// at the same time.
	NumWorkers int

	// WorkerTimeout is how long an idle worker goroutine lingers before
	// exiting.
	WorkerTimeout time.Duration
}

// DefaultAsyncVerifierConfig returns a config with one worker per CPU.
func DefaultAsyncVerifierConfig() *AsyncVerifierConfig {
	return &AsyncVerifierConfig{
		NumWorkers:    runtime.NumCPU(),
		WorkerTimeout: workpool.DefaultWorkerTimeout,
	}
}

// verifyRequest is a single scheduled verification.  The public key is the
// one the key held at submission.
type verifyRequest struct {
	pub    *secp256k1.PublicKey
	digest []byte
	sig    []byte
	cb     VerifyCallback

	valid bool
	err   error
}

// AsyncVerifier verifies signatures on a bounded pool of worker goroutines
// and delivers every result through its callback on a single dispatch
// goroutine.  Callbacks therefore never run concurrently with one another.
type AsyncVerifier struct {
	started sync.Once
	stopped sync.Once

	cfg  *AsyncVerifierConfig
	pool *workpool.Pool

	// results carries finished requests from the workers to the
	// dispatcher.
	results chan *verifyRequest

	// mu guards running against concurrent Verify and Stop calls.
	mu      sync.RWMutex
	running bool

	// inflight counts requests whose callback has not returned yet.
	inflight sync.WaitGroup

	wg   sync.WaitGroup
	quit chan struct{}
}

// NewAsyncVerifier creates an AsyncVerifier.  A nil config selects
// DefaultAsyncVerifierConfig.
func NewAsyncVerifier(cfg *AsyncVerifierConfig) *AsyncVerifier {
	if cfg == nil {
		cfg = DefaultAsyncVerifierConfig()
	}

	return &AsyncVerifier{
		cfg: cfg,
		pool: workpool.New(&workpool.Config{
			NumWorkers:    cfg.NumWorkers,
			WorkerTimeout: cfg.WorkerTimeout,
		}),
		results: make(chan *verifyRequest),
		quit:    make(chan struct{}),
	}
}

// Start launches the worker pool and the dispatcher.
func (v *AsyncVerifier) Start() error {
	var err error
	v.started.Do(func() {
		v.mu.Lock()
		defer v.mu.Unlock()

		select {
		case <-v.quit:
			err = makeError(ErrPrecondition, "async verifier already "+
				"stopped")
			return
		default:
		}

		if err = v.pool.Start(); err != nil {
			return
		}

		v.wg.Add(1)
		go v.dispatcher()

		v.running = true
		log.Debugf("Async verifier started with %d workers",
			v.cfg.NumWorkers)
	})
	return err
}

// Stop refuses new requests, waits for every scheduled request to deliver
// its callback and then shuts down the pool and the dispatcher.
//
// NOTE: Stop must not be called from within a VerifyCallback.
func (v *AsyncVerifier) Stop() error {
	v.stopped.Do(func() {
		v.mu.Lock()
		v.running = false
		v.mu.Unlock()

		v.inflight.Wait()

		v.pool.Stop()
		close(v.quit)
		v.wg.Wait()

		log.Debugf("Async verifier stopped")
	})
	return nil
}

// Verify schedules the verification of sig over digest against the public
// component key holds right now and returns immediately.  cb is invoked
// exactly once with the result.
//
// Argument problems are reported synchronously and cb is not invoked: a
// missing public component, a digest that is not 32 bytes, a nil callback or
// a verifier that is not running.
func (v *AsyncVerifier) Verify(key *Key, digest, sig []byte,
	cb VerifyCallback) error {

	if cb == nil {
		return makeError(ErrInvalidArgument, "nil verify callback")
	}
	pub, ok := publicOf(key.current())
	if !ok {
		return makeError(ErrPrecondition, "verification requires a "+
			"public key")
	}
	if err := checkDigest(digest); err != nil {
		return err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	if !v.running {
		return makeError(ErrPrecondition, "async verifier is not running")
	}

	req := &verifyRequest{
		pub:    pub.key,
		digest: append([]byte(nil), digest...),
		sig:    append([]byte(nil), sig...),
		cb:     cb,
	}

	v.inflight.Add(1)
	err := v.pool.Submit(func() {
		v.process(req)
	})
	if err != nil {
		v.inflight.Done()
		return makeError(ErrPrecondition, "async verifier is not "+
			"running: "+err.Error())
	}

	return nil
}

// process runs on a worker goroutine.  It touches nothing but the request.
func (v *AsyncVerifier) process(req *verifyRequest) {
	req.valid, req.err = verifySignature(req.pub, req.digest, req.sig)
	if req.err != nil {
		log.Warnf("Async signature verification failed: %v", req.err)
	}

	v.results <- req
}

// dispatcher delivers completed requests to their callbacks one at a time.
//
// NOTE: This method MUST be run as a goroutine.
func (v *AsyncVerifier) dispatcher() {
	defer v.wg.Done()

	for {
		select {
		case req := <-v.results:
			req.cb(req.err, req.valid)
			v.inflight.Done()

		case <-v.quit:
			return
		}
	}
}
