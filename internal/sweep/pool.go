// File: internal/sweep/pool.go
package sweep

import "sync"

// poolState is the shared state of one sweep, guarded by mu. The coordinator
// and every worker hold a reference to the same instance for the lifetime of
// the sweep.
//
// The job slot has capacity one: pending is true while a published block
// number has not yet been claimed by a worker. The coordinator must not
// publish the next block until the slot is empty again.
type poolState struct {
	mu sync.Mutex

	// jobReady is signaled when a job is published or terminate is set
	jobReady *sync.Cond
	// jobTaken is signaled when a worker claims the pending job
	jobTaken *sync.Cond
	// jobDone is signaled when a worker finishes a claimed job
	jobDone *sync.Cond

	pending    bool
	pendingBlk uint64

	// active is the number of workers currently owning a claimed job.
	// Invariant: 0 <= active <= maxWorkers.
	active int

	// terminate is set once, after the last block or on the first fatal
	// error, and observed by workers waiting for a job
	terminate bool

	// err holds the first fatal adapter error
	err error
}

func newPoolState() *poolState {
	s := &poolState{}
	s.jobReady = sync.NewCond(&s.mu)
	s.jobTaken = sync.NewCond(&s.mu)
	s.jobDone = sync.NewCond(&s.mu)
	return s
}

// fail records the first fatal error, discards any unclaimed job and wakes
// every suspended goroutine so the sweep can unwind. Caller must hold mu.
func (s *poolState) fail(err error) {
	if s.err == nil {
		s.err = err
	}
	s.terminate = true
	s.pending = false
	s.jobReady.Broadcast()
	s.jobTaken.Broadcast()
	s.jobDone.Broadcast()
}

// firstError returns the first fatal error recorded by fail
func (s *poolState) firstError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
